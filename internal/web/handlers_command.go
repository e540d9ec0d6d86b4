package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"cypher/internal/command"
	"cypher/internal/game"
)

type chatResp struct {
	Handled  bool           `json:"handled"`
	Command  string         `json:"command,omitempty"`
	Error    string         `json:"error,omitempty"`
	Messages []game.Message `json:"messages"`
}

// handleChat runs one chat line. Failures are part of the conversation, so
// the status is 200 unless the body is unreadable or the server broke.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var msg command.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	d, rec := s.scoped()
	res, err := d.Handle(r.Context(), msg)

	resp := chatResp{Handled: true, Messages: rec.Messages()}
	if resp.Messages == nil {
		resp.Messages = []game.Message{}
	}
	if res.Command.Kind != 0 {
		resp.Command = res.Command.Kind.String()
	}
	switch {
	case err == nil:
	case errors.Is(err, command.ErrNotACommand), errors.Is(err, command.ErrUnknownCommand):
		resp.Handled = false
	default:
		if statusFor(err) == http.StatusInternalServerError {
			s.writeError(w, err, resp.Messages)
			return
		}
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type poolCascadeCostReq struct {
	CharacterID string `json:"character_id"`
	Target      string `json:"target"`
	Cost        int    `json:"cost"`
}

func (s *Server) handlePoolCascadeCost(w http.ResponseWriter, r *http.Request) {
	var req poolCascadeCostReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	d, rec := s.scoped()
	out, err := d.Engine.Pools.ApplyCost(r.Context(), req.CharacterID, req.Target, req.Cost)
	if err != nil {
		s.writeError(w, err, rec.Messages())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type npcDamageReq struct {
	TokenID    string `json:"token_id"`
	Amount     int    `json:"amount"`
	ApplyArmor *bool  `json:"apply_armor"` // defaults to true
}

func (s *Server) handleNPCDamage(w http.ResponseWriter, r *http.Request) {
	var req npcDamageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	mitigate := req.ApplyArmor == nil || *req.ApplyArmor
	d, rec := s.scoped()
	out, err := d.Engine.Damage.ApplyDamage(r.Context(), req.TokenID, req.Amount, mitigate)
	if err != nil {
		s.writeError(w, err, rec.Messages())
		return
	}
	writeJSON(w, http.StatusOK, out)
}
