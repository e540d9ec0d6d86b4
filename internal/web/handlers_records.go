package web

import (
	"net/http"

	"cypher/internal/game"
)

type characterResp struct {
	Character  game.Character        `json:"character"`
	Pools      game.CharacterPoolSet `json:"pools"`
	Recovery   int                   `json:"recovery"`
	Health     *game.Attribute       `json:"health,omitempty"`
	Attributes []game.Attribute      `json:"attributes"`
}

func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ch, pools, recovery, ok := s.character(w, r)
	if !ok {
		return
	}
	resp := characterResp{Character: ch, Pools: pools, Recovery: recovery.Current}
	if h, found, err := s.Records.GetAttribute(ctx, ch.ID, game.AttrHealth); err != nil {
		s.writeError(w, err, nil)
		return
	} else if found {
		resp.Health = &h
	}
	attrs, err := s.Records.ListAttributes(ctx, ch.ID)
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	if attrs == nil {
		attrs = []game.Attribute{}
	}
	resp.Attributes = attrs
	writeJSON(w, http.StatusOK, resp)
}

// character resolves the {id} path value and the character's pools. It
// writes the error response itself and reports false on failure.
func (s *Server) character(w http.ResponseWriter, r *http.Request) (game.Character, game.CharacterPoolSet, game.Attribute, bool) {
	ctx := r.Context()
	id := r.PathValue("id")
	ch, found, err := s.Records.GetCharacter(ctx, id)
	if err != nil {
		s.writeError(w, err, nil)
		return game.Character{}, game.CharacterPoolSet{}, game.Attribute{}, false
	}
	if !found {
		s.writeError(w, game.WithMetadata(game.CodeCharacterNotFound, "not a character: "+id,
			map[string]string{"character_id": id}), nil)
		return game.Character{}, game.CharacterPoolSet{}, game.Attribute{}, false
	}
	pools, recovery, err := s.Engine.Pools.Snapshot(ctx, ch.ID)
	if err != nil {
		s.writeError(w, err, nil)
		return game.Character{}, game.CharacterPoolSet{}, game.Attribute{}, false
	}
	return ch, pools, recovery, true
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tok, found, err := s.Records.GetToken(r.Context(), id)
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	if !found {
		s.writeError(w, game.WithMetadata(game.CodeTokenNotFound, "no token "+id,
			map[string]string{"token_id": id}), nil)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}
