package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cypher/internal/chat"
	"cypher/internal/command"
	"cypher/internal/game"
)

// Records is the record store the server reads and the resolvers write.
type Records interface {
	game.CharacterStore
	game.TokenStore
	ListAttributes(ctx context.Context, characterID string) ([]game.Attribute, error)
}

type Server struct {
	Engine   *game.Engine
	Records  Records
	Notifier game.Notifier // table channel; every message is also returned to the caller
	Logger   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /api/pool-cascade-cost", s.handlePoolCascadeCost)
	mux.HandleFunc("POST /api/npc-damage", s.handleNPCDamage)

	mux.HandleFunc("GET /characters/{id}", s.handleCharacter)
	mux.HandleFunc("GET /characters/{id}/sheet", s.handleSheet)
	mux.HandleFunc("GET /tokens/{id}", s.handleToken)
	return s.logRequests(mux)
}

// scoped returns a dispatcher whose messages reach the table channel and
// the returned recorder.
func (s *Server) scoped() (*command.Dispatcher, *chat.Recorder) {
	rec := &chat.Recorder{}
	n := chat.Multi{s.Notifier, rec}
	return &command.Dispatcher{
		Engine:   s.Engine.WithNotifier(n),
		Notifier: n,
		Logger:   s.Logger,
	}, rec
}

type errorResp struct {
	Error    string            `json:"error"`
	Code     string            `json:"code,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Messages []game.Message    `json:"messages,omitempty"`
}

// statusFor maps resolver failures to HTTP status codes.
func statusFor(err error) int {
	var de *game.Error
	if !errors.As(err, &de) {
		if errors.Is(err, command.ErrInvalidParameters) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
	switch de.Code {
	case game.CodeCharacterNotFound, game.CodeTokenNotFound:
		return http.StatusNotFound
	case game.CodeInvalidAmount:
		return http.StatusBadRequest
	case game.CodeTokenNotLinked, game.CodeMissingHealthAttribute:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, msgs []game.Message) {
	status := statusFor(err)
	resp := errorResp{Error: err.Error(), Messages: msgs}
	var de *game.Error
	if errors.As(err, &de) {
		resp.Error = de.Message
		resp.Code = string(de.Code)
		resp.Metadata = de.Metadata
	} else if status == http.StatusInternalServerError {
		s.logger().Error("request failed", zap.Error(err))
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
