// Package chat delivers resolver messages to the table.
package chat

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"cypher/internal/game"
)

// Logger writes every message to a structured log. It is the default
// channel when no chat host is attached.
type Logger struct {
	Log    *zap.Logger
	GMName string // shown instead of the "gm" recipient
}

func (l Logger) Notify(_ context.Context, msg game.Message) error {
	if l.Log == nil {
		return nil
	}
	fields := []zap.Field{zap.String("from", msg.From)}
	switch {
	case msg.To == game.ToGM && l.GMName != "":
		fields = append(fields, zap.String("to", l.GMName))
	case msg.To != "":
		fields = append(fields, zap.String("to", msg.To))
	}
	l.Log.Info(msg.Text, fields...)
	return nil
}

// Recorder keeps messages in memory, e.g. to return them in an HTTP
// response.
type Recorder struct {
	mu   sync.Mutex
	msgs []game.Message
}

func (r *Recorder) Notify(_ context.Context, msg game.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []game.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]game.Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Multi sends each message to every notifier and joins their errors.
type Multi []game.Notifier

func (m Multi) Notify(ctx context.Context, msg game.Message) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
