package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Engine bundles both resolvers over the same stores.
type Engine struct {
	Pools  *PoolCascadeResolver
	Damage *DamageResolver
}

func NewEngine(chars CharacterStore, tokens TokenStore, n Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		Pools: &PoolCascadeResolver{
			Characters: chars,
			Notifier:   n,
			Logger:     logger,
		},
		Damage: &DamageResolver{
			Characters: chars,
			Tokens:     tokens,
			Notifier:   n,
			Logger:     logger,
		},
	}
}

// WithNotifier returns a copy of the engine that reports to n instead.
func (e *Engine) WithNotifier(n Notifier) *Engine {
	pools := *e.Pools
	damage := *e.Damage
	pools.Notifier = n
	damage.Notifier = n
	return &Engine{Pools: &pools, Damage: &damage}
}

// loadAttribute reads a character attribute, falling back to the sheet
// default when no record exists. Max is raised to the current value.
func loadAttribute(ctx context.Context, chars CharacterStore, characterID, name string) (Attribute, error) {
	attr, ok, err := chars.GetAttribute(ctx, characterID, name)
	if err != nil {
		return Attribute{}, fmt.Errorf("get %s: %w", name, err)
	}
	if !ok {
		attr, err = chars.DefaultAttribute(ctx, characterID, name)
		if err != nil {
			return Attribute{}, fmt.Errorf("default %s: %w", name, err)
		}
	}
	attr.Name = name
	return normalize(attr), nil
}

// deliver sends msg, logging instead of failing when the channel is down.
func deliver(ctx context.Context, n Notifier, log *zap.Logger, msg Message) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, msg); err != nil {
		log.Warn("notify failed", zap.Error(err), zap.String("text", msg.Text))
	}
}

func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
