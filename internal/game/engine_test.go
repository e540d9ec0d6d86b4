package game

import (
	"context"
	"testing"
)

func TestNewEngine(t *testing.T) {
	st := newFakeStore()
	rec := &recorder{}
	e := NewEngine(st, st, rec, nil)

	if e.Pools.Characters != st || e.Damage.Tokens != st {
		t.Error("Expected both resolvers wired to the store")
	}
	if e.Pools.Notifier != rec || e.Damage.Notifier != rec {
		t.Error("Expected both resolvers wired to the notifier")
	}
}

func TestEngine_WithNotifier(t *testing.T) {
	st := mookWorld(10, 10, 0)
	shared := &recorder{}
	e := NewEngine(st, st, shared, nil)

	local := &recorder{}
	scoped := e.WithNotifier(local)
	if _, err := scoped.Damage.ApplyDamage(context.Background(), "t1", 2, true); err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}
	if len(local.msgs) != 1 {
		t.Errorf("Expected scoped notifier to receive 1 message, got %d", len(local.msgs))
	}
	if len(shared.msgs) != 0 {
		t.Errorf("Expected original engine untouched, got %d messages", len(shared.msgs))
	}
	if e.Damage.Notifier != shared {
		t.Error("Expected original engine notifier unchanged")
	}
}
