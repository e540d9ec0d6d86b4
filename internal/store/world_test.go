package store

import (
	"context"
	"testing"

	"cypher/internal/game"
)

func TestWorld_AttributeRoundTrip(t *testing.T) {
	w := NewWorld()
	ctx := context.Background()

	if err := w.PutCharacter(ctx, game.Character{ID: "c1", Name: "Ayla"}); err != nil {
		t.Fatalf("PutCharacter: %v", err)
	}
	if err := w.PutAttribute(ctx, "c1", game.Attribute{Name: "might", Current: 7, Max: 10}); err != nil {
		t.Fatalf("PutAttribute: %v", err)
	}

	got, ok, err := w.GetAttribute(ctx, "c1", "might")
	if err != nil {
		t.Fatalf("GetAttribute: %v", err)
	}
	if !ok {
		t.Fatal("Expected might attribute to exist")
	}
	if got.Current != 7 || got.Max != 10 {
		t.Errorf("Expected might 7/10, got %d/%d", got.Current, got.Max)
	}

	// Same attribute name on another character is a separate record
	_, ok, _ = w.GetAttribute(ctx, "c2", "might")
	if ok {
		t.Error("Expected no might attribute for c2")
	}

	_ = w.PutAttribute(ctx, "c10", game.Attribute{Name: "speed", Current: 1, Max: 1})
	attrs, err := w.ListAttributes(ctx, "c1")
	if err != nil {
		t.Fatalf("ListAttributes: %v", err)
	}
	if len(attrs) != 1 || attrs[0].Name != "might" {
		t.Errorf("Expected only might for c1, got %+v", attrs)
	}
}

func TestWorld_DefaultAttribute(t *testing.T) {
	w := NewWorld()
	ctx := context.Background()

	_ = w.SetDefaults(ctx, map[string]game.Attribute{
		"might": {Current: 10, Max: 10},
		"speed": {Current: 9, Max: 9},
	})
	err := w.PutCharacter(ctx, game.Character{
		ID:       "c1",
		Defaults: map[string]game.Attribute{"might": {Current: 14, Max: 14}},
	})
	if err != nil {
		t.Fatalf("PutCharacter: %v", err)
	}

	tests := []struct {
		name        string
		characterID string
		attr        string
		want        int
	}{
		{"character default wins", "c1", "might", 14},
		{"store default used", "c1", "speed", 9},
		{"unknown is zero", "c1", "intellect", 0},
		{"missing character uses store default", "nobody", "might", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.DefaultAttribute(ctx, tt.characterID, tt.attr)
			if err != nil {
				t.Fatalf("DefaultAttribute: %v", err)
			}
			if got.Current != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got.Current)
			}
			if got.Name != tt.attr {
				t.Errorf("Expected name %q, got %q", tt.attr, got.Name)
			}
		})
	}
}

func TestWorld_PutTokenAssignsID(t *testing.T) {
	w := NewWorld()
	ctx := context.Background()

	if err := w.PutToken(ctx, game.Token{Name: "Goblin"}); err != nil {
		t.Fatalf("PutToken: %v", err)
	}
	keys := w.Tokens.Keys()
	if len(keys) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(keys))
	}
	tok, ok, err := w.GetToken(ctx, keys[0])
	if err != nil || !ok {
		t.Fatalf("GetToken: ok=%v err=%v", ok, err)
	}
	if tok.ID != keys[0] {
		t.Errorf("Expected stored token to carry its id %q, got %q", keys[0], tok.ID)
	}
}

func TestWorld_SeedAndResolve(t *testing.T) {
	w := NewWorld()
	ctx := context.Background()
	world := &game.World{
		Defaults: map[string]game.Attribute{"speed": {Current: 10, Max: 10}},
		Characters: []game.CharacterSeed{
			{
				Character:  game.Character{ID: "c1", Name: "Ayla"},
				Attributes: []game.Attribute{{Name: "might", Current: 5, Max: 10}},
			},
		},
	}
	if err := world.Seed(ctx, w); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	engine := game.NewEngine(w, w, nil, nil)
	out, err := engine.Pools.ApplyCost(ctx, "c1", "might", 8)
	if err != nil {
		t.Fatalf("ApplyCost: %v", err)
	}
	if out.Pools.Might.Current != 0 || out.Pools.Speed.Current != 7 {
		t.Errorf("Expected might 0 and speed 7, got %d and %d", out.Pools.Might.Current, out.Pools.Speed.Current)
	}
	speed, ok, _ := w.GetAttribute(ctx, "c1", "speed")
	if !ok || speed.Current != 7 || speed.Max != 10 {
		t.Errorf("Expected speed record 7/10 created from defaults, got %+v (ok=%v)", speed, ok)
	}
}
