package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"cypher/internal/game"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cypher.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatal("Expected empty path error")
	}
}

func TestOpenTwiceKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cypher.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.PutAttribute(ctx, "c1", game.Attribute{Name: "might", Current: 4, Max: 10}); err != nil {
		t.Fatalf("PutAttribute: %v", err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()
	got, ok, err := s.GetAttribute(ctx, "c1", "might")
	if err != nil || !ok {
		t.Fatalf("GetAttribute: ok=%v err=%v", ok, err)
	}
	if got.Current != 4 || got.Max != 10 {
		t.Errorf("Expected might 4/10 after reopen, got %d/%d", got.Current, got.Max)
	}
}

func TestCharacterRoundTrip(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	in := game.Character{
		ID:           "c1",
		Name:         "Ayla",
		ControlledBy: "player-1",
		Defaults:     map[string]game.Attribute{"might": {Name: "might", Current: 12, Max: 12}},
	}
	if err := s.PutCharacter(ctx, in); err != nil {
		t.Fatalf("PutCharacter: %v", err)
	}
	got, ok, err := s.GetCharacter(ctx, "c1")
	if err != nil || !ok {
		t.Fatalf("GetCharacter: ok=%v err=%v", ok, err)
	}
	if got.Name != "Ayla" || got.ControlledBy != "player-1" {
		t.Errorf("Unexpected character %+v", got)
	}
	if got.Defaults["might"].Max != 12 {
		t.Errorf("Expected might default 12, got %+v", got.Defaults)
	}

	// replacing drops old defaults
	in.Defaults = nil
	in.Name = "Ayla the Bold"
	if err := s.PutCharacter(ctx, in); err != nil {
		t.Fatalf("PutCharacter: %v", err)
	}
	got, _, _ = s.GetCharacter(ctx, "c1")
	if got.Name != "Ayla the Bold" || len(got.Defaults) != 0 {
		t.Errorf("Expected renamed character without defaults, got %+v", got)
	}

	if _, ok, err := s.GetCharacter(ctx, "missing"); ok || err != nil {
		t.Errorf("Expected missing character, got ok=%v err=%v", ok, err)
	}
}

func TestDefaultAttribute(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	if err := s.SetDefaults(ctx, map[string]game.Attribute{
		"might": {Current: 10, Max: 10},
		"speed": {Current: 9, Max: 9},
	}); err != nil {
		t.Fatalf("SetDefaults: %v", err)
	}
	if err := s.PutCharacter(ctx, game.Character{
		ID:       "c1",
		Defaults: map[string]game.Attribute{"might": {Current: 14, Max: 14}},
	}); err != nil {
		t.Fatalf("PutCharacter: %v", err)
	}

	tests := []struct {
		name string
		want int
	}{
		{"might", 14},
		{"speed", 9},
		{"intellect", 0},
	}
	for _, tt := range tests {
		got, err := s.DefaultAttribute(ctx, "c1", tt.name)
		if err != nil {
			t.Fatalf("DefaultAttribute(%s): %v", tt.name, err)
		}
		if got.Name != tt.name || got.Current != tt.want || got.Max != tt.want {
			t.Errorf("DefaultAttribute(%s): Expected %d/%d, got %+v", tt.name, tt.want, tt.want, got)
		}
	}
}

func TestListAttributes(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	for _, a := range []game.Attribute{
		{Name: "speed", Current: 3, Max: 10},
		{Name: "might", Current: 2, Max: 10},
	} {
		if err := s.PutAttribute(ctx, "c1", a); err != nil {
			t.Fatalf("PutAttribute: %v", err)
		}
	}
	_ = s.PutAttribute(ctx, "c2", game.Attribute{Name: "health", Current: 1, Max: 1})

	attrs, err := s.ListAttributes(ctx, "c1")
	if err != nil {
		t.Fatalf("ListAttributes: %v", err)
	}
	if len(attrs) != 2 || attrs[0].Name != "might" || attrs[1].Name != "speed" {
		t.Errorf("Expected [might speed], got %+v", attrs)
	}
}

func TestPutAttributeRequiresName(t *testing.T) {
	s := openTempStore(t)
	err := s.PutAttribute(context.Background(), "c1", game.Attribute{Current: 1})
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Errorf("Expected name error, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	in := game.Token{
		ID:             "t1",
		Name:           "Goblin",
		Represents:     "goblin",
		Representation: game.LinkedCharacter,
		Health:         game.Bar{Value: 0, Max: 8},
		Dead:           true,
	}
	if err := s.PutToken(ctx, in); err != nil {
		t.Fatalf("PutToken: %v", err)
	}
	got, ok, err := s.GetToken(ctx, "t1")
	if err != nil || !ok {
		t.Fatalf("GetToken: ok=%v err=%v", ok, err)
	}
	if got != in {
		t.Errorf("Expected %+v, got %+v", in, got)
	}

	in.Dead = false
	in.Health.Value = 5
	_ = s.PutToken(ctx, in)
	got, _, _ = s.GetToken(ctx, "t1")
	if got.Dead || got.Health.Value != 5 {
		t.Errorf("Expected updated token, got %+v", got)
	}
}

func TestPutTokenAssignsID(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	if err := s.PutToken(ctx, game.Token{Name: "Rat"}); err != nil {
		t.Fatalf("PutToken: %v", err)
	}
	var id string
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT id FROM tokens WHERE name = 'Rat'`).Scan(&id); err != nil {
		t.Fatalf("query token id: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("Expected uuid id, got %q", id)
	}
}

func TestSeedAndResolve(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	world := &game.World{
		Defaults: map[string]game.Attribute{"speed": {Current: 10, Max: 10}},
		Characters: []game.CharacterSeed{
			{
				Character:  game.Character{ID: "c1", Name: "Ayla"},
				Attributes: []game.Attribute{{Name: "might", Current: 5, Max: 10}},
			},
			{
				Character: game.Character{ID: "ogre", Name: "Ogre"},
				Attributes: []game.Attribute{
					{Name: "health", Current: 30, Max: 30},
					{Name: "armor", Current: 2},
				},
			},
		},
		Tokens: []game.Token{
			{ID: "t-ogre", Name: "Ogre", Represents: "ogre", Representation: game.LinkedCharacter},
		},
	}
	if err := world.Seed(ctx, s); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	engine := game.NewEngine(s, s, nil, nil)
	cost, err := engine.Pools.ApplyCost(ctx, "c1", "might", 8)
	if err != nil {
		t.Fatalf("ApplyCost: %v", err)
	}
	if cost.Pools.Speed.Current != 7 {
		t.Errorf("Expected speed 7, got %d", cost.Pools.Speed.Current)
	}
	speed, ok, _ := s.GetAttribute(ctx, "c1", "speed")
	if !ok || speed.Current != 7 || speed.Max != 10 {
		t.Errorf("Expected stored speed 7/10, got %+v (ok=%v)", speed, ok)
	}

	dmg, err := engine.Damage.ApplyDamage(ctx, "t-ogre", 10, true)
	if err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}
	if dmg.After != 22 {
		t.Errorf("Expected ogre health 22, got %d", dmg.After)
	}
	health, _, _ := s.GetAttribute(ctx, "ogre", "health")
	if health.Current != 22 {
		t.Errorf("Expected stored health 22, got %d", health.Current)
	}
}
