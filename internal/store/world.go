package store

import (
	"context"
	"strings"
	"sync"

	"cypher/internal/game"
)

// World is an in-memory record store for characters, their attributes and
// tokens. It satisfies game.CharacterStore, game.TokenStore and
// game.WorldWriter.
type World struct {
	Characters *MemoryStore[game.Character]
	Attributes *MemoryStore[game.Attribute]
	Tokens     *MemoryStore[game.Token]

	mu       sync.RWMutex
	defaults map[string]game.Attribute
}

var (
	_ game.CharacterStore = (*World)(nil)
	_ game.TokenStore     = (*World)(nil)
	_ game.WorldWriter    = (*World)(nil)

	_ Store[game.Token] = (*MemoryStore[game.Token])(nil)
)

func NewWorld() *World {
	return &World{
		Characters: NewMemoryStore[game.Character](),
		Attributes: NewMemoryStore[game.Attribute](),
		Tokens:     NewMemoryStore[game.Token](),
		defaults:   map[string]game.Attribute{},
	}
}

func attributeKey(characterID, name string) string {
	return characterID + "/" + name
}

func (w *World) GetCharacter(ctx context.Context, id string) (game.Character, bool, error) {
	return w.Characters.Get(ctx, id)
}

func (w *World) PutCharacter(ctx context.Context, ch game.Character) error {
	if ch.ID == "" {
		ch.ID = w.Characters.NewID()
	}
	return w.Characters.Put(ctx, ch.ID, ch)
}

func (w *World) GetAttribute(ctx context.Context, characterID, name string) (game.Attribute, bool, error) {
	return w.Attributes.Get(ctx, attributeKey(characterID, name))
}

func (w *World) PutAttribute(ctx context.Context, characterID string, attr game.Attribute) error {
	return w.Attributes.Put(ctx, attributeKey(characterID, attr.Name), attr)
}

// DefaultAttribute looks at the character's own sheet defaults first, then
// at the store-wide defaults.
func (w *World) DefaultAttribute(ctx context.Context, characterID, name string) (game.Attribute, error) {
	ch, ok, err := w.Characters.Get(ctx, characterID)
	if err != nil {
		return game.Attribute{}, err
	}
	if ok {
		if a, ok := ch.Defaults[name]; ok {
			a.Name = name
			return a, nil
		}
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if a, ok := w.defaults[name]; ok {
		a.Name = name
		return a, nil
	}
	return game.Attribute{Name: name}, nil
}

// SetDefaults replaces the store-wide sheet defaults.
func (w *World) SetDefaults(_ context.Context, defaults map[string]game.Attribute) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.defaults = make(map[string]game.Attribute, len(defaults))
	for k, v := range defaults {
		w.defaults[k] = v
	}
	return nil
}

// ListAttributes returns every attribute record of a character, sorted by
// name.
func (w *World) ListAttributes(ctx context.Context, characterID string) ([]game.Attribute, error) {
	prefix := characterID + "/"
	var attrs []game.Attribute
	for _, k := range w.Attributes.Keys() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		a, ok, err := w.Attributes.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			attrs = append(attrs, a)
		}
	}
	return attrs, nil
}

func (w *World) GetToken(ctx context.Context, id string) (game.Token, bool, error) {
	return w.Tokens.Get(ctx, id)
}

func (w *World) PutToken(ctx context.Context, tok game.Token) error {
	if tok.ID == "" {
		tok.ID = w.Tokens.NewID()
	}
	return w.Tokens.Put(ctx, tok.ID, tok)
}
