package game

import (
	"context"
	"errors"
)

// fakeStore is an in-memory CharacterStore and TokenStore for resolver tests.
type fakeStore struct {
	characters map[string]Character
	attrs      map[string]map[string]Attribute
	defaults   map[string]Attribute
	tokens     map[string]Token

	failPut error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		characters: map[string]Character{},
		attrs:      map[string]map[string]Attribute{},
		defaults:   map[string]Attribute{},
		tokens:     map[string]Token{},
	}
}

func (f *fakeStore) addCharacter(id, name string, attrs ...Attribute) {
	f.characters[id] = Character{ID: id, Name: name}
	for _, a := range attrs {
		f.setAttr(id, a)
	}
}

func (f *fakeStore) setAttr(characterID string, a Attribute) {
	if f.attrs[characterID] == nil {
		f.attrs[characterID] = map[string]Attribute{}
	}
	f.attrs[characterID][a.Name] = a
}

func (f *fakeStore) attr(characterID, name string) (Attribute, bool) {
	a, ok := f.attrs[characterID][name]
	return a, ok
}

func (f *fakeStore) GetCharacter(_ context.Context, id string) (Character, bool, error) {
	c, ok := f.characters[id]
	return c, ok, nil
}

func (f *fakeStore) GetAttribute(_ context.Context, characterID, name string) (Attribute, bool, error) {
	a, ok := f.attr(characterID, name)
	return a, ok, nil
}

func (f *fakeStore) DefaultAttribute(_ context.Context, _ string, name string) (Attribute, error) {
	a := f.defaults[name]
	a.Name = name
	return a, nil
}

func (f *fakeStore) PutAttribute(_ context.Context, characterID string, a Attribute) error {
	if f.failPut != nil {
		return f.failPut
	}
	f.setAttr(characterID, a)
	return nil
}

func (f *fakeStore) GetToken(_ context.Context, id string) (Token, bool, error) {
	t, ok := f.tokens[id]
	return t, ok, nil
}

func (f *fakeStore) PutToken(_ context.Context, t Token) error {
	if f.failPut != nil {
		return f.failPut
	}
	f.tokens[t.ID] = t
	return nil
}

// recorder is a Notifier that keeps every message.
type recorder struct {
	msgs []Message
	err  error
}

func (r *recorder) Notify(_ context.Context, m Message) error {
	r.msgs = append(r.msgs, m)
	return r.err
}

var errStoreDown = errors.New("store down")
