package game

import "context"

// CharacterStore resolves characters and their attribute records.
type CharacterStore interface {
	GetCharacter(ctx context.Context, id string) (Character, bool, error)
	GetAttribute(ctx context.Context, characterID, name string) (Attribute, bool, error)
	// DefaultAttribute returns the sheet default for an attribute that has
	// no record yet. Unknown attributes default to zero.
	DefaultAttribute(ctx context.Context, characterID, name string) (Attribute, error)
	PutAttribute(ctx context.Context, characterID string, attr Attribute) error
}

// TokenStore resolves tokens on the table.
type TokenStore interface {
	GetToken(ctx context.Context, id string) (Token, bool, error)
	PutToken(ctx context.Context, tok Token) error
}

// Notifier delivers chat lines.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
