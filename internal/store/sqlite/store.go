// Package sqlite keeps characters, attributes and tokens in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cypher/internal/game"
	"cypher/internal/store/sqlite/migrations"
)

// Store persists game records in SQLite. It satisfies game.CharacterStore,
// game.TokenStore and game.WorldWriter.
type Store struct {
	sqlDB *sql.DB
}

var (
	_ game.CharacterStore = (*Store)(nil)
	_ game.TokenStore     = (*Store)(nil)
	_ game.WorldWriter    = (*Store)(nil)
)

// Open opens a SQLite record store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time; SQLite serializes writes anyway
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func (s *Store) GetCharacter(ctx context.Context, id string) (game.Character, bool, error) {
	var ch game.Character
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, controlled_by FROM characters WHERE id = ?`, id,
	).Scan(&ch.ID, &ch.Name, &ch.ControlledBy)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Character{}, false, nil
	}
	if err != nil {
		return game.Character{}, false, fmt.Errorf("get character %s: %w", id, err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, current, max FROM character_defaults WHERE character_id = ? ORDER BY name`, id)
	if err != nil {
		return game.Character{}, false, fmt.Errorf("get character defaults %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var a game.Attribute
		if err := rows.Scan(&a.Name, &a.Current, &a.Max); err != nil {
			return game.Character{}, false, fmt.Errorf("scan character default: %w", err)
		}
		if ch.Defaults == nil {
			ch.Defaults = map[string]game.Attribute{}
		}
		ch.Defaults[a.Name] = a
	}
	if err := rows.Err(); err != nil {
		return game.Character{}, false, fmt.Errorf("iterate character defaults: %w", err)
	}
	return ch, true, nil
}

// PutCharacter inserts or replaces a character and its sheet defaults. An
// empty id is assigned a new one.
func (s *Store) PutCharacter(ctx context.Context, ch game.Character) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put character: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO characters (id, name, controlled_by) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, controlled_by = excluded.controlled_by`,
		ch.ID, ch.Name, ch.ControlledBy,
	); err != nil {
		return fmt.Errorf("put character %s: %w", ch.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM character_defaults WHERE character_id = ?`, ch.ID); err != nil {
		return fmt.Errorf("clear character defaults %s: %w", ch.ID, err)
	}
	for name, a := range ch.Defaults {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_defaults (character_id, name, current, max) VALUES (?, ?, ?, ?)`,
			ch.ID, name, a.Current, a.Max,
		); err != nil {
			return fmt.Errorf("put character default %s/%s: %w", ch.ID, name, err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetAttribute(ctx context.Context, characterID, name string) (game.Attribute, bool, error) {
	a := game.Attribute{Name: name}
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT current, max FROM attributes WHERE character_id = ? AND name = ?`, characterID, name,
	).Scan(&a.Current, &a.Max)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Attribute{}, false, nil
	}
	if err != nil {
		return game.Attribute{}, false, fmt.Errorf("get attribute %s/%s: %w", characterID, name, err)
	}
	return a, true, nil
}

func (s *Store) PutAttribute(ctx context.Context, characterID string, attr game.Attribute) error {
	if attr.Name == "" {
		return fmt.Errorf("attribute name is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO attributes (character_id, name, current, max, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(character_id, name) DO UPDATE SET
		   current = excluded.current, max = excluded.max, updated_at = excluded.updated_at`,
		characterID, attr.Name, attr.Current, attr.Max, now(),
	)
	if err != nil {
		return fmt.Errorf("put attribute %s/%s: %w", characterID, attr.Name, err)
	}
	return nil
}

// ListAttributes returns every attribute record of a character, sorted by
// name.
func (s *Store) ListAttributes(ctx context.Context, characterID string) ([]game.Attribute, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, current, max FROM attributes WHERE character_id = ? ORDER BY name`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list attributes %s: %w", characterID, err)
	}
	defer rows.Close()
	var attrs []game.Attribute
	for rows.Next() {
		var a game.Attribute
		if err := rows.Scan(&a.Name, &a.Current, &a.Max); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

// DefaultAttribute looks at the character's own sheet defaults first, then
// at the store-wide defaults.
func (s *Store) DefaultAttribute(ctx context.Context, characterID, name string) (game.Attribute, error) {
	a := game.Attribute{Name: name}
	var prio int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT current, max, 0 AS prio FROM character_defaults WHERE character_id = ? AND name = ?
		 UNION ALL
		 SELECT current, max, 1 AS prio FROM sheet_defaults WHERE name = ?
		 ORDER BY prio LIMIT 1`,
		characterID, name, name,
	).Scan(&a.Current, &a.Max, &prio)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Attribute{Name: name}, nil
	}
	if err != nil {
		return game.Attribute{}, fmt.Errorf("default attribute %s/%s: %w", characterID, name, err)
	}
	return a, nil
}

// SetDefaults replaces the store-wide sheet defaults.
func (s *Store) SetDefaults(ctx context.Context, defaults map[string]game.Attribute) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set defaults: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_defaults`); err != nil {
		return fmt.Errorf("clear sheet defaults: %w", err)
	}
	for name, a := range defaults {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_defaults (name, current, max) VALUES (?, ?, ?)`, name, a.Current, a.Max,
		); err != nil {
			return fmt.Errorf("put sheet default %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetToken(ctx context.Context, id string) (game.Token, bool, error) {
	var (
		tok  game.Token
		repr string
		dead int
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, represents, representation, health_value, health_max, dead
		 FROM tokens WHERE id = ?`, id,
	).Scan(&tok.ID, &tok.Name, &tok.Represents, &repr, &tok.Health.Value, &tok.Health.Max, &dead)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Token{}, false, nil
	}
	if err != nil {
		return game.Token{}, false, fmt.Errorf("get token %s: %w", id, err)
	}
	if err := tok.Representation.UnmarshalText([]byte(repr)); err != nil {
		return game.Token{}, false, fmt.Errorf("token %s: %w", id, err)
	}
	tok.Dead = dead != 0
	return tok, true, nil
}

// PutToken inserts or replaces a token. An empty id is assigned a new one.
func (s *Store) PutToken(ctx context.Context, tok game.Token) error {
	if tok.ID == "" {
		tok.ID = uuid.NewString()
	}
	dead := 0
	if tok.Dead {
		dead = 1
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO tokens (id, name, represents, representation, health_value, health_max, dead, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   represents = excluded.represents,
		   representation = excluded.representation,
		   health_value = excluded.health_value,
		   health_max = excluded.health_max,
		   dead = excluded.dead,
		   updated_at = excluded.updated_at`,
		tok.ID, tok.Name, tok.Represents, tok.Representation.String(),
		tok.Health.Value, tok.Health.Max, dead, now(),
	)
	if err != nil {
		return fmt.Errorf("put token %s: %w", tok.ID, err)
	}
	return nil
}
