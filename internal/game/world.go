package game

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// World is a seed of characters and tokens loaded into a record store at
// startup.
type World struct {
	// Defaults are sheet defaults shared by every character; a character's
	// own Defaults take precedence.
	Defaults   map[string]Attribute `yaml:"defaults"`
	Characters []CharacterSeed      `yaml:"characters"`
	Tokens     []Token              `yaml:"tokens"`
}

// CharacterSeed is a character together with its existing attribute
// records.
type CharacterSeed struct {
	Character  `yaml:",inline"`
	Attributes []Attribute `yaml:"attributes"`
}

// WorldWriter is the write side of a record store used for seeding.
type WorldWriter interface {
	PutCharacter(ctx context.Context, ch Character) error
	PutAttribute(ctx context.Context, characterID string, attr Attribute) error
	PutToken(ctx context.Context, tok Token) error
	SetDefaults(ctx context.Context, defaults map[string]Attribute) error
}

// LoadWorld loads a world seed from a YAML file.
func LoadWorld(path string) (*World, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, err
	}
	var w World
	if err := yaml.Unmarshal(b, &w); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Validate checks the seed for duplicate ids, dangling references and
// impossible values.
func (w *World) Validate() error {
	var errs []string

	chars := make(map[string]bool, len(w.Characters))
	for i, c := range w.Characters {
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("characters[%d].id is required", i))
			continue
		}
		if chars[c.ID] {
			errs = append(errs, fmt.Sprintf("characters[%d].id %q is duplicated", i, c.ID))
		}
		chars[c.ID] = true
		for j, a := range c.Attributes {
			if a.Name == "" {
				errs = append(errs, fmt.Sprintf("characters[%d].attributes[%d].name is required", i, j))
			}
			if a.Current < 0 || a.Max < 0 {
				errs = append(errs, fmt.Sprintf("characters[%d].attributes[%d] must be >= 0", i, j))
			}
		}
	}

	toks := make(map[string]bool, len(w.Tokens))
	for i, t := range w.Tokens {
		if t.ID == "" {
			errs = append(errs, fmt.Sprintf("tokens[%d].id is required", i))
			continue
		}
		if toks[t.ID] {
			errs = append(errs, fmt.Sprintf("tokens[%d].id %q is duplicated", i, t.ID))
		}
		toks[t.ID] = true
		if t.Represents != "" && !chars[t.Represents] {
			errs = append(errs, fmt.Sprintf("tokens[%d].represents %q is not a character", i, t.Represents))
		}
		if t.Representation == LinkedCharacter && t.Represents == "" {
			errs = append(errs, fmt.Sprintf("tokens[%d] is linked but represents no character", i))
		}
		if t.Health.Value < 0 || t.Health.Max < 0 {
			errs = append(errs, fmt.Sprintf("tokens[%d].health must be >= 0", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("world validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Seed writes every record of the world into dst.
func (w *World) Seed(ctx context.Context, dst WorldWriter) error {
	if len(w.Defaults) > 0 {
		defaults := make(map[string]Attribute, len(w.Defaults))
		for name, a := range w.Defaults {
			a.Name = name
			defaults[name] = a
		}
		if err := dst.SetDefaults(ctx, defaults); err != nil {
			return fmt.Errorf("seed defaults: %w", err)
		}
	}
	for _, c := range w.Characters {
		if err := dst.PutCharacter(ctx, c.Character); err != nil {
			return fmt.Errorf("seed character %s: %w", c.ID, err)
		}
		for _, a := range c.Attributes {
			if err := dst.PutAttribute(ctx, c.ID, a); err != nil {
				return fmt.Errorf("seed attribute %s/%s: %w", c.ID, a.Name, err)
			}
		}
	}
	for _, t := range w.Tokens {
		if err := dst.PutToken(ctx, t); err != nil {
			return fmt.Errorf("seed token %s: %w", t.ID, err)
		}
	}
	return nil
}
