// Package command turns chat lines into resolver calls.
package command

import (
	"errors"
	"strings"
)

// Prefix starts every chat command handled here.
const Prefix = "!cypher-"

// Kind is the closed set of commands.
type Kind int

const (
	PoolCascadeCost Kind = iota + 1
	NPCDamage
)

func (k Kind) String() string {
	switch k {
	case PoolCascadeCost:
		return "pool-cascade-cost"
	case NPCDamage:
		return "npc-damage"
	default:
		return "unknown"
	}
}

// ChatName is the short chat command, e.g. "!cypher-modstat".
func (k Kind) ChatName() string {
	switch k {
	case PoolCascadeCost:
		return Prefix + "modstat"
	case NPCDamage:
		return Prefix + "npcdmg"
	default:
		return ""
	}
}

// Params names the arguments the command expects, in order.
func (k Kind) Params() []string {
	switch k {
	case PoolCascadeCost:
		return []string{"character_id", "stat", "cost"}
	case NPCDamage:
		return []string{"token_id", "damage", "apply_armor"}
	default:
		return nil
	}
}

var kinds = []Kind{PoolCascadeCost, NPCDamage}

// Lookup finds a kind by chat name or by its long name, with or without
// the prefix.
func Lookup(name string) (Kind, bool) {
	name = strings.TrimPrefix(strings.ToLower(name), Prefix)
	for _, k := range kinds {
		if name == k.String() || Prefix+name == k.ChatName() {
			return k, true
		}
	}
	return 0, false
}

var (
	// ErrNotACommand is returned for chat lines not addressed to us.
	ErrNotACommand = errors.New("not a cypher command")
	// ErrUnknownCommand is returned for a prefixed line naming no command.
	ErrUnknownCommand = errors.New("unknown cypher command")
)

// Command is a parsed chat command. Args are not yet validated.
type Command struct {
	Kind Kind
	Args []string
}

// Parse reads "!cypher-<name> a|b|c". Arguments are separated by "|" and
// trimmed.
func Parse(content string) (Command, error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, Prefix) {
		return Command{}, ErrNotACommand
	}
	name, rest, ok := strings.Cut(content, " ")
	if !ok || strings.TrimSpace(rest) == "" {
		// every command takes at least one argument
		return Command{}, ErrNotACommand
	}
	kind, ok := Lookup(name)
	if !ok {
		return Command{}, ErrUnknownCommand
	}
	parts := strings.Split(strings.TrimSpace(rest), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return Command{Kind: kind, Args: parts}, nil
}

// ParseToggle reads a yes/no argument. Only explicit negatives turn the
// option off.
func ParseToggle(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "no", "false", "0", "off":
		return false
	default:
		return true
	}
}
