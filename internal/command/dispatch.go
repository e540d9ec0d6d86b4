package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cypher/internal/game"
)

// ChatMessage is one line delivered by the chat host.
type ChatMessage struct {
	Type    string `json:"type"` // only "api" messages are commands
	Who     string `json:"who"`
	Content string `json:"content"`
}

// ErrInvalidParameters is returned when the argument count is wrong.
var ErrInvalidParameters = errors.New("invalid parameters")

// Result is what a handled command produced. Exactly one of Cost and
// Damage is set when the resolver ran.
type Result struct {
	Command Command
	Cost    *game.CostOutcome
	Damage  *game.DamageOutcome
}

// Dispatcher routes chat commands to the resolvers and reports failures
// back to the table.
type Dispatcher struct {
	Engine   *game.Engine
	Notifier game.Notifier
	Logger   *zap.Logger
}

// Handle parses and runs one chat message. Lines that are not commands
// return ErrNotACommand and produce no output. Every other failure is
// also reported through the notifier.
func (d *Dispatcher) Handle(ctx context.Context, msg ChatMessage) (Result, error) {
	if msg.Type != "api" {
		return Result{}, ErrNotACommand
	}
	cmd, err := Parse(msg.Content)
	if err != nil {
		if errors.Is(err, ErrUnknownCommand) {
			d.logger().Debug("unknown command", zap.String("content", msg.Content))
		}
		return Result{}, err
	}
	d.logger().Debug("command received",
		zap.Stringer("command", cmd.Kind),
		zap.Strings("args", cmd.Args),
		zap.String("who", msg.Who),
	)
	return d.Execute(ctx, cmd)
}

// Execute runs an already parsed command.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) (Result, error) {
	res := Result{Command: cmd}
	if want := cmd.Kind.Params(); len(cmd.Args) != len(want) {
		d.report(ctx, cmd.Kind, fmt.Sprintf("Invalid parameters. Expected: %s. Received: %s.",
			strings.Join(want, "|"), strings.Join(cmd.Args, "|")))
		return res, fmt.Errorf("%s: %w: want %d, got %d", cmd.Kind, ErrInvalidParameters, len(want), len(cmd.Args))
	}

	switch cmd.Kind {
	case PoolCascadeCost:
		out, err := d.poolCascadeCost(ctx, cmd.Args[0], cmd.Args[1], cmd.Args[2])
		if err != nil {
			return res, d.fail(ctx, cmd.Kind, err)
		}
		res.Cost = &out
	case NPCDamage:
		out, err := d.npcDamage(ctx, cmd.Args[0], cmd.Args[1], cmd.Args[2])
		if err != nil {
			return res, d.fail(ctx, cmd.Kind, err)
		}
		res.Damage = &out
	default:
		return res, ErrUnknownCommand
	}
	return res, nil
}

func (d *Dispatcher) poolCascadeCost(ctx context.Context, characterID, stat, cost string) (game.CostOutcome, error) {
	stat = strings.ToLower(stat)
	amount, err := game.ParseAmount(cost)
	if err != nil {
		if _, isPool := game.ParsePool(stat); !isPool && stat != game.AttrRecoveryRolls {
			// an unknown stat is reported by the resolver whatever the cost
			amount = 0
		} else {
			return game.CostOutcome{}, err
		}
	}
	return d.Engine.Pools.ApplyCost(ctx, characterID, stat, amount)
}

func (d *Dispatcher) npcDamage(ctx context.Context, tokenID, damage, applyArmor string) (game.DamageOutcome, error) {
	amount, err := game.ParseAmount(damage)
	if err != nil {
		return game.DamageOutcome{}, err
	}
	return d.Engine.Damage.ApplyDamage(ctx, tokenID, amount, ParseToggle(applyArmor))
}

// fail reports err to the table and returns it wrapped with the command.
func (d *Dispatcher) fail(ctx context.Context, kind Kind, err error) error {
	var de *game.Error
	if errors.As(err, &de) {
		d.logger().Info("command rejected",
			zap.Stringer("command", kind),
			zap.String("code", string(de.Code)),
			zap.Any("metadata", de.Metadata),
		)
		d.report(ctx, kind, de.Message)
	} else {
		d.logger().Error("command failed", zap.Stringer("command", kind), zap.Error(err))
		d.report(ctx, kind, "internal error, see server log")
	}
	return fmt.Errorf("%s: %w", kind, err)
}

func (d *Dispatcher) report(ctx context.Context, kind Kind, text string) {
	if d.Notifier == nil {
		return
	}
	msg := game.Message{From: game.SpeakerSystem, Text: fmt.Sprintf("Error in %s: %s", kind.ChatName(), text)}
	if err := d.Notifier.Notify(ctx, msg); err != nil {
		d.logger().Warn("notify failed", zap.Error(err))
	}
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
