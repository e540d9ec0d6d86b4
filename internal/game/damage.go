package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DamageOutcome describes one application of damage or healing.
type DamageOutcome struct {
	TokenID        string         `json:"token_id"`
	Name           string         `json:"name"`
	Representation Representation `json:"representation"`
	Amount         int            `json:"amount"` // signed, as requested
	Armor          int            `json:"armor"`  // armor subtracted; 0 when mitigation is off or healing
	Effective      int            `json:"effective"`
	Before         int            `json:"before"`
	After          int            `json:"after"`
	Max            int            `json:"max"`
	Dead           bool           `json:"dead"`
	Messages       []Message      `json:"messages"`
}

// Mitigate returns the amount that actually reaches health. Only positive
// damage is reduced by armor, and never below zero. Healing passes through.
func Mitigate(amount, armor int, mitigate bool) int {
	if amount <= 0 || !mitigate {
		return amount
	}
	return max(amount-armor, 0)
}

// ApplyHealth applies an effective delta to a health state. Max is first
// raised to the current value, then the result is clamped to [0, max].
func ApplyHealth(state CreatureHealthState, effective int) CreatureHealthState {
	state.Max = max(state.Current, state.Max)
	state.Current = min(max(state.Current-effective, 0), state.Max)
	return state
}

// DamageResolver applies damage and healing to creatures on the table.
type DamageResolver struct {
	Characters CharacterStore
	Tokens     TokenStore
	Notifier   Notifier
	Logger     *zap.Logger
}

// ApplyDamage applies amount to the creature behind tokenID. Positive
// amounts are damage, negative amounts heal. When mitigate is set, armor
// of the represented character reduces damage.
func (r *DamageResolver) ApplyDamage(ctx context.Context, tokenID string, amount int, mitigate bool) (DamageOutcome, error) {
	log := orNop(r.Logger).With(zap.String("token_id", tokenID))

	tok, ok, err := r.Tokens.GetToken(ctx, tokenID)
	if err != nil {
		return DamageOutcome{}, fmt.Errorf("get token %s: %w", tokenID, err)
	}
	if !ok {
		return DamageOutcome{}, WithMetadata(CodeTokenNotFound, "no token "+tokenID,
			map[string]string{"token_id": tokenID})
	}
	if tok.Represents == "" {
		return DamageOutcome{}, WithMetadata(CodeTokenNotLinked, "token "+tokenID+" does not represent a character",
			map[string]string{"token_id": tokenID})
	}
	ch, ok, err := r.Characters.GetCharacter(ctx, tok.Represents)
	if err != nil {
		return DamageOutcome{}, fmt.Errorf("get character %s: %w", tok.Represents, err)
	}
	if !ok {
		return DamageOutcome{}, WithMetadata(CodeTokenNotLinked, "token "+tokenID+" represents a missing character",
			map[string]string{"token_id": tokenID, "character_id": tok.Represents})
	}
	if amount == 0 {
		return DamageOutcome{}, WithMetadata(CodeInvalidAmount, "damage must not be zero",
			map[string]string{"token_id": tokenID})
	}

	name := ch.Name
	if name == "" {
		name = tok.Name
	}
	out := DamageOutcome{TokenID: tok.ID, Name: name, Representation: tok.Representation, Amount: amount}

	state := CreatureHealthState{Representation: tok.Representation}
	if mitigate {
		armor, err := loadAttribute(ctx, r.Characters, ch.ID, AttrArmor)
		if err != nil {
			return DamageOutcome{}, err
		}
		state.Armor = armor.Current
	}

	var health Attribute
	switch src := tok.HealthSource().(type) {
	case MookHealth:
		state.Current = src.Token.Health.Value
		state.Max = src.Token.Health.Max
	case LinkedHealth:
		attr, ok, err := r.Characters.GetAttribute(ctx, src.CharacterID, AttrHealth)
		if err != nil {
			return DamageOutcome{}, fmt.Errorf("get %s: %w", AttrHealth, err)
		}
		if !ok {
			r.notify(ctx, log, &out.Messages, Message{From: SpeakerGM, To: ToGM,
				Text: fmt.Sprintf("Damage error: %s has no health attribute!", name)})
			return out, WithMetadata(CodeMissingHealthAttribute, name+" has no health attribute",
				map[string]string{"token_id": tokenID, "character_id": src.CharacterID})
		}
		health = attr
		state.Current = attr.Current
		state.Max = attr.Max
	}

	out.Before = state.Current
	out.Effective = Mitigate(amount, state.Armor, mitigate)
	if amount > 0 && mitigate {
		out.Armor = state.Armor
	}
	next := ApplyHealth(state, out.Effective)
	out.After = next.Current
	out.Max = next.Max
	out.Dead = next.Dead()

	switch src := tok.HealthSource().(type) {
	case MookHealth:
		tok.Health = Bar{Value: next.Current, Max: next.Max}
	case LinkedHealth:
		health.Name = AttrHealth
		health.Current = next.Current
		health.Max = next.Max
		if err := r.Characters.PutAttribute(ctx, src.CharacterID, health); err != nil {
			return DamageOutcome{}, fmt.Errorf("put %s: %w", AttrHealth, err)
		}
	}
	tok.Dead = out.Dead
	if err := r.Tokens.PutToken(ctx, tok); err != nil {
		return DamageOutcome{}, fmt.Errorf("put token %s: %w", tok.ID, err)
	}

	r.notify(ctx, log, &out.Messages, Message{From: SpeakerGM, To: ToGM, Text: DamageReport(out)})
	log.Info("damage applied",
		zap.Int("amount", amount),
		zap.Int("armor", out.Armor),
		zap.Int("effective", out.Effective),
		zap.Int("before", out.Before),
		zap.Int("after", out.After),
		zap.Bool("dead", out.Dead),
		zap.Stringer("representation", tok.Representation),
	)
	return out, nil
}

func (r *DamageResolver) notify(ctx context.Context, log *zap.Logger, sent *[]Message, msg Message) {
	*sent = append(*sent, msg)
	deliver(ctx, r.Notifier, log, msg)
}

// DamageReport is the GM line describing a damage outcome.
func DamageReport(o DamageOutcome) string {
	if o.Amount > 0 {
		return fmt.Sprintf("%s takes %d damage (%d - %d Armor). Health: %d->%d.",
			o.Name, o.Effective, o.Amount, o.Armor, o.Before, o.After)
	}
	return fmt.Sprintf("%s is healed for %d points. Health: %d->%d.",
		o.Name, -o.Effective, o.Before, o.After)
}
