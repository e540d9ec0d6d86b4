package game

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CostKind classifies how a cost was settled.
type CostKind int

const (
	// CostUnrecognizedAttribute means the target was not a pool or the
	// recovery slot. Nothing was changed and no error is returned.
	CostUnrecognizedAttribute CostKind = iota + 1
	// CostRecoverySet means the recovery-rolls scalar was overwritten.
	CostRecoverySet
	// CostSpent means the named pool alone paid the cost.
	CostSpent
	// CostCascaded means one or two pools were emptied and the rest of
	// the cost came out of the next pool in the order.
	CostCascaded
	// CostIncapacitated means all three pools ended at zero.
	CostIncapacitated
)

func (k CostKind) String() string {
	switch k {
	case CostUnrecognizedAttribute:
		return "unrecognized_attribute"
	case CostRecoverySet:
		return "recovery_set"
	case CostSpent:
		return "spent"
	case CostCascaded:
		return "cascaded"
	case CostIncapacitated:
		return "incapacitated"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k CostKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PoolStep records what one pool paid during a cascade.
type PoolStep struct {
	Pool   Pool `json:"pool"`
	Before int  `json:"before"`
	Spent  int  `json:"spent"`
	After  int  `json:"after"`
}

// Depleted reports whether the step emptied the pool.
func (s PoolStep) Depleted() bool {
	return s.After == 0 && s.Spent >= s.Before
}

// CostOutcome is the result of ApplyCost.
type CostOutcome struct {
	Kind        CostKind         `json:"kind"`
	CharacterID string           `json:"character_id"`
	Target      string           `json:"target"`
	Cost        int              `json:"cost"`
	Steps       []PoolStep       `json:"steps,omitempty"`
	Remainder   int              `json:"remainder"`
	Pools       CharacterPoolSet `json:"pools"`
	Recovery    int              `json:"recovery"`
	Messages    []Message        `json:"messages"`
}

// Cascade drains cost from the pools in the order given by target. A pool
// pays as much as its current value allows and the rest carries to the
// next pool; a cost equal to the current value empties the pool and stops.
// A negative cost restores the target pool only, raising its max if the
// new current value exceeds it. The returned remainder is what all three
// pools together could not pay.
func Cascade(pools CharacterPoolSet, target Pool, cost int) (CharacterPoolSet, []PoolStep, int) {
	remaining := cost
	steps := make([]PoolStep, 0, 3)
	for _, p := range CascadeOrder(target) {
		a := pools.Get(p)
		before := a.Current
		if remaining <= a.Current {
			a.Current -= remaining
			*a = normalize(*a)
			steps = append(steps, PoolStep{Pool: p, Before: before, Spent: remaining, After: a.Current})
			remaining = 0
			break
		}
		remaining -= a.Current
		a.Current = 0
		steps = append(steps, PoolStep{Pool: p, Before: before, Spent: before, After: 0})
	}
	return pools, steps, remaining
}

// PoolCascadeResolver spends ability costs against a character's pools.
type PoolCascadeResolver struct {
	Characters CharacterStore
	Notifier   Notifier
	Logger     *zap.Logger
}

// ApplyCost spends cost against the pool named by target, or overwrites
// the recovery-rolls scalar when target is that slot.
func (r *PoolCascadeResolver) ApplyCost(ctx context.Context, characterID, target string, cost int) (CostOutcome, error) {
	log := orNop(r.Logger).With(zap.String("character_id", characterID), zap.String("target", target))

	ch, ok, err := r.Characters.GetCharacter(ctx, characterID)
	if err != nil {
		return CostOutcome{}, fmt.Errorf("get character %s: %w", characterID, err)
	}
	if !ok {
		return CostOutcome{}, WithMetadata(CodeCharacterNotFound, "not a character: "+characterID,
			map[string]string{"character_id": characterID})
	}

	out := CostOutcome{CharacterID: ch.ID, Target: target, Cost: cost}
	from := SpeakAs(ch.ID)

	pool, isPool := ParsePool(target)
	if !isPool && target != AttrRecoveryRolls {
		out.Kind = CostUnrecognizedAttribute
		r.notify(ctx, log, &out.Messages, Message{From: from, Text: "No such attribute: " + target + "."})
		log.Info("cost ignored, unrecognized attribute")
		return out, nil
	}
	if cost == 0 {
		return CostOutcome{}, WithMetadata(CodeInvalidAmount, "cost must not be zero",
			map[string]string{"character_id": characterID, "target": target})
	}

	if !isPool {
		attr, err := r.attribute(ctx, ch.ID, AttrRecoveryRolls)
		if err != nil {
			return CostOutcome{}, err
		}
		attr.Current = cost
		if err := r.Characters.PutAttribute(ctx, ch.ID, attr); err != nil {
			return CostOutcome{}, fmt.Errorf("put %s: %w", AttrRecoveryRolls, err)
		}
		out.Kind = CostRecoverySet
		out.Recovery = cost
		r.notify(ctx, log, &out.Messages, Message{From: from, Text: fmt.Sprintf("Next recovery period updated: %d.", cost)})
		log.Info("recovery roll set", zap.Int("value", cost))
		return out, nil
	}

	var pools CharacterPoolSet
	for _, p := range Pools {
		attr, err := r.attribute(ctx, ch.ID, p.String())
		if err != nil {
			return CostOutcome{}, err
		}
		*pools.Get(p) = attr
	}

	pools, steps, remainder := Cascade(pools, pool, cost)
	for _, p := range Pools {
		if err := r.Characters.PutAttribute(ctx, ch.ID, *pools.Get(p)); err != nil {
			return CostOutcome{}, fmt.Errorf("put %s: %w", p, err)
		}
	}

	out.Steps = steps
	out.Remainder = remainder
	out.Pools = pools
	switch {
	case pools.Total() <= 0:
		out.Kind = CostIncapacitated
	case len(steps) > 1:
		out.Kind = CostCascaded
	default:
		out.Kind = CostSpent
	}

	r.notify(ctx, log, &out.Messages, Message{From: from, Text: CostReport(steps, remainder, pools)})
	if out.Kind == CostIncapacitated {
		r.notify(ctx, log, &out.Messages, Message{From: from, Text: IncapacitatedReport(ch.Name)})
	}
	log.Info("cost applied",
		zap.Int("cost", cost),
		zap.Stringer("kind", out.Kind),
		zap.Int("might", pools.Might.Current),
		zap.Int("speed", pools.Speed.Current),
		zap.Int("intellect", pools.Intellect.Current),
	)
	return out, nil
}

// Snapshot reads a character's pools and recovery-rolls value without
// changing anything. Missing records come from the sheet defaults.
func (r *PoolCascadeResolver) Snapshot(ctx context.Context, characterID string) (CharacterPoolSet, Attribute, error) {
	var pools CharacterPoolSet
	for _, p := range Pools {
		attr, err := r.attribute(ctx, characterID, p.String())
		if err != nil {
			return CharacterPoolSet{}, Attribute{}, err
		}
		*pools.Get(p) = attr
	}
	recovery, err := r.attribute(ctx, characterID, AttrRecoveryRolls)
	if err != nil {
		return CharacterPoolSet{}, Attribute{}, err
	}
	return pools, recovery, nil
}

// attribute loads an attribute, seeding it from the sheet default when
// the character has no record yet.
func (r *PoolCascadeResolver) attribute(ctx context.Context, characterID, name string) (Attribute, error) {
	return loadAttribute(ctx, r.Characters, characterID, name)
}

func (r *PoolCascadeResolver) notify(ctx context.Context, log *zap.Logger, sent *[]Message, msg Message) {
	*sent = append(*sent, msg)
	deliver(ctx, r.Notifier, log, msg)
}

// CostReport describes the result of a cascade, e.g.
// "might down to 0, speed: 10-3=7. Pools: might 0/10, speed 7/10, intellect 8/8."
func CostReport(steps []PoolStep, remainder int, pools CharacterPoolSet) string {
	var b strings.Builder
	if len(steps) > 0 {
		var emptied []string
		last := steps[len(steps)-1]
		for _, s := range steps[:len(steps)-1] {
			emptied = append(emptied, s.Pool.String())
		}
		if remainder > 0 {
			emptied = append(emptied, last.Pool.String())
			b.WriteString(joinNames(emptied) + " down to 0")
		} else {
			if len(emptied) > 0 {
				b.WriteString(joinNames(emptied) + " down to 0, ")
			}
			op := "-"
			amount := last.Spent
			if amount < 0 {
				op = "+"
				amount = -amount
			}
			fmt.Fprintf(&b, "%s: %d%s%d=%d", last.Pool, last.Before, op, amount, last.After)
		}
		b.WriteString(". ")
	}
	fmt.Fprintf(&b, "Pools: might %d/%d, speed %d/%d, intellect %d/%d.",
		pools.Might.Current, pools.Might.Max,
		pools.Speed.Current, pools.Speed.Max,
		pools.Intellect.Current, pools.Intellect.Max)
	return b.String()
}

// IncapacitatedReport is sent when every pool is empty.
func IncapacitatedReport(name string) string {
	if name == "" {
		name = "The character"
	}
	return name + " is incapacitated: might, speed and intellect are all at 0."
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
