package game

// Pool is one of the three stat pools spent to pay ability costs.
type Pool int

const (
	Might Pool = iota
	Speed
	Intellect
)

// Attribute names understood by the cascade resolver.
const (
	AttrMight         = "might"
	AttrSpeed         = "speed"
	AttrIntellect     = "intellect"
	AttrRecoveryRolls = "recovery-rolls"
	AttrHealth        = "health"
	AttrArmor         = "armor"
)

// Pools lists the pools in sheet order.
var Pools = [3]Pool{Might, Speed, Intellect}

func (p Pool) String() string {
	switch p {
	case Might:
		return AttrMight
	case Speed:
		return AttrSpeed
	case Intellect:
		return AttrIntellect
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Pool) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePool maps an attribute name to a pool.
func ParsePool(name string) (Pool, bool) {
	switch name {
	case AttrMight:
		return Might, true
	case AttrSpeed:
		return Speed, true
	case AttrIntellect:
		return Intellect, true
	default:
		return 0, false
	}
}

// CascadeOrder is the order pools are drained when p is the named target.
func CascadeOrder(p Pool) [3]Pool {
	switch p {
	case Speed:
		return [3]Pool{Speed, Might, Intellect}
	case Intellect:
		return [3]Pool{Intellect, Might, Speed}
	default:
		return [3]Pool{Might, Speed, Intellect}
	}
}

// CharacterPoolSet holds the three pools of one character.
type CharacterPoolSet struct {
	Might     Attribute `json:"might"`
	Speed     Attribute `json:"speed"`
	Intellect Attribute `json:"intellect"`
}

// Get returns the attribute backing p.
func (s *CharacterPoolSet) Get(p Pool) *Attribute {
	switch p {
	case Speed:
		return &s.Speed
	case Intellect:
		return &s.Intellect
	default:
		return &s.Might
	}
}

// Total is the sum of the current values.
func (s CharacterPoolSet) Total() int {
	return s.Might.Current + s.Speed.Current + s.Intellect.Current
}

// normalize clamps current at zero and raises max to the current value.
func normalize(a Attribute) Attribute {
	if a.Current < 0 {
		a.Current = 0
	}
	if a.Max < a.Current {
		a.Max = a.Current
	}
	return a
}
