package game

import "fmt"

// Attribute is a flat named record on a character, as kept by the host's
// record store.
type Attribute struct {
	Name    string `yaml:"name" json:"name"`
	Current int    `yaml:"current" json:"current"`
	Max     int    `yaml:"max" json:"max"`
}

// Character is a full character record. Defaults holds the sheet template
// values used when an attribute is first created.
type Character struct {
	ID           string               `yaml:"id" json:"id"`
	Name         string               `yaml:"name" json:"name"`
	ControlledBy string               `yaml:"controlledBy" json:"controlled_by"`
	Defaults     map[string]Attribute `yaml:"defaults" json:"defaults"`
}

// Representation tells where a token keeps its health.
type Representation int

const (
	// Mook tokens keep health on their own bar.
	Mook Representation = iota
	// LinkedCharacter tokens keep health on the represented character's
	// health attribute.
	LinkedCharacter
)

func (r Representation) String() string {
	switch r {
	case Mook:
		return "mook"
	case LinkedCharacter:
		return "linked"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Representation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value is a
// mook.
func (r *Representation) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "mook":
		*r = Mook
	case "linked", "character":
		*r = LinkedCharacter
	default:
		return fmt.Errorf("unknown representation %q", string(b))
	}
	return nil
}

// Bar is a current/max pair shown on a token.
type Bar struct {
	Value int `yaml:"value" json:"value"`
	Max   int `yaml:"max" json:"max"`
}

// Token is a creature placed on the table. Represents is the id of the
// character it stands for; empty means it is only a picture.
type Token struct {
	ID             string         `yaml:"id" json:"id"`
	Name           string         `yaml:"name" json:"name"`
	Represents     string         `yaml:"represents" json:"represents"`
	Representation Representation `yaml:"representation" json:"representation"`
	Health         Bar            `yaml:"health" json:"health"`
	Dead           bool           `yaml:"dead" json:"dead"`
}

// HealthSource is the closed set of places a creature's health can live.
type HealthSource interface {
	healthSource()
}

// MookHealth reads and writes the token's own health bar.
type MookHealth struct {
	Token Token
}

// LinkedHealth reads and writes the character's health attribute.
type LinkedHealth struct {
	CharacterID string
}

func (MookHealth) healthSource()   {}
func (LinkedHealth) healthSource() {}

// HealthSource returns where this token's health is stored.
func (t Token) HealthSource() HealthSource {
	switch t.Representation {
	case LinkedCharacter:
		return LinkedHealth{CharacterID: t.Represents}
	default:
		return MookHealth{Token: t}
	}
}

// CreatureHealthState is a snapshot of a creature's health as seen by the
// damage resolver.
type CreatureHealthState struct {
	Current        int
	Max            int
	Armor          int
	Representation Representation
}

// Dead is derived from the current value, never stored on its own.
func (s CreatureHealthState) Dead() bool {
	return s.Current == 0
}

// Message is a line of chat produced by a resolver. An empty To broadcasts.
type Message struct {
	From string `json:"from"`
	To   string `json:"to,omitempty"`
	Text string `json:"text"`
}

const (
	// ToGM whispers a message to the game master.
	ToGM = "gm"
	// SpeakerGM speaks as the game master.
	SpeakerGM = "GM"
	// SpeakerSystem is used for command errors.
	SpeakerSystem = "Cypher System"
)

// SpeakAs returns the From value that speaks as the given character.
func SpeakAs(characterID string) string {
	return "character|" + characterID
}
