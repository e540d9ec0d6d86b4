package sheet

import (
	"bytes"
	"testing"

	"cypher/internal/game"
)

func testPools(might, speed, intellect int) game.CharacterPoolSet {
	return game.CharacterPoolSet{
		Might:     game.Attribute{Name: "might", Current: might, Max: 10},
		Speed:     game.Attribute{Name: "speed", Current: speed, Max: 10},
		Intellect: game.Attribute{Name: "intellect", Current: intellect, Max: 10},
	}
}

func TestGenerate_ReturnsPDF(t *testing.T) {
	ch := game.Character{ID: "c1", Name: "Ayla"}
	b, err := Generate(ch, testPools(4, 10, 7), game.Attribute{Name: "recovery-rolls", Current: 2}, "Session 3")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(b) < 100 {
		t.Errorf("PDF too short: %d bytes", len(b))
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_IncapacitatedNoName(t *testing.T) {
	b, err := Generate(game.Character{ID: "c2"}, testPools(0, 0, 0), game.Attribute{}, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestFillWidth(t *testing.T) {
	tests := []struct {
		name string
		attr game.Attribute
		want float64
	}{
		{"half", game.Attribute{Current: 5, Max: 10}, 50},
		{"full", game.Attribute{Current: 10, Max: 10}, 100},
		{"over max", game.Attribute{Current: 12, Max: 10}, 100},
		{"empty", game.Attribute{Current: 0, Max: 10}, 0},
		{"no max", game.Attribute{Current: 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fillWidth(tt.attr, 100); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	if got := capitalize("might"); got != "Might" {
		t.Errorf("Expected Might, got %q", got)
	}
	if got := capitalize(""); got != "" {
		t.Errorf("Expected empty, got %q", got)
	}
}
