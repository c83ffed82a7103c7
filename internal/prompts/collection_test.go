package prompts_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/promptdj/internal/prompts"
)

func sampleCollection() *prompts.Collection {
	return prompts.NewCollection(
		prompts.Prompt{ID: "b", Text: "Shoegaze", Weight: 0.3, CC: 4, Color: "#ffdd28"},
		prompts.Prompt{ID: "a", Text: "Bossa Nova", Weight: 1.75, CC: 0, Color: "#9900ff"},
		prompts.Prompt{ID: "c", Text: "Thrash", Weight: 0, CC: 15, Color: "#d9b2ff"},
	)
}

func TestDefaults(t *testing.T) {
	c := prompts.Defaults()

	if c.Len() != 16 {
		t.Fatalf("Len = %d, want 16", c.Len())
	}

	ids := c.IDs()
	if ids[0] != "prompt-0" || ids[15] != "prompt-15" {
		t.Errorf("ids out of order: %v", ids)
	}

	for i, p := range c.Prompts() {
		if int(p.CC) != i {
			t.Errorf("%s: cc = %d, want %d", p.ID, p.CC, i)
		}
		want := 0.0
		if i < 3 {
			want = 1
		}
		if p.Weight != want {
			t.Errorf("%s: weight = %v, want %v", p.ID, p.Weight, want)
		}
	}

	first, _ := c.Get("prompt-0")
	ninth, _ := c.Get("prompt-8")
	if first.Color != ninth.Color {
		t.Errorf("palette should cycle every 8: %s vs %s", first.Color, ninth.Color)
	}
}

func TestNewCollectionClampsWeights(t *testing.T) {
	c := prompts.NewCollection(
		prompts.Prompt{ID: "lo", Weight: -1},
		prompts.Prompt{ID: "hi", Weight: 9},
	)

	lo, _ := c.Get("lo")
	hi, _ := c.Get("hi")
	if lo.Weight != 0 || hi.Weight != 2 {
		t.Errorf("weights = %v, %v; want 0, 2", lo.Weight, hi.Weight)
	}
}

func TestMarshalJSONPreservesOrder(t *testing.T) {
	data, err := json.Marshal(sampleCollection())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(data)
	b, a, c := strings.Index(s, `"b":`), strings.Index(s, `"a":`), strings.Index(s, `"c":`)
	if b < 0 || a < 0 || c < 0 || !(b < a && a < c) {
		t.Errorf("keys out of insertion order: %s", s)
	}
	if !strings.Contains(s, `"promptId":"a"`) {
		t.Errorf("prompt wire fields missing: %s", s)
	}
}

func TestPairsRoundTrip(t *testing.T) {
	original := sampleCollection()

	data, err := original.MarshalPairs()
	if err != nil {
		t.Fatalf("MarshalPairs: %v", err)
	}

	var raw [][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) != 3 || len(raw[0]) != 2 {
		t.Fatalf("payload is not an array of pairs: %s", data)
	}

	restored, err := prompts.UnmarshalPairs(data)
	if err != nil {
		t.Fatalf("UnmarshalPairs: %v", err)
	}

	if !restored.Equal(original) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", restored.Prompts(), original.Prompts())
	}
}

func TestUnmarshalPairsCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"null", `null`},
		{"object", `{"a":1}`},
		{"short pair", `[["a"]]`},
		{"long pair", `[["a",{},{}]]`},
		{"numeric id", `[[1,{"text":"x"}]]`},
		{"empty id", `[["",{"text":"x"}]]`},
		{"null prompt", `[["a",null]]`},
		{"bad prompt", `[["a",{"weight":"loud"}]]`},
		{"cc out of range", `[["a",{"cc":300}]]`},
		{"duplicate id", `[["a",{}],["a",{}]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prompts.UnmarshalPairs([]byte(tt.data))
			if !errors.Is(err, prompts.ErrCorruptPreset) {
				t.Errorf("got %v, want ErrCorruptPreset", err)
			}
		})
	}
}

func TestUnmarshalPairsUsesPairID(t *testing.T) {
	c, err := prompts.UnmarshalPairs([]byte(`[["x",{"promptId":"y","text":"Funk","weight":5}]]`))
	if err != nil {
		t.Fatalf("UnmarshalPairs: %v", err)
	}

	p, ok := c.Get("x")
	if !ok {
		t.Fatal("prompt x missing")
	}
	if p.ID != "x" {
		t.Errorf("ID = %s, want x", p.ID)
	}
	if p.Weight != 2 {
		t.Errorf("Weight = %v, want clamped 2", p.Weight)
	}
}

func TestEmptyPresetRoundTrip(t *testing.T) {
	c, err := prompts.UnmarshalPairs([]byte(`[]`))
	if err != nil {
		t.Fatalf("UnmarshalPairs: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}
