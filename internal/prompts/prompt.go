// Package prompts owns the canonical prompt collection and the named presets
// saved from it. Every change replaces the collection wholesale and republishes
// it to subscribers.
package prompts

import (
	"fmt"

	"github.com/JaimeStill/promptdj/pkg/weight"
)

// Prompt is one weighted, colored text that steers the generative audio engine.
// CC is the MIDI control-change number bound to the prompt.
type Prompt struct {
	ID     string  `json:"promptId"`
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
	CC     uint8   `json:"cc"`
	Color  string  `json:"color"`
}

// Edit replaces the text, weight, and CC of the prompt with ID. Color is not editable.
type Edit struct {
	ID     string  `json:"promptId"`
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
	CC     uint8   `json:"cc"`
}

// EditOf returns an Edit that leaves p unchanged.
func EditOf(p Prompt) Edit {
	return Edit{ID: p.ID, Text: p.Text, Weight: p.Weight, CC: p.CC}
}

var palette = []string{
	"#9900ff",
	"#5200ff",
	"#ff25f6",
	"#2af6de",
	"#ffdd28",
	"#3dffab",
	"#d8ff3e",
	"#d9b2ff",
}

var defaultTexts = []string{
	"Bossa Nova",
	"Chillwave",
	"Drum and Bass",
	"Post Punk",
	"Shoegaze",
	"Funk",
	"Chiptune",
	"Lush Strings",
	"Sparkling Arpeggios",
	"Staccato Rhythms",
	"Punchy Kick",
	"Dubstep",
	"K Pop",
	"Neo Soul",
	"Trip Hop",
	"Thrash",
}

// startingActive is how many of the default prompts begin at full weight.
const startingActive = 3

// Defaults returns the startup collection: sixteen prompts with ids prompt-0
// through prompt-15, colors cycling through the palette, and each prompt bound
// to the CC matching its index.
func Defaults() *Collection {
	prompts := make([]Prompt, len(defaultTexts))
	for i, text := range defaultTexts {
		w := 0.0
		if i < startingActive {
			w = 1
		}
		prompts[i] = Prompt{
			ID:     fmt.Sprintf("prompt-%d", i),
			Text:   text,
			Weight: w,
			CC:     uint8(i),
			Color:  palette[i%len(palette)],
		}
	}
	return NewCollection(prompts...)
}

func (p Prompt) normalize() Prompt {
	p.Weight = weight.Clamp(p.Weight)
	return p
}
