package composition

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JaimeStill/promptdj/pkg/weight"
)

const (
	gridColumns = 4
	// alphaWeight is the weight at which a layer reaches full opacity.
	alphaWeight = 0.5
	maxAlpha    = 0.6
)

// Layer is one prompt's contribution to the composite background.
type Layer struct {
	ID        string  `json:"promptId"`
	Text      string  `json:"text"`
	Color     string  `json:"color"`
	Weight    float64 `json:"weight"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Alpha     float64 `json:"alpha"`
	Stop      float64 `json:"stop"`
	Intensity float64 `json:"intensity"`
	Filtered  bool    `json:"filtered"`
}

// Summary is the derived visual state of the whole collection.
type Summary struct {
	Layers     []Layer `json:"layers"`
	BPM        int     `json:"bpm"`
	AudioLevel float64 `json:"audioLevel"`
	Renders    uint64  `json:"renders"`
}

func layerAt(i int, l Layer) Layer {
	l.X = float64(i%gridColumns) / (gridColumns - 1)
	l.Y = float64(i/gridColumns) / (gridColumns - 1)
	l.Alpha = min(max(l.Weight/alphaWeight, 0), 1) * maxAlpha
	l.Stop = l.Weight / weight.Max
	return l
}

const labelWidth = 22

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Width(labelWidth)
	filteredStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	trackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3a3a3a"))
)

// Render draws the summary as a header row and one colored bar per prompt,
// width cells wide. Every prompt occupies exactly one row.
func (s Summary) Render(width int) string {
	if width < 1 {
		width = 1
	}

	lines := make([]string, 0, len(s.Layers)+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%d BPM  level %.2f", s.BPM, s.AudioLevel)))

	for _, l := range s.Layers {
		text := truncate(l.Text, labelWidth)
		label := labelStyle.Render(text)
		if l.Filtered {
			label = filteredStyle.Render(label)
		}

		filled := int(l.Stop*float64(width) + 0.5)
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render(strings.Repeat("█", filled))
		track := trackStyle.Render(strings.Repeat("░", width-filled))

		lines = append(lines, fmt.Sprintf("%s %s%s %4.2f", label, bar, track, l.Weight))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
