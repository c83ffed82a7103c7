package prompts

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Presets lists the stored preset names in stored order and the current selection.
type Presets struct {
	Names    []string `json:"names"`
	Selected string   `json:"selected,omitempty"`
}

// presetSet maps preset name to its serialized collection, in stored order.
// Like Collection it is replaced rather than mutated once published.
type presetSet struct {
	entries *orderedmap.OrderedMap[string, string]
}

func newPresetSet() *presetSet {
	return &presetSet{entries: orderedmap.New[string, string]()}
}

func decodePresetSet(data []byte) (*presetSet, error) {
	entries := orderedmap.New[string, string]()
	if err := json.Unmarshal(data, entries); err != nil {
		return nil, err
	}
	return &presetSet{entries: entries}, nil
}

func (s *presetSet) encode() ([]byte, error) {
	return json.Marshal(s.entries)
}

func (s *presetSet) get(name string) (string, bool) {
	return s.entries.Get(name)
}

func (s *presetSet) names() []string {
	names := make([]string, 0, s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (s *presetSet) first() string {
	if pair := s.entries.Oldest(); pair != nil {
		return pair.Key
	}
	return ""
}

func (s *presetSet) clone() *presetSet {
	entries := orderedmap.New[string, string](s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		entries.Set(pair.Key, pair.Value)
	}
	return &presetSet{entries: entries}
}

// with returns a copy holding payload under name. An existing name keeps its position.
func (s *presetSet) with(name, payload string) *presetSet {
	next := s.clone()
	next.entries.Set(name, payload)
	return next
}

func (s *presetSet) without(name string) *presetSet {
	next := s.clone()
	next.entries.Delete(name)
	return next
}
