package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Collection is an ordered, immutable mapping of prompt id to Prompt. Changes
// produce a new Collection, so pointer inequality means something changed.
type Collection struct {
	prompts *orderedmap.OrderedMap[string, Prompt]
}

// NewCollection builds a collection in argument order. Weights are clamped to
// the valid range. A repeated id keeps its first position and its last value.
func NewCollection(prompts ...Prompt) *Collection {
	m := orderedmap.New[string, Prompt](len(prompts))
	for _, p := range prompts {
		m.Set(p.ID, p.normalize())
	}
	return &Collection{prompts: m}
}

// Len returns the number of prompts.
func (c *Collection) Len() int {
	return c.prompts.Len()
}

// Get returns the prompt with id.
func (c *Collection) Get(id string) (Prompt, bool) {
	return c.prompts.Get(id)
}

// IDs returns prompt ids in order.
func (c *Collection) IDs() []string {
	ids := make([]string, 0, c.prompts.Len())
	for pair := c.prompts.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Prompts returns the prompts in order.
func (c *Collection) Prompts() []Prompt {
	prompts := make([]Prompt, 0, c.prompts.Len())
	for pair := c.prompts.Oldest(); pair != nil; pair = pair.Next() {
		prompts = append(prompts, pair.Value)
	}
	return prompts
}

// Equal reports whether c and other hold the same prompts in the same order.
func (c *Collection) Equal(other *Collection) bool {
	if c.Len() != other.Len() {
		return false
	}
	a, b := c.prompts.Oldest(), other.prompts.Oldest()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Key != b.Key || a.Value != b.Value {
			return false
		}
	}
	return true
}

func (c *Collection) replace(p Prompt) *Collection {
	m := orderedmap.New[string, Prompt](c.prompts.Len())
	for pair := c.prompts.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == p.ID {
			m.Set(pair.Key, p.normalize())
			continue
		}
		m.Set(pair.Key, pair.Value)
	}
	return &Collection{prompts: m}
}

// MarshalJSON encodes the collection as a JSON object keyed by prompt id,
// preserving order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return c.prompts.MarshalJSON()
}

// MarshalPairs encodes the collection as a JSON array of [id, prompt] pairs.
// This is the stored preset payload.
func (c *Collection) MarshalPairs() ([]byte, error) {
	pairs := make([][2]any, 0, c.prompts.Len())
	for pair := c.prompts.Oldest(); pair != nil; pair = pair.Next() {
		pairs = append(pairs, [2]any{pair.Key, pair.Value})
	}
	return json.Marshal(pairs)
}

// UnmarshalPairs decodes a preset payload written by MarshalPairs. Any
// structural problem is reported as ErrCorruptPreset.
func UnmarshalPairs(data []byte) (*Collection, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, fmt.Errorf("%w: payload is null", ErrCorruptPreset)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPreset, err)
	}

	m := orderedmap.New[string, Prompt](len(raw))
	for i, entry := range raw {
		var pair []json.RawMessage
		if err := json.Unmarshal(entry, &pair); err != nil || len(pair) != 2 {
			return nil, fmt.Errorf("%w: entry %d is not an [id, prompt] pair", ErrCorruptPreset, i)
		}

		var id string
		if err := json.Unmarshal(pair[0], &id); err != nil || id == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrCorruptPreset, i)
		}

		if bytes.Equal(bytes.TrimSpace(pair[1]), []byte("null")) {
			return nil, fmt.Errorf("%w: entry %q has no prompt", ErrCorruptPreset, id)
		}

		var p Prompt
		if err := json.Unmarshal(pair[1], &p); err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrCorruptPreset, id, err)
		}
		p.ID = id

		if _, dup := m.Get(id); dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrCorruptPreset, id)
		}
		m.Set(id, p.normalize())
	}

	return &Collection{prompts: m}, nil
}
