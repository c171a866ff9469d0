package table

import (
	"strings"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

// Separator joins values that share an index
const Separator = ", "

// Indexed is an insertion ordered index -> value mapping
type Indexed struct {
	keys   []string
	values map[string]string
}

// NewIndexed returns an empty mapping
func NewIndexed() *Indexed {
	return &Indexed{values: make(map[string]string)}
}

// Aggregate folds entries into an Indexed mapping. Values of a repeated index
// are joined with Separator in arrival order.
func Aggregate(entries []entities.Entry) *Indexed {
	t := NewIndexed()
	for _, e := range entries {
		t.Append(e.Index, e.Value)
	}
	return t
}

// AggregateNonEmpty is Aggregate without entries whose value is empty
func AggregateNonEmpty(entries []entities.Entry) *Indexed {
	t := NewIndexed()
	for _, e := range entries {
		if e.Value == "" {
			continue
		}
		t.Append(e.Index, e.Value)
	}
	return t
}

// Append adds value under index, joining it to any existing value
func (t *Indexed) Append(index, value string) {
	if existing, ok := t.values[index]; ok {
		t.values[index] = existing + Separator + value
		return
	}
	t.keys = append(t.keys, index)
	t.values[index] = value
}

// Get returns the value stored under index
func (t *Indexed) Get(index string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.values[index]
	return v, ok
}

// Value returns the value stored under index or an empty string
func (t *Indexed) Value(index string) string {
	v, _ := t.Get(index)
	return v
}

// Keys returns the indices in first-seen order
func (t *Indexed) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of distinct indices
func (t *Indexed) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// HasEmpty reports whether any stored value is empty or whitespace
func (t *Indexed) HasEmpty() bool {
	if t == nil {
		return false
	}
	for _, k := range t.keys {
		if strings.TrimSpace(t.values[k]) == "" {
			return true
		}
	}
	return false
}
