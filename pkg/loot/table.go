package loot

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/zyedidia/generic/mapset"
)

// Table is an ordered set of loot entries with at most one entry per item.
// Tables are read-only during resolution.
type Table struct {
	entries []Entry
	ids     *mapset.Set[item.ID]
}

// NewTable builds a table from entries, rejecting invalid or duplicate entries.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{}
	for _, e := range entries {
		if _, err := t.Add(e); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add validates and appends an entry and returns its index.
func (t *Table) Add(e Entry) (int, error) {
	if err := e.Validate(); err != nil {
		return -1, err
	}
	if t.Contains(e.Item) {
		return -1, fmt.Errorf("%w: %s", ErrItemAlreadyInTable, e.Item)
	}
	if t.ids == nil {
		ids := mapset.New[item.ID]()
		t.ids = &ids
	}
	t.ids.Put(e.Item)
	t.entries = append(t.entries, e)
	return len(t.entries) - 1, nil
}

// Get returns the entry for id.
func (t *Table) Get(id item.ID) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	for _, e := range t.entries {
		if e.Item == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Contains reports whether the table has an entry for id.
func (t *Table) Contains(id item.ID) bool {
	if t == nil || t.ids == nil {
		return false
	}
	return t.ids.Has(id)
}

// Entries returns a copy of the entries in order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// IsEmpty reports whether the table has no entries.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Proportions maps each item to its per-trial drop chance.
func (t *Table) Proportions() map[item.ID]float64 {
	out := make(map[item.ID]float64, t.Len())
	for _, e := range t.Entries() {
		out[e.Item] = e.Chance()
	}
	return out
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := &Table{}
	for _, e := range t.entries {
		_, _ = c.Add(e) // entries are already unique
	}
	return c
}

// MarshalJSON encodes the table as a list of entries.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Entries())
}

// UnmarshalJSON decodes a list of entries through the Builder, so invalid
// and duplicate rows in data files are dropped rather than failing the load.
func (t *Table) UnmarshalJSON(data []byte) error {
	var rows []Entry
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	b := NewBuilder()
	for _, r := range rows {
		b.With(r.Item, r.Numerator, r.Denominator, r.Quantity)
	}
	*t = *b.Build()
	return nil
}

// Builder assembles a table for static data.
// Unlike Add, With silently skips invalid and duplicate entries.
type Builder struct {
	table   *Table
	skipped []Entry
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{table: &Table{}}
}

// With adds an entry if it is valid and its item is not already present.
func (b *Builder) With(id item.ID, numerator, denominator int, quantity Range) *Builder {
	e, err := NewEntry(id, numerator, denominator, quantity)
	if err != nil {
		b.skipped = append(b.skipped, Entry{Item: id, Numerator: numerator, Denominator: denominator, Quantity: quantity})
		return b
	}
	if _, err := b.table.Add(e); err != nil {
		b.skipped = append(b.skipped, e)
	}
	return b
}

// Skipped returns the rows that With dropped.
func (b *Builder) Skipped() []Entry {
	return b.skipped
}

// Build returns the assembled table.
func (b *Builder) Build() *Table {
	return b.table.Clone()
}
