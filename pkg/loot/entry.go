// Package loot resolves weighted random drops from loot tables.
//
// Each entry in a table is rolled independently. Magic find grants extra
// attempts per entry, and when several attempts succeed only the best drop
// is kept.
package loot

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
)

var (
	// ErrInvalidDivision is returned for a drop chance with a zero or negative
	// denominator, a negative numerator, or a numerator above the denominator.
	ErrInvalidDivision = errors.New("invalid loot chance")
	// ErrInvalidQuantity is returned for an empty or non-positive quantity range.
	ErrInvalidQuantity = errors.New("invalid loot quantity")
	// ErrItemAlreadyInTable is returned when adding a second entry for the same item.
	ErrItemAlreadyInTable = errors.New("item already in loot table")
)

// Range is an inclusive quantity range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Fixed returns a range that always yields n.
func Fixed(n int) Range {
	return Range{Min: n, Max: n}
}

// Roll draws a quantity uniformly from the range.
func (r Range) Roll(src rng.Source) int {
	return rng.Range(src, r.Min, r.Max)
}

// Entry binds an item to a drop chance of Numerator/Denominator and a quantity range.
type Entry struct {
	Item        item.ID `json:"item"`
	Numerator   int     `json:"numerator"`
	Denominator int     `json:"denominator"`
	Quantity    Range   `json:"quantity"`
}

// NewEntry validates and returns a loot entry.
func NewEntry(id item.ID, numerator, denominator int, quantity Range) (Entry, error) {
	e := Entry{Item: id, Numerator: numerator, Denominator: denominator, Quantity: quantity}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the chance and quantity of the entry.
func (e Entry) Validate() error {
	if e.Denominator <= 0 || e.Numerator < 0 || e.Denominator < e.Numerator {
		return fmt.Errorf("%w: %s %d/%d", ErrInvalidDivision, e.Item, e.Numerator, e.Denominator)
	}
	if e.Quantity.Min < 1 || e.Quantity.Min > e.Quantity.Max {
		return fmt.Errorf("%w: %s %d..%d", ErrInvalidQuantity, e.Item, e.Quantity.Min, e.Quantity.Max)
	}
	return nil
}

// Chance returns the per-trial success probability in [0,1].
func (e Entry) Chance() float64 {
	if e.Denominator <= 0 {
		return 0
	}
	return float64(e.Numerator) / float64(e.Denominator)
}

// ChancePercent returns the per-trial success probability as a percentage.
func (e Entry) ChancePercent() float64 {
	return e.Chance() * 100
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %d/%d x%d-%d", e.Item, e.Numerator, e.Denominator, e.Quantity.Min, e.Quantity.Max)
}
