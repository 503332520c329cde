// Package pricing implements the weight/dimension-based shipping price
// engine: a rate slab (step function from weight ceiling to flat price) and
// a calculator that resolves billable weight against it.
package pricing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// SlabEntry maps a weight ceiling to a flat price.
type SlabEntry struct {
	Ceiling float64
	Price   decimal.Decimal
}

// Slab is an ordered rate table. Immutable after construction, safe to share
// across goroutines.
type Slab struct {
	entries []SlabEntry
}

// NewSlab validates that ceilings are positive and strictly increasing and
// that prices are non-negative.
func NewSlab(entries []SlabEntry) (*Slab, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("rate slab is empty")
	}
	prev := 0.0
	for i, e := range entries {
		if e.Ceiling <= prev {
			return nil, fmt.Errorf("slab ceilings must be strictly increasing: entry %d has ceiling %v", i, e.Ceiling)
		}
		if e.Price.IsNegative() {
			return nil, fmt.Errorf("slab price for ceiling %v is negative", e.Ceiling)
		}
		prev = e.Ceiling
	}
	out := make([]SlabEntry, len(entries))
	copy(out, entries)
	return &Slab{entries: out}, nil
}

// DefaultSlab returns the built-in rate table used when no rate file is
// configured.
func DefaultSlab() *Slab {
	s, err := NewSlab([]SlabEntry{
		{Ceiling: 0.5, Price: decimal.NewFromInt(5)},
		{Ceiling: 1, Price: decimal.NewFromInt(8)},
		{Ceiling: 2, Price: decimal.NewFromInt(12)},
		{Ceiling: 3, Price: decimal.NewFromInt(16)},
		{Ceiling: 5, Price: decimal.NewFromInt(22)},
		{Ceiling: 10, Price: decimal.NewFromInt(35)},
		{Ceiling: 20, Price: decimal.NewFromInt(50)},
		{Ceiling: 30, Price: decimal.NewFromInt(70)},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// LoadCSV reads a rate table from a CSV file of (weightCeiling, price) rows.
// An empty path returns the default slab.
func LoadCSV(path string) (*Slab, error) {
	if path == "" {
		return DefaultSlab(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rate file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rate file: %w", err)
	}

	entries := make([]SlabEntry, 0, len(records))
	for i, row := range records {
		if len(row) < 2 {
			return nil, fmt.Errorf("rate file row %d: expected (ceiling, price), got %d columns", i+1, len(row))
		}
		ceiling, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("rate file row %d: bad ceiling %q: %w", i+1, row[0], err)
		}
		price, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, fmt.Errorf("rate file row %d: bad price %q: %w", i+1, row[1], err)
		}
		entries = append(entries, SlabEntry{Ceiling: ceiling, Price: price})
	}

	return NewSlab(entries)
}

// PriceFor resolves a billable weight against the slab: the price at the
// smallest ceiling >= weight, falling back to the largest ceiling's price
// when the weight exceeds every ceiling. There is no upper weight rejection.
func (s *Slab) PriceFor(weight float64) decimal.Decimal {
	for _, e := range s.entries {
		if weight <= e.Ceiling {
			return e.Price
		}
	}
	return s.entries[len(s.entries)-1].Price
}

// MaxCeiling returns the largest weight ceiling in the slab.
func (s *Slab) MaxCeiling() float64 {
	return s.entries[len(s.entries)-1].Ceiling
}
