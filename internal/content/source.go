// Package content provides the word packs rounds are built from. A word pack
// is a named category (the round's theme) and its candidate words.
package content

import (
	"context"
	"errors"
	"maps"
	"slices"
)

var ErrUnknownCategory = errors.New("content: unknown category")

// Source lists categories and loads their words.
type Source interface {
	Categories(ctx context.Context) ([]string, error)
	Words(ctx context.Context, category string) ([]string, error)
}

// Packs maps category name to its words.
type Packs map[string][]string

// Static serves packs held in memory. It backs the file loaders and tests.
type Static struct {
	packs Packs
}

func NewStatic(packs Packs) *Static {
	if packs == nil {
		packs = Packs{}
	}
	return &Static{packs: packs}
}

func (s *Static) Categories(context.Context) ([]string, error) {
	return slices.Sorted(maps.Keys(s.packs)), nil
}

func (s *Static) Words(_ context.Context, category string) ([]string, error) {
	words, ok := s.packs[category]
	if !ok {
		return nil, ErrUnknownCategory
	}
	return slices.Clone(words), nil
}

// Packs returns a copy of everything the source holds, for seeding.
func (s *Static) Packs() Packs {
	out := make(Packs, len(s.packs))
	for k, v := range s.packs {
		out[k] = slices.Clone(v)
	}
	return out
}
