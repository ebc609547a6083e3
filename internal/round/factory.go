// Package round builds the puzzle for one round: a themed word list and the
// grid those words are hidden in.
package round

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/scythe504/wordclash-backend/internal"
	"github.com/scythe504/wordclash-backend/internal/content"
	"github.com/scythe504/wordclash-backend/internal/grid"
)

// Fallback content. DefaultTheme is used when no word packs exist,
// ErrorTheme when the content source cannot be read.
const (
	DefaultTheme = "Default"
	ErrorTheme   = "Error"
)

var (
	DefaultWords = []string{"PYTHON", "CODE"}
	ErrorWords   = []string{"ERROR"}
)

// Factory is not safe for concurrent use; it belongs to the session
// controller's goroutine.
type Factory struct {
	source content.Source
	gen    *grid.Generator
	rng    *rand.Rand
	log    zerolog.Logger
}

func NewFactory(source content.Source, gen *grid.Generator, rng *rand.Rand, log zerolog.Logger) *Factory {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Factory{
		source: source,
		gen:    gen,
		rng:    rng,
		log:    log.With().Str("component", "round_factory").Logger(),
	}
}

// NewRound never fails: content problems degrade to fallback words.
func (f *Factory) NewRound(ctx context.Context) internal.RoundState {
	theme, words := f.pickContent(ctx)

	res := f.gen.Generate(words)
	if len(res.Skipped) > 0 {
		f.log.Warn().
			Str("theme", theme).
			Strs("skipped", res.Skipped).
			Msg("words could not be placed on the grid")
	}

	return internal.RoundState{
		Grid:         res.Grid,
		Words:        words,
		Placements:   res.Placements,
		Theme:        theme,
		FoundWords:   []string{},
		FoundHistory: []internal.FoundEntry{},
	}
}

func (f *Factory) pickContent(ctx context.Context) (string, []string) {
	categories, err := f.source.Categories(ctx)
	if err != nil {
		f.log.Error().Err(err).Msg("listing word packs failed, using fallback")
		return ErrorTheme, slices.Clone(ErrorWords)
	}
	if len(categories) == 0 {
		return DefaultTheme, slices.Clone(DefaultWords)
	}

	category := categories[f.rng.IntN(len(categories))]
	raw, err := f.source.Words(ctx, category)
	if err != nil {
		f.log.Error().Err(err).Str("category", category).Msg("loading word pack failed, using fallback")
		return ErrorTheme, slices.Clone(ErrorWords)
	}

	words := Normalize(raw, f.gen.Size())
	if len(words) == 0 {
		f.log.Warn().Str("category", category).Msg("word pack has no usable words, using default")
		return DefaultTheme, slices.Clone(DefaultWords)
	}
	return category, words
}

// Normalize uppercases words, strips everything but A-Z, and drops empty,
// duplicate and over-long entries. A round with any of those could never be
// completed.
func Normalize(raw []string, maxLen int) []string {
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.Map(func(r rune) rune {
			r = unicode.ToUpper(r)
			if r < 'A' || r > 'Z' {
				return -1
			}
			return r
		}, w)
		if w == "" || len(w) > maxLen || slices.Contains(words, w) {
			continue
		}
		words = append(words, w)
	}
	return words
}
