package round_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/wordclash-backend/internal/content"
	"github.com/scythe504/wordclash-backend/internal/grid"
	"github.com/scythe504/wordclash-backend/internal/round"
)

type brokenSource struct {
	categoriesErr error
	wordsErr      error
}

func (b brokenSource) Categories(context.Context) ([]string, error) {
	if b.categoriesErr != nil {
		return nil, b.categoriesErr
	}
	return []string{"Animals"}, nil
}

func (b brokenSource) Words(context.Context, string) ([]string, error) {
	return nil, b.wordsErr
}

func newFactory(src content.Source) *round.Factory {
	rng := rand.New(rand.NewPCG(1, 2))
	return round.NewFactory(src, grid.NewGenerator(rng, grid.Options{}), rng, zerolog.Nop())
}

func TestNewRound_PicksAPackAndUppercases(t *testing.T) {
	src := content.NewStatic(content.Packs{"Animals": {"cat", "Dog", "horse"}})

	rs := newFactory(src).NewRound(context.Background())

	assert.Equal(t, "Animals", rs.Theme)
	assert.Equal(t, []string{"CAT", "DOG", "HORSE"}, rs.Words)
	assert.Len(t, rs.Placements, 3)
	assert.Equal(t, grid.DefaultSize, rs.Grid.Size())
	assert.NotNil(t, rs.FoundWords)
	assert.Empty(t, rs.FoundWords)
	assert.NotNil(t, rs.FoundHistory)
	assert.Empty(t, rs.FoundHistory)
}

func TestNewRound_PicksEveryCategoryEventually(t *testing.T) {
	src := content.NewStatic(content.Packs{
		"Animals": {"CAT"},
		"Fruit":   {"PEAR"},
		"Space":   {"MOON"},
	})
	f := newFactory(src)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[f.NewRound(context.Background()).Theme] = true
	}
	assert.Equal(t, map[string]bool{"Animals": true, "Fruit": true, "Space": true}, seen)
}

func TestNewRound_Fallbacks(t *testing.T) {
	tests := []struct {
		name      string
		src       content.Source
		wantTheme string
		wantWords []string
	}{
		{
			name:      "no packs",
			src:       content.NewStatic(nil),
			wantTheme: round.DefaultTheme,
			wantWords: round.DefaultWords,
		},
		{
			name:      "listing fails",
			src:       brokenSource{categoriesErr: errors.New("connection refused")},
			wantTheme: round.ErrorTheme,
			wantWords: round.ErrorWords,
		},
		{
			name:      "loading words fails",
			src:       brokenSource{wordsErr: errors.New("timeout")},
			wantTheme: round.ErrorTheme,
			wantWords: round.ErrorWords,
		},
		{
			name:      "pack with nothing usable",
			src:       content.NewStatic(content.Packs{"Numbers": {"123", "", "ABCDEFGHIJKLMNOP"}}),
			wantTheme: round.DefaultTheme,
			wantWords: round.DefaultWords,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newFactory(tt.src).NewRound(context.Background())

			assert.Equal(t, tt.wantTheme, rs.Theme)
			assert.Equal(t, tt.wantWords, rs.Words)
			for _, w := range tt.wantWords {
				require.Contains(t, rs.Placements, w)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := round.Normalize([]string{"ice cream", "Ice-Cream", "go", "", "42", "supercalifragilistic", "ÉCLAIR"}, 10)
	assert.Equal(t, []string{"ICECREAM", "GO", "CLAIR"}, got)
}
