package grid

import (
	"math/rand/v2"
)

// DefaultAttempts is how many random anchors are tried per word before the
// generator gives up on random placement.
const DefaultAttempts = 100

type orientation struct{ dr, dc int }

var (
	horizontal   = orientation{0, 1}
	vertical     = orientation{1, 0}
	orientations = []orientation{horizontal, vertical}
)

type Options struct {
	Size     int
	Attempts int
	// DisableFallback skips the row-major scan that runs once random
	// attempts are exhausted, so a word that runs out of random attempts is
	// dropped.
	DisableFallback bool
}

// Result is one generated puzzle.
type Result struct {
	Grid       Grid
	Placements map[string][]Cell
	// Skipped lists words that could not be placed anywhere. They get no
	// entry in Placements.
	Skipped []string
}

// Generator places words into a square letter grid. It is not safe for
// concurrent use; the session controller owns one per process.
type Generator struct {
	rng  *rand.Rand
	opts Options
}

func NewGenerator(rng *rand.Rand, opts Options) *Generator {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng, opts: opts}
}

func (g *Generator) Size() int { return g.opts.Size }

// Generate places every word it can, in order, then fills the remaining
// cells with random letters. Words may cross where their letters agree.
func (g *Generator) Generate(words []string) Result {
	res := Result{
		Grid:       New(g.opts.Size),
		Placements: make(map[string][]Cell, len(words)),
	}

	for _, word := range words {
		if word == "" || len(word) > g.opts.Size {
			res.Skipped = append(res.Skipped, word)
			continue
		}
		cells, ok := g.placeRandom(res.Grid, word)
		if !ok && !g.opts.DisableFallback {
			cells, ok = placeScan(res.Grid, word)
		}
		if !ok {
			res.Skipped = append(res.Skipped, word)
			continue
		}
		res.Placements[word] = cells
	}

	g.fill(res.Grid)
	return res
}

func (g *Generator) placeRandom(gr Grid, word string) ([]Cell, bool) {
	size := gr.Size()
	for attempt := 0; attempt < g.opts.Attempts; attempt++ {
		o := orientations[g.rng.IntN(len(orientations))]
		anchor := Cell{R: g.rng.IntN(size), C: g.rng.IntN(size)}
		if cells, ok := tryPlace(gr, word, anchor, o); ok {
			return cells, true
		}
	}
	return nil, false
}

// placeScan walks every anchor row-major, horizontal before vertical, and
// takes the first run that fits.
func placeScan(gr Grid, word string) ([]Cell, bool) {
	size := gr.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			for _, o := range orientations {
				if cells, ok := tryPlace(gr, word, Cell{R: r, C: c}, o); ok {
					return cells, true
				}
			}
		}
	}
	return nil, false
}

// tryPlace writes word at anchor when every covered cell is empty or already
// holds the required letter. The grid is untouched on failure.
func tryPlace(gr Grid, word string, anchor Cell, o orientation) ([]Cell, bool) {
	end := Cell{R: anchor.R + o.dr*(len(word)-1), C: anchor.C + o.dc*(len(word)-1)}
	if !gr.inBounds(anchor) || !gr.inBounds(end) {
		return nil, false
	}

	cells := make([]Cell, len(word))
	for i := 0; i < len(word); i++ {
		cell := Cell{R: anchor.R + o.dr*i, C: anchor.C + o.dc*i}
		if cur := gr.At(cell); cur != 0 && cur != word[i] {
			return nil, false
		}
		cells[i] = cell
	}

	for i, cell := range cells {
		gr[cell.R][cell.C] = word[i]
	}
	return cells, true
}

func (g *Generator) fill(gr Grid) {
	for r := range gr {
		for c := range gr[r] {
			if gr[r][c] == 0 {
				gr[r][c] = Alphabet[g.rng.IntN(len(Alphabet))]
			}
		}
	}
}
