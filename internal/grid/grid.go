package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultSize is the side length of every puzzle grid.
	DefaultSize = 10
	// Alphabet holds the filler letters.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	rowSeparator = "|"
)

var ErrMalformed = errors.New("grid: malformed encoding")

// Cell is one (row, col) coordinate on the grid.
type Cell struct {
	R int `json:"r"`
	C int `json:"c"`
}

// Grid is a square matrix of uppercase letters. A zero byte marks an empty
// cell and only exists while a grid is being generated.
type Grid [][]byte

// New returns an empty size x size grid.
func New(size int) Grid {
	g := make(Grid, size)
	for r := range g {
		g[r] = make([]byte, size)
	}
	return g
}

func (g Grid) Size() int { return len(g) }

func (g Grid) At(c Cell) byte { return g[c.R][c.C] }

func (g Grid) inBounds(c Cell) bool {
	return c.R >= 0 && c.C >= 0 && c.R < len(g) && c.C < len(g)
}

// Encode flattens the grid into rows joined by "|", e.g. "ABC|DEF|GHI".
func (g Grid) Encode() string {
	rows := make([]string, len(g))
	for r, row := range g {
		rows[r] = string(row)
	}
	return strings.Join(rows, rowSeparator)
}

// Decode parses the output of Encode. The result must be square and contain
// only letters from Alphabet.
func Decode(s string) (Grid, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}
	rows := strings.Split(s, rowSeparator)
	g := make(Grid, len(rows))
	for r, row := range rows {
		if len(row) != len(rows) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, r, len(row), len(rows))
		}
		for i := 0; i < len(row); i++ {
			if !strings.ContainsRune(Alphabet, rune(row[i])) {
				return nil, fmt.Errorf("%w: invalid letter %q at (%d,%d)", ErrMalformed, row[i], r, i)
			}
		}
		g[r] = []byte(row)
	}
	return g, nil
}

// MarshalJSON renders the grid as a matrix of one-letter strings, the shape
// clients draw from.
func (g Grid) MarshalJSON() ([]byte, error) {
	out := make([][]string, len(g))
	for r, row := range g {
		out[r] = make([]string, len(row))
		for c, ch := range row {
			if ch != 0 {
				out[r][c] = string(ch)
			}
		}
	}
	return json.Marshal(out)
}

func (g *Grid) UnmarshalJSON(data []byte) error {
	var in [][]string
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := make(Grid, len(in))
	for r, row := range in {
		out[r] = make([]byte, len(row))
		for c, s := range row {
			if len(s) > 1 {
				return fmt.Errorf("%w: cell (%d,%d) holds %q", ErrMalformed, r, c, s)
			}
			if s != "" {
				out[r][c] = s[0]
			}
		}
	}
	*g = out
	return nil
}
