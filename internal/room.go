package internal

import (
	"maps"
	"slices"

	"github.com/scythe504/wordclash-backend/internal/grid"
)

// NewRoom builds a waiting room whose creator is the only player.
func NewRoom(id, creatorID, creatorConn string, totalRounds int, round RoundState) *Room {
	r := &Room{
		Id:                id,
		Status:            StatusWaiting,
		Players:           map[string]string{creatorID: creatorConn},
		Scores:            map[string]int{creatorID: 0},
		CreatorConnection: creatorConn,
		CurrentRound:      1,
		TotalRounds:       totalRounds,
	}
	r.StartRound(round)
	return r
}

// StartRound replaces the puzzle and clears what was found in the last one.
func (r *Room) StartRound(round RoundState) {
	if round.Placements == nil {
		round.Placements = map[string][]grid.Cell{}
	}
	round.FoundWords = []string{}
	round.FoundHistory = []FoundEntry{}
	r.RoundState = round
}

func (r *Room) PlayerCount() int { return len(r.Players) }

func (r *Room) HasPlayer(userID string) bool {
	_, ok := r.Players[userID]
	return ok
}

// IsFull reports whether userID would be turned away.
func (r *Room) IsFull(userID string) bool {
	return len(r.Players) >= MaxPlayersPerRoom && !r.HasPlayer(userID)
}

// HasConnection reports whether connID belongs to any current player.
func (r *Room) HasConnection(connID string) bool {
	for _, c := range r.Players {
		if c == connID {
			return true
		}
	}
	return false
}

// AddPlayer adds userID or points it at a new connection. The previous
// connection id is returned when the user re-joins from a different one.
func (r *Room) AddPlayer(userID, connID string) (previous string) {
	previous = r.Players[userID]
	r.Players[userID] = connID
	if _, ok := r.Scores[userID]; !ok {
		r.Scores[userID] = 0
	}
	if previous == connID {
		return ""
	}
	return previous
}

// Connections lists the connection ids of the current players.
func (r *Room) Connections() []string {
	conns := make([]string, 0, len(r.Players))
	for _, c := range r.Players {
		conns = append(conns, c)
	}
	slices.Sort(conns)
	return slices.Compact(conns)
}

func (r *Room) HasWord(word string) bool { return slices.Contains(r.Words, word) }

func (r *Room) IsFound(word string) bool { return slices.Contains(r.FoundWords, word) }

// MarkFound credits finder with word. It reports false, changing nothing,
// when word is not in this round or was already found.
func (r *Room) MarkFound(word, finder string) (FoundEntry, bool) {
	if !r.HasWord(word) || r.IsFound(word) {
		return FoundEntry{}, false
	}
	entry := FoundEntry{
		Word:    word,
		Finder:  finder,
		Indices: slices.Clone(r.Placements[word]),
	}
	if entry.Indices == nil {
		entry.Indices = []grid.Cell{}
	}
	r.FoundWords = append(r.FoundWords, word)
	r.Scores[finder]++
	r.FoundHistory = append(r.FoundHistory, entry)
	return entry, true
}

// IsRoundComplete reports whether every word of the round has been found.
func (r *Room) IsRoundComplete() bool {
	if len(r.Words) == 0 {
		return false
	}
	for _, w := range r.Words {
		if !r.IsFound(w) {
			return false
		}
	}
	return true
}

func (r *Room) IsFinalRound() bool { return r.CurrentRound >= r.TotalRounds }

// Winner returns the user with the highest score. Ties go to the
// lexicographically smallest user id so the result never depends on map
// iteration order.
func (r *Room) Winner() string {
	winner, best := "", -1
	for _, id := range slices.Sorted(maps.Keys(r.Scores)) {
		if s := r.Scores[id]; s > best {
			winner, best = id, s
		}
	}
	return winner
}

// Snapshot copies what a client needs to draw the current round.
func (r *Room) Snapshot() GameStartData {
	return GameStartData{
		Grid:         r.Grid,
		Words:        slices.Clone(r.Words),
		Scores:       maps.Clone(r.Scores),
		Theme:        r.Theme,
		FoundHistory: slices.Clone(r.FoundHistory),
		CurrentRound: r.CurrentRound,
		TotalRounds:  r.TotalRounds,
	}
}
