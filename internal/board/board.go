package board

import "math/rand"

const (
	// Rows is the number of rows of cards on the board.
	Rows = 5
	// Cols is the number of columns of cards on the board.
	Cols = 5
	// Size is the total number of cards on the board.
	Size = Rows * Cols
)

type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// CellOwner is the hidden affiliation of a single card.
type CellOwner string

const (
	OwnerRed      CellOwner = "red"
	OwnerBlue     CellOwner = "blue"
	OwnerInnocent CellOwner = "innocent"
	OwnerAssassin CellOwner = "assassin"
)

// Owner maps a team to its cell affiliation.
func Owner(t Team) CellOwner {
	return CellOwner(t)
}

// Key is the secret 25-cell ownership assignment. Index i maps to the card at
// row i/Cols, column i%Cols.
type Key [Size]CellOwner

// NewKey builds the standard composition (8 red, 8 blue, 7 innocent, 1
// assassin) plus one bonus cell for a randomly chosen team, shuffled. The team
// holding 9 cells goes first.
func NewKey(rng *rand.Rand) Key {
	bonus := TeamBlue
	if rng.Intn(2) == 0 {
		bonus = TeamRed
	}

	cells := make([]CellOwner, 0, Size)
	for i := 0; i < 8; i++ {
		cells = append(cells, OwnerRed, OwnerBlue)
	}
	for i := 0; i < 7; i++ {
		cells = append(cells, OwnerInnocent)
	}
	cells = append(cells, Owner(bonus), OwnerAssassin)

	// Two passes, same as one uniform shuffle.
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	var k Key
	copy(k[:], cells)
	return k
}

// StartingTeam returns the team holding the 9th bonus cell.
func (k Key) StartingTeam() Team {
	if k.Count(OwnerRed) == 9 {
		return TeamRed
	}
	return TeamBlue
}

func (k Key) Count(o CellOwner) int {
	n := 0
	for _, c := range k {
		if c == o {
			n++
		}
	}
	return n
}

// Sampler draws unique words for a board.
type Sampler interface {
	Sample(n int) ([]string, error)
}

// Draw pulls the 25 board words from a sampler, index-aligned with the key.
func Draw(s Sampler) ([]string, error) {
	return s.Sample(Size)
}
