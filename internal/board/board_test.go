package board

import (
	"math/rand"
	"testing"
)

func TestNewKey_Composition(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		k := NewKey(rng)

		red, blue := k.Count(OwnerRed), k.Count(OwnerBlue)
		if k.Count(OwnerAssassin) != 1 {
			t.Fatalf("seed %d: want 1 assassin, got %d", seed, k.Count(OwnerAssassin))
		}
		if k.Count(OwnerInnocent) != 7 {
			t.Fatalf("seed %d: want 7 innocents, got %d", seed, k.Count(OwnerInnocent))
		}
		if !(red == 9 && blue == 8) && !(red == 8 && blue == 9) {
			t.Fatalf("seed %d: want 9/8 split, got red=%d blue=%d", seed, red, blue)
		}
		if red+blue+7+1 != Size {
			t.Fatalf("seed %d: cells don't sum to %d", seed, Size)
		}
	}
}

func TestNewKey_StartingTeamHoldsNineCells(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		k := NewKey(rng)

		start := k.StartingTeam()
		if k.Count(Owner(start)) != 9 {
			t.Fatalf("seed %d: starting team %s holds %d cells, want 9",
				seed, start, k.Count(Owner(start)))
		}
		if k.Count(Owner(start.Opponent())) != 8 {
			t.Fatalf("seed %d: opposing team holds %d cells, want 8",
				seed, k.Count(Owner(start.Opponent())))
		}
	}
}

func TestNewKey_BothTeamsCanStart(t *testing.T) {
	seen := map[Team]bool{}
	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		seen[NewKey(rng).StartingTeam()] = true
	}
	if !seen[TeamRed] || !seen[TeamBlue] {
		t.Fatalf("bonus cell never varied across 100 seeds: %v", seen)
	}
}

type fixedSampler struct {
	words []string
	err   error
}

func (f fixedSampler) Sample(n int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.words[:n], nil
}

func TestDraw_PullsBoardSizeWords(t *testing.T) {
	words := make([]string, Size+5)
	for i := range words {
		words[i] = string(rune('a' + i))
	}

	got, err := Draw(fixedSampler{words: words})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != Size {
		t.Fatalf("want %d words, got %d", Size, len(got))
	}
}
