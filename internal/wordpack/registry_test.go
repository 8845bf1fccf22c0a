package wordpack

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	packs []Pack
	err   error
}

func (s stubStore) LoadPacks() ([]Pack, error) { return s.packs, s.err }

func testRegistry(t *testing.T, packs ...Pack) *Registry {
	t.Helper()
	r, err := NewRegistry(stubStore{packs: packs}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return r
}

func words(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	return out
}

func TestNewRegistry_DefaultEnablement(t *testing.T) {
	r := testRegistry(t,
		Pack{Name: "classic", Words: words("c", 30)},
		Pack{Name: "duet", Words: words("d", 30)},
		Pack{Name: "innuendo", Words: words("i", 30)},
	)

	got := map[string]bool{}
	for _, p := range r.List() {
		got[p.Name] = p.Enabled
	}
	assert.True(t, got["classic"])
	assert.True(t, got["duet"])
	assert.False(t, got["innuendo"], "non-default packs start disabled")
}

func TestToggle_FlipsAndReports(t *testing.T) {
	r := testRegistry(t, Pack{Name: "innuendo", Words: words("i", 30)})

	on, err := r.Toggle("innuendo")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := r.Toggle("innuendo")
	require.NoError(t, err)
	assert.False(t, off, "two toggles land back where they started")
}

func TestToggle_UnknownPack(t *testing.T) {
	r := testRegistry(t, Pack{Name: "classic", Words: words("c", 30)})

	_, err := r.Toggle("nope")
	assert.True(t, errors.Is(err, ErrPackNotFound))
}

func TestSample_UniqueAndFromEnabledOnly(t *testing.T) {
	r := testRegistry(t,
		Pack{Name: "classic", Words: words("c", 40)},
		Pack{Name: "innuendo", Words: words("i", 40)}, // disabled
	)

	got, err := r.Sample(25)
	require.NoError(t, err)
	require.Len(t, got, 25)

	seen := map[string]bool{}
	for _, w := range got {
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
		assert.Equal(t, byte('c'), w[0], "word %q drawn from a disabled pack", w)
	}
}

func TestSample_InsufficientWords(t *testing.T) {
	r := testRegistry(t, Pack{Name: "classic", Words: words("c", 10)})

	_, err := r.Sample(25)
	assert.True(t, errors.Is(err, ErrInsufficientWords))
}

func TestEnabledWordCount_DeduplicatesAcrossPacks(t *testing.T) {
	r := testRegistry(t,
		Pack{Name: "classic", Words: []string{"Apple", "Bear", "Crown"}},
		Pack{Name: "duet", Words: []string{"Crown", "Delta"}},
	)

	assert.Equal(t, 4, r.EnabledWordCount())
}
