package wordpack

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"
)

var ErrPackNotFound = errors.New("word pack not found")
var ErrInsufficientWords = errors.New("not enough unique words in enabled packs")

// Pack is one named word list. Enabled packs contribute to board generation.
type Pack struct {
	Name    string
	Words   []string
	Enabled bool
}

// Store loads packs from whatever backs them (a directory of .txt files, a
// database table). Enabled state is applied by the registry, not the store.
type Store interface {
	LoadPacks() ([]Pack, error)
}

// Registry owns the loaded packs and their enabled state. One instance is
// constructed at startup and shared by every session; all access goes through
// the mutex since admin toggles race with board generation.
type Registry struct {
	mu    sync.Mutex
	packs map[string]*Pack
	order []string
	rng   *rand.Rand
}

// defaultEnabled lists the packs that start enabled; everything else is
// opt-in via toggle.
var defaultEnabled = map[string]bool{
	"classic": true,
	"duet":    true,
}

// NewRegistry loads all packs from the store. A nil rng falls back to a
// time-seeded source; tests inject a fixed seed.
func NewRegistry(store Store, rng *rand.Rand) (*Registry, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	loaded, err := store.LoadPacks()
	if err != nil {
		return nil, err
	}

	r := &Registry{
		packs: make(map[string]*Pack, len(loaded)),
		rng:   rng,
	}
	for i := range loaded {
		p := loaded[i]
		p.Enabled = defaultEnabled[p.Name]
		r.packs[p.Name] = &p
		r.order = append(r.order, p.Name)
	}
	sort.Strings(r.order)
	return r, nil
}

// Toggle flips a pack's enabled state and returns the new state.
func (r *Registry) Toggle(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.packs[name]
	if !ok {
		return false, ErrPackNotFound
	}
	p.Enabled = !p.Enabled
	return p.Enabled, nil
}

// PackInfo is a read-only view of one pack for the packs listing.
type PackInfo struct {
	Name    string
	Enabled bool
	Words   int
}

// List returns all packs in stable name order.
func (r *Registry) List() []PackInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]PackInfo, 0, len(r.order))
	for _, name := range r.order {
		p := r.packs[name]
		out = append(out, PackInfo{Name: p.Name, Enabled: p.Enabled, Words: len(p.Words)})
	}
	return out
}

// Sample returns n unique words drawn uniformly from the union of all enabled
// packs' words.
func (r *Registry) Sample(n int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool := r.enabledUnion()
	if len(pool) < n {
		return nil, ErrInsufficientWords
	}
	r.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n], nil
}

// EnabledWordCount reports the number of unique words available for sampling.
func (r *Registry) EnabledWordCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.enabledUnion())
}

// caller must hold r.mu
func (r *Registry) enabledUnion() []string {
	seen := make(map[string]struct{})
	var pool []string
	for _, name := range r.order {
		p := r.packs[name]
		if !p.Enabled {
			continue
		}
		for _, w := range p.Words {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			pool = append(pool, w)
		}
	}
	return pool
}
