package wordpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirStore reads packs from a directory of <name>.txt files, one word per
// line. This is the zero-infrastructure default.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) LoadPacks() ([]Pack, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("globbing word packs: %w", err)
	}

	var packs []Pack
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading word pack %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".txt")
		packs = append(packs, Pack{Name: name, Words: splitWords(string(data))})
	}
	return packs, nil
}

func splitWords(data string) []string {
	var words []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	return words
}

func joinWords(words []string) string {
	return strings.Join(words, "\n")
}
