package watcher

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Fingerprints remembers a content hash per file so that events which leave a file unchanged can be dropped.
type Fingerprints struct {
	mu   sync.Mutex
	sums map[string]uint64
}

// NewFingerprints creates an empty fingerprint set.
func NewFingerprints() *Fingerprints {
	return &Fingerprints{sums: make(map[string]uint64)}
}

// Prime records the current content of every regular file under root.
func (f *Fingerprints) Prime(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are fingerprinted on first event
		}
		if d.IsDir() {
			if shouldSkipDirectories[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if sum, ok := hashFile(path); ok {
			f.mu.Lock()
			f.sums[path] = sum
			f.mu.Unlock()
		}
		return nil
	})
}

// Changed reports whether path differs from its last recorded content and records the new state.
// Removed files, directories and files seen for the first time count as changed.
func (f *Fingerprints) Changed(path string) bool {
	sum, ok := hashFile(path)

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, known := f.sums[path]
	if !ok {
		delete(f.sums, path)
		return true
	}
	f.sums[path] = sum
	return !known || prev != sum
}

// Filter returns the paths that Changed reports as changed.
func (f *Fingerprints) Filter(paths []string) []string {
	var changed []string
	for _, p := range paths {
		if f.Changed(p) {
			changed = append(changed, p)
		}
	}
	return changed
}

func hashFile(path string) (uint64, bool) {
	file, err := os.Open(path) //nolint:gosec // paths come from the watched tree
	if err != nil {
		return 0, false
	}
	defer func() { _ = file.Close() }()

	h := xxhash.New()
	// Reading a directory fails here.
	if _, err := io.Copy(h, file); err != nil {
		return 0, false
	}
	return h.Sum64(), true
}
