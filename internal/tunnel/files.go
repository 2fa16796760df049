package tunnel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxChunkSize is the largest slice of a file returned per TXT query; it is
// the character-string limit of a TXT segment.
const MaxChunkSize = 255

// FileStore serves files chunk by chunk over TXT queries. Files are loaded
// into memory once at startup and looked up by lowercased base name, so the
// store is safe for concurrent reads with no locking.
type FileStore struct {
	files map[string][]byte
}

// NewFileStore loads every regular file in dir.
func NewFileStore(dir string) (*FileStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading file store dir: %w", err)
	}
	files := make(map[string][]byte, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading file store entry %s: %w", e.Name(), err)
		}
		files[strings.ToLower(e.Name())] = data
	}
	return &FileStore{files: files}, nil
}

// NewFileStoreFromMap builds a store directly from in-memory contents.
func NewFileStoreFromMap(files map[string][]byte) *FileStore {
	m := make(map[string][]byte, len(files))
	for k, v := range files {
		m[strings.ToLower(k)] = v
	}
	return &FileStore{files: m}
}

// Len returns the number of files loaded.
func (fs *FileStore) Len() int { return len(fs.files) }

// Chunk resolves a request key of the form "<file>-<n>" to the n-th
// MaxChunkSize slice of the named file. A key without a chunk suffix means
// chunk zero. The chunk just past the end of a file resolves to an empty
// slice, which tells the client the transfer is complete; anything further
// out, or an unknown file, fails the lookup.
func (fs *FileStore) Chunk(key string) ([]byte, bool) {
	name, n := splitChunkKey(key)
	if n < 0 {
		return nil, false
	}
	data, ok := fs.files[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	start := n * MaxChunkSize
	if start > len(data) {
		return nil, false
	}
	end := min(start+MaxChunkSize, len(data))
	return data[start:end], true
}

// splitChunkKey splits "<file>-<n>" on the last dash, so file names may
// themselves contain dashes. A key without any dash means chunk 0; a suffix
// that is not a non-negative integer returns -1 and fails the lookup.
func splitChunkKey(key string) (string, int) {
	i := strings.LastIndexByte(key, '-')
	if i < 0 {
		return key, 0
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil || n < 0 {
		return "", -1
	}
	return key[:i], n
}
