package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileVersion is the current version of the backend file format.
const FileVersion = 1

// fileData is the on-disk representation: namespaces mapping keys to raw
// values. encoding/json stores []byte values as base64 strings.
type fileData struct {
	// Version is the file format version.
	Version int `json:"version"`

	// Namespaces maps namespace -> key -> value.
	Namespaces map[string]map[string][]byte `json:"namespaces,omitempty"`
}

// FileBackend persists records to a single JSON file.
//
// Writes go through a temp file followed by a rename, so a crash mid-write
// leaves the previous file contents intact and never a half-written store.
// FileBackend is safe for concurrent use.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend creates a file backend storing records at path.
// The file is created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Set stores value under (namespace, key).
func (b *FileBackend) Set(namespace, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := b.load()
	if err != nil {
		return err
	}

	ns, ok := data.Namespaces[namespace]
	if !ok {
		ns = make(map[string][]byte)
		data.Namespaces[namespace] = ns
	}
	ns[key] = value

	return b.save(data)
}

// Get returns the value under (namespace, key) or ErrKeyNotFound.
func (b *FileBackend) Get(namespace, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := b.load()
	if err != nil {
		return nil, err
	}

	value, ok := data.Namespaces[namespace][key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	if value == nil {
		// A present record with an empty value decodes as nil; keep the
		// absent/empty distinction visible to callers.
		value = []byte{}
	}
	return value, nil
}

// Erase removes the record under (namespace, key) or returns
// ErrKeyNotFound.
func (b *FileBackend) Erase(namespace, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := b.load()
	if err != nil {
		return err
	}

	if _, ok := data.Namespaces[namespace][key]; !ok {
		return ErrKeyNotFound
	}
	delete(data.Namespaces[namespace], key)

	return b.save(data)
}

// load reads the backend file. A missing file reads as an empty store.
func (b *FileBackend) load() (*fileData, error) {
	raw, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return &fileData{Version: FileVersion, Namespaces: make(map[string]map[string][]byte)}, nil
	}
	if err != nil {
		return nil, err
	}

	data := &fileData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("corrupt credential file %s: %w", b.path, err)
	}
	if data.Namespaces == nil {
		data.Namespaces = make(map[string]map[string][]byte)
	}
	return data, nil
}

// save writes the backend file atomically via temp file + rename.
func (b *FileBackend) save(data *fileData) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data.Version = FileVersion
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".credstore-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Backend = (*FileBackend)(nil)
