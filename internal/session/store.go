package session

import (
	"encoding/json"
	"os"
	"sync"
)

// Store persists small key/value flags. An absent key means "inactive",
// not an error. Implementations may fail (storage disabled, disk full);
// the Manager tolerates that by keeping state in memory.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore keeps the flags in a single JSON file, written through on
// every mutation.
type FileStore struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// NewFileStore opens (or creates on first write) the state file at path.
// A missing file yields an empty store.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, values: make(map[string]string)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&fs.values); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.values[key]
	return v, ok
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values[key] = value
	return fs.save()
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.values, key)
	return fs.save()
}

// save rewrites the whole file; callers hold fs.mu.
func (fs *FileStore) save() error {
	f, err := os.Create(fs.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(fs.values)
}

// MemStore is an in-memory Store used as a fallback and in tests.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (ms *MemStore) Get(key string) (string, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	v, ok := ms.values[key]
	return v, ok
}

func (ms *MemStore) Set(key, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.values[key] = value
	return nil
}

func (ms *MemStore) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.values, key)
	return nil
}
