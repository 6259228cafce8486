package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV is a key-value backend persisted as a single JSON file. The whole
// map is rewritten on every Set, via a temp file and rename so a crash
// mid-write never corrupts the previous state.
type FileKV struct {
	mu   sync.Mutex
	path string
	m    map[string]string
}

// OpenFileKV opens (or creates) the backend at path, loading any existing
// state.
func OpenFileKV(path string) (*FileKV, error) {
	kv := &FileKV{
		path: path,
		m:    make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return kv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if len(data) == 0 {
		return kv, nil
	}
	if err := json.Unmarshal(data, &kv.m); err != nil {
		return nil, fmt.Errorf("open store %s: decode: %w", path, err)
	}
	return kv, nil
}

// GetString returns the value for key and whether it exists.
func (kv *FileKV) GetString(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok
}

// Set stores value under key and flushes the store to disk.
func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.m[key] = value

	data, err := json.MarshalIndent(kv.m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if dir := filepath.Dir(kv.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, kv.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
