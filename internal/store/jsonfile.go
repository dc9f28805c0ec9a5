package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const filePermissions = 0o644

// JSONFile stores every key in a single JSON object on disk. The file is
// re-read on each call and each Set rewrites it whole. Writers of the same key
// from separate processes are not merged; the last Set wins.
type JSONFile struct {
	path string
}

// NewJSONFile returns a store backed by path. The file is created on first write.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the backing file.
func (s *JSONFile) Path() string {
	return s.path
}

func (s *JSONFile) Get(_ context.Context, key string) (string, bool, error) {
	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *JSONFile) Set(_ context.Context, key, value string) error {
	values, err := s.read()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	// A corrupt file is replaced rather than left blocking every write.
	if values == nil {
		values = make(map[string]string)
	}
	values[key] = value
	return s.write(values)
}

func (s *JSONFile) Delete(_ context.Context, key string) error {
	values, err := s.read()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if _, ok := values[key]; !ok && err == nil {
		return nil
	}
	delete(values, key)
	if values == nil {
		values = make(map[string]string)
	}
	return s.write(values)
}

func (s *JSONFile) Close() error { return nil }

func (s *JSONFile) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return make(map[string]string), nil
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return values, nil
}

func (s *JSONFile) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	temp, err := os.CreateTemp(dir, "floortime-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), s.path)
}
