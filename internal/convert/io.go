package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrIO is returned when an input cannot be read or an output cannot be
// written.
var ErrIO = errors.New("i/o error")

// loadFile reads a whole file. An empty file counts as a failed load.
func loadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load '%s': %w", ErrIO, path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: could not load '%s': file is empty", ErrIO, path)
	}
	return data, nil
}

// saveFile writes data to path, creating the parent directory.
func saveFile(data []byte, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: could not save '%s': %w", ErrIO, path, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: could not save '%s': %w", ErrIO, path, err)
	}
	return nil
}

// outputPaths derives the output file names from the input stem.
func outputPaths(input, dir string) (bin, doc, dump string) {
	base := filepath.Base(input)
	stem := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(dir, stem+".bin"),
		filepath.Join(dir, stem+".gltf"),
		filepath.Join(dir, stem+"_dump.ply")
}
