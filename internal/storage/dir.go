package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dir implements Provider backed by a single local directory.
type Dir struct {
	root string // absolute path to the directory
}

// NewDir creates a Dir provider rooted at the given directory, creating it
// if necessary.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory path.
func (d *Dir) Root() string {
	return d.root
}

// safeName validates that name is a plain base name (no path separators,
// no traversal) and returns the absolute path under the root.
func (d *Dir) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: name is required")
	}
	cleaned := filepath.Clean(name)
	// Base-name equality rules out separators and traversal segments;
	// "." and ".." themselves survive Clean and need explicit rejection.
	// Interior dot runs ("my..photo.png") are plain names and stay legal.
	if cleaned != filepath.Base(cleaned) || cleaned == "." || cleaned == ".." {
		return "", fmt.Errorf("storage: invalid name: %s", name)
	}
	abs := filepath.Join(d.root, cleaned)
	// Ensure the resolved path is still under root.
	if !strings.HasPrefix(abs, d.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: name escapes root: %s", name)
	}
	return abs, nil
}

// List returns metadata for every regular file matching the extension filter,
// sorted by name.
func (d *Dir) List(exts ...string) ([]FileInfo, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = struct{}{}
	}
	var out []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(allowed) > 0 {
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if _, ok := allowed[ext]; !ok {
				continue
			}
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", entry.Name(), err)
		}
		data, err := os.ReadFile(filepath.Join(d.root, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", entry.Name(), err)
		}
		out = append(out, FileInfo{
			Name:      entry.Name(),
			Checksum:  checksum(data),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Read returns the raw bytes of one file.
func (d *Dir) Read(name string) ([]byte, error) {
	abs, err := d.safeName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Write atomically replaces a file: temp file → fsync → rename.
func (d *Dir) Write(name string, content []byte) error {
	abs, err := d.safeName(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.root, ".wunjo-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes a file from the directory.
func (d *Dir) Delete(name string) error {
	abs, err := d.safeName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
