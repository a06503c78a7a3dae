// Package storage defines the flat-directory file abstraction used for the
// data documents (links.json, auth.json) and the wallpaper directory.
package storage

import "time"

// FileInfo is lightweight metadata for one stored file.
type FileInfo struct {
	Name      string
	Checksum  string
	Size      int64
	UpdatedAt time.Time
}

// Provider is the interface for file operations within one directory.
// Names are plain base names; implementations must reject anything else.
type Provider interface {
	// List returns metadata for every regular file in the directory whose
	// lowercased extension is in exts. An empty exts lists everything.
	List(exts ...string) ([]FileInfo, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically replaces the named file with content.
	Write(name string, content []byte) error
	// Delete removes the named file.
	Delete(name string) error
}
