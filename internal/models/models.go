// Package models defines the domain types for Wunjo.
package models

import "time"

// Link is a single bookmark entry belonging to one category.
type Link struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Category is a named grouping holding an ordered list of links.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Links []Link `json:"links"`
}

// Collection is the top-level categorized link structure persisted as
// one JSON document.
type Collection struct {
	Categories []Category `json:"categories"`
}

// Credential is the persisted admin credential record. Field names match
// the on-disk auth.json format and are replaced wholesale on password change.
type Credential struct {
	PasswordHash string `json:"passwordHash"`
	Salt         string `json:"salt"`
}

// WallpaperInfo describes one wallpaper file as recorded in the gallery index.
type WallpaperInfo struct {
	Name      string    `json:"name"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
