package gallery

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/storage"
)

// URLPrefix is where the HTTP layer serves stored wallpaper files.
const URLPrefix = "/images/wallpapers/"

// imageExts are the file extensions recognized as wallpapers.
var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// SaveResult reports where an accepted wallpaper ended up.
type SaveResult struct {
	URL      string
	External bool
}

// Service stores wallpapers on disk and serves listings from the index.
type Service struct {
	files storage.Provider
	db    Index
	now   func() time.Time // overridable in tests
}

// NewService creates a wallpaper service over the given directory and index.
func NewService(files storage.Provider, db Index) *Service {
	return &Service{files: files, db: db, now: time.Now}
}

// Save accepts either a base64 image data URI, which is decoded and stored
// under a timestamped name, or a plain http(s) URL, which is passed through
// untouched as an external wallpaper. Anything else is InvalidInput.
func (s *Service) Save(imageData, fileName string) (*SaveResult, error) {
	if imageData == "" {
		return nil, fmt.Errorf("%w: image data is required", apperr.ErrInvalidInput)
	}

	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		return &SaveResult{URL: imageData, External: true}, nil
	}

	ext, raw, err := decodeDataURI(imageData)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UnixMilli()
	name := fmt.Sprintf("wallpaper_%d.%s", stamp, ext)
	if cleaned := sanitizeName(fileName); cleaned != "" {
		name = fmt.Sprintf("wallpaper_%d_%s", stamp, cleaned)
		// The client name decides the extension; fall back to the data
		// URI's when it carries none the index would recognize.
		if !isImageName(name) {
			name += "." + ext
		}
	}

	if err := s.files.Write(name, raw); err != nil {
		return nil, fmt.Errorf("gallery: save wallpaper: %w", err)
	}
	// Index right away; the watcher would also pick the file up, but the
	// very next GET must already see it.
	s.indexFile(name)

	return &SaveResult{URL: URLPrefix + name, External: false}, nil
}

// List returns the URL of every stored wallpaper, served from the index.
func (s *Service) List() ([]string, error) {
	infos, err := s.db.List()
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(infos))
	for i, w := range infos {
		urls[i] = URLPrefix + w.Name
	}
	return urls, nil
}

// Delete removes a stored wallpaper. The name is reduced to its base name
// first; a name that was not plain to begin with is rejected. Deleting a
// file that is already gone succeeds.
func (s *Service) Delete(filename string) error {
	safe := path.Base(filename)
	if safe != filename || safe == "." || safe == "/" {
		return fmt.Errorf("%w: invalid wallpaper name %q", apperr.ErrInvalidInput, filename)
	}
	if err := s.files.Delete(safe); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = s.db.Remove(safe)
			return nil
		}
		return err
	}
	return s.db.Remove(safe)
}

// indexFile stats one stored file and upserts its index row.
func (s *Service) indexFile(name string) {
	data, err := s.files.Read(name)
	if err != nil {
		return
	}
	_ = s.db.Upsert(models.WallpaperInfo{
		Name:      name,
		Checksum:  checksum(data),
		Size:      int64(len(data)),
		UpdatedAt: s.now(),
	})
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
