package gallery

import (
	"log/slog"

	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/storage"
)

// Sync reconciles the index with the wallpaper directory:
//   - new or changed image files are upserted
//   - rows whose files no longer exist on disk are removed
func Sync(db Index, files storage.Provider, logger *slog.Logger) error {
	infos, err := files.List(imageExts...)
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		disk[info.Name] = struct{}{}

		if checksums[info.Name] == info.Checksum {
			continue
		}
		if err := db.Upsert(models.WallpaperInfo(info)); err != nil {
			logger.Warn("gallery sync: upsert failed",
				slog.String("name", info.Name), slog.String("error", err.Error()))
		} else {
			logger.Debug("gallery sync: indexed", slog.String("name", info.Name))
		}
	}

	// Remove stale rows.
	for name := range checksums {
		if _, ok := disk[name]; !ok {
			if err := db.Remove(name); err != nil {
				logger.Warn("gallery sync: remove failed",
					slog.String("name", name), slog.String("error", err.Error()))
			} else {
				logger.Debug("gallery sync: removed stale", slog.String("name", name))
			}
		}
	}

	return nil
}
