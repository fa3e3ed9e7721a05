package artwork

import (
	"log/slog"
	"os"
	"path/filepath"

	"steamsyncer/internal/logging"
)

// Rename moves every artwork file for oldID to newID inside dir. A file is
// moved only when the destination does not exist yet. It returns the number
// of files moved; failures are logged and skipped.
func Rename(dir string, oldID, newID uint32, logger *slog.Logger) int {
	if oldID == newID {
		return 0
	}
	logger = logging.NewComponentLogger(logger, "artwork")
	moved := 0
	for _, kind := range AllKinds {
		for _, ext := range AcceptedExtensions {
			from := filepath.Join(dir, FileName(oldID, kind, ext))
			to := filepath.Join(dir, FileName(newID, kind, ext))
			if _, err := os.Stat(from); err != nil {
				continue
			}
			if _, err := os.Stat(to); err == nil {
				continue
			}
			if err := os.Rename(from, to); err != nil {
				logging.WarnWithContext(logger, "artwork rename failed", "rename_failed",
					logging.String("from", from),
					logging.String("to", to),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check grid directory permissions"),
				)
				continue
			}
			moved++
		}
	}
	if moved > 0 {
		logger.Info("artwork renamed",
			logging.Uint64("old_appid", uint64(oldID)),
			logging.AppID(newID),
			logging.Int("files", moved),
		)
	}
	return moved
}
