package artwork

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	_ "golang.org/x/image/webp"
)

// MissingKinds reports the kinds with no usable file for appID in dir. A file
// counts only when it has an accepted extension and, for sized kinds, decodes
// to exactly the expected dimensions. Legacy .webp files without an accepted
// sibling are removed as a side effect; removal errors are ignored. A missing
// directory means everything is missing.
func MissingKinds(dir string, appID uint32) (Kinds, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return append(Kinds(nil), AllKinds...), nil
	case err != nil:
		return nil, fmt.Errorf("stat artwork dir: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("artwork dir %s is not a directory", dir)
	}

	var missing Kinds
	for _, kind := range AllKinds {
		if !present(dir, appID, kind) {
			missing = append(missing, kind)
		}
		cleanupLegacy(dir, appID, kind)
	}
	return missing, nil
}

func present(dir string, appID uint32, kind Kind) bool {
	width, height, sized := kind.Size()
	for _, ext := range AcceptedExtensions {
		path := filepath.Join(dir, FileName(appID, kind, ext))
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if !sized {
			return true
		}
		if w, h, ok := dimensions(path); ok && w == width && h == height {
			return true
		}
	}
	return false
}

func dimensions(path string) (int, int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func cleanupLegacy(dir string, appID uint32, kind Kind) {
	legacy := filepath.Join(dir, FileName(appID, kind, legacyExtension))
	if _, err := os.Stat(legacy); err != nil {
		return
	}
	for _, ext := range AcceptedExtensions {
		if _, err := os.Stat(filepath.Join(dir, FileName(appID, kind, ext))); err == nil {
			return
		}
	}
	_ = os.Remove(legacy)
}
