package artwork

import (
	"fmt"
	"path/filepath"
	"slices"
)

// Kind names one artwork slot.
type Kind string

const (
	KindGrid     Kind = "grid"
	KindGridWide Kind = "gridWide"
	KindHero     Kind = "hero"
	KindLogo     Kind = "logo"
	KindIcon     Kind = "icon"
)

// AllKinds lists every kind in fetch order.
var AllKinds = Kinds{KindGrid, KindGridWide, KindHero, KindLogo, KindIcon}

// AcceptedExtensions are the extensions Steam loads from the grid directory.
var AcceptedExtensions = []string{".png", ".jpg", ".jpeg"}

// legacyExtension marks files written by older releases that Steam ignores.
const legacyExtension = ".webp"

// Kinds is an ordered set of kinds.
type Kinds []Kind

// Contains reports whether k is in the set.
func (ks Kinds) Contains(k Kind) bool { return slices.Contains(ks, k) }

// Suffix is the file name suffix following the appid.
func (k Kind) Suffix() string {
	switch k {
	case KindGrid:
		return "_p"
	case KindHero:
		return "_hero"
	case KindLogo:
		return "_logo"
	case KindIcon:
		return "_icon"
	default:
		return ""
	}
}

// Size returns the exact pixel size Steam expects. ok is false for kinds
// without a size requirement.
func (k Kind) Size() (width, height int, ok bool) {
	switch k {
	case KindGrid:
		return 600, 900, true
	case KindGridWide:
		return 460, 215, true
	case KindHero:
		return 3840, 1240, true
	case KindIcon:
		return 256, 256, true
	default:
		return 0, 0, false
	}
}

// FileName returns {appID}{suffix}{ext}.
func FileName(appID uint32, kind Kind, ext string) string {
	return fmt.Sprintf("%d%s%s", appID, kind.Suffix(), ext)
}

// Path returns the PNG location for kind inside dir.
func Path(dir string, appID uint32, kind Kind) string {
	return filepath.Join(dir, FileName(appID, kind, ".png"))
}
