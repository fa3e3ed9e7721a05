package appid

import (
	"hash/crc32"
	"strings"
)

// highBit marks the identifier as a non-Steam shortcut.
const highBit = 0x80000000

// Compute returns the shortcut identifier for a display name and a quoted
// executable path. The inputs are concatenated exe-first without a separator
// and lowercased before hashing. The checksum runs over the UTF-8 bytes of the
// lowered string, which is what the Steam client hashes for shortcut ids.
func Compute(name, quotedExe string) uint32 {
	input := strings.ToLower(quotedExe + name)
	return crc32.ChecksumIEEE([]byte(input)) | highBit
}

// ForCandidate computes the identifier for an unquoted executable path.
func ForCandidate(name, exePath string) uint32 {
	return Compute(name, Quote(exePath))
}

// Quote wraps value in double quotes unless it is already quoted.
func Quote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value
	}
	return `"` + value + `"`
}

// Unquote strips one pair of surrounding double quotes.
func Unquote(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		return trimmed[1 : len(trimmed)-1]
	}
	return trimmed
}

// RunGameID returns the 64-bit game id used by steam://rungameid/ links.
func RunGameID(id uint32) uint64 {
	return uint64(id)<<32 | 0x02000000
}
