package steam

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
)

// steamID64Base is the offset between a SteamID64 and the 32-bit account id
// used for userdata directory names.
const steamID64Base uint64 = 76561197960265728

// AccountID converts a SteamID64 to the 32-bit account id. Values that are
// already account ids, or not numeric, are returned trimmed.
func AccountID(id string) string {
	id = strings.TrimSpace(id)
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n < steamID64Base {
		return id
	}
	return strconv.FormatUint(n-steamID64Base, 10)
}

// MostRecentUser returns the SteamID64 flagged MostRecent in loginusers.vdf,
// or "" when none is flagged.
func MostRecentUser(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	parsed, err := vdf.NewParser(f).Parse()
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	users, ok := lookupMap(parsed, "users")
	if !ok {
		return "", nil
	}
	for id, raw := range users {
		user, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if flag, ok := lookupString(user, "MostRecent"); ok && strings.TrimSpace(flag) == "1" {
			return id, nil
		}
	}
	return "", nil
}

func lookupMap(m map[string]any, key string) (map[string]any, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			child, ok := v.(map[string]any)
			return child, ok
		}
	}
	return nil, false
}

func lookupString(m map[string]any, key string) (string, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			s, ok := v.(string)
			return s, ok
		}
	}
	return "", false
}
