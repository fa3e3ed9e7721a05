package games

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"steamsyncer/internal/appid"
)

// Source identifies where a candidate was discovered.
type Source string

const (
	SourceCustom Source = "custom"
	SourceEpic   Source = "epic"
	SourceGOG    Source = "gog"
	SourceOther  Source = "other"
)

// ParseSource maps free-form text onto a known source, defaulting to other.
func ParseSource(value string) Source {
	switch Source(strings.ToLower(strings.TrimSpace(value))) {
	case SourceCustom:
		return SourceCustom
	case SourceEpic:
		return SourceEpic
	case SourceGOG:
		return SourceGOG
	default:
		return SourceOther
	}
}

// Candidate is a game installation discovered on disk. Candidates are
// recomputed on every sync and never persisted.
type Candidate struct {
	Name          string
	ExePath       string
	StartDir      string
	LaunchOptions string
	Source        Source
}

// Key returns the identity key of the candidate.
func (c Candidate) Key() string {
	return Key(c.Name, c.ExePath)
}

// AppID returns the shortcut identifier Steam will assign to the candidate.
func (c Candidate) AppID() uint32 {
	return appid.ForCandidate(c.Name, c.ExePath)
}

// LaunchOverride replaces the name, executable, and launch settings of a
// discovered game. Overrides are owned by the user and keyed like shortcuts.
type LaunchOverride struct {
	Key           string
	DisplayName   string
	ExePath       string
	StartDir      string
	LaunchOptions string
}

// Key builds the identity key shared by candidates, overrides, and shortcut
// entries: lowercase name and unquoted executable joined by "::".
func Key(name, exe string) string {
	lower := cases.Lower(language.Und)
	return lower.String(name) + "::" + lower.String(appid.Unquote(exe))
}

// ApplyOverrides returns the effective candidates after substituting matching
// overrides. The input slice is not modified.
func ApplyOverrides(candidates []Candidate, overrides map[string]LaunchOverride) []Candidate {
	if len(overrides) == 0 {
		out := make([]Candidate, len(candidates))
		copy(out, candidates)
		return out
	}
	out := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		override, ok := overrides[candidate.Key()]
		if !ok {
			out = append(out, candidate)
			continue
		}
		out = append(out, override.Apply(candidate))
	}
	return out
}

// Apply returns the candidate with the override's fields substituted.
func (o LaunchOverride) Apply(candidate Candidate) Candidate {
	effective := candidate
	if name := strings.TrimSpace(o.DisplayName); name != "" {
		effective.Name = name
	}
	if exe := strings.TrimSpace(o.ExePath); exe != "" {
		effective.ExePath = appid.Unquote(exe)
	}
	if dir := strings.TrimSpace(o.StartDir); dir != "" {
		effective.StartDir = appid.Unquote(dir)
	}
	effective.LaunchOptions = o.LaunchOptions
	return effective
}
