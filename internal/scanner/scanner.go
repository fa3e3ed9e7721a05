package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"steamsyncer/internal/config"
	"steamsyncer/internal/games"
	"steamsyncer/internal/logging"
)

// DefaultMaxDepth is the number of directory levels walked below a game folder.
const DefaultMaxDepth = config.DefaultScanMaxDepth

// Fallbacks for a zero Scanner; config owns the lists.
var (
	defaultExtensions = config.DefaultExtensions()
	defaultDenylist   = config.DefaultIgnore()
)

// Folder is a scan root and the store it belongs to.
type Folder struct {
	Path   string
	Source games.Source
}

// Scanner walks game folders. The zero value uses the package defaults.
type Scanner struct {
	MaxDepth   int
	Extensions []string
	Denylist   []string
	Logger     *slog.Logger
}

// New returns a Scanner with the package defaults.
func New(logger *slog.Logger) *Scanner {
	return &Scanner{
		MaxDepth:   DefaultMaxDepth,
		Extensions: config.DefaultExtensions(),
		Denylist:   config.DefaultIgnore(),
		Logger:     logger,
	}
}

// Accept reports whether a file name qualifies as a game executable.
func (s *Scanner) Accept(name string) bool {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	if ext == "" {
		return false
	}
	matched := false
	for _, want := range s.extensions() {
		if ext == want {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	base := strings.TrimSuffix(lower, ext)
	for _, marker := range s.denylist() {
		if strings.Contains(base, marker) {
			return false
		}
	}
	return true
}

// Scan returns one candidate per game folder found below the given roots.
// Roots are visited once even when listed twice. A cancelled context stops the
// walk between folders and returns what was found so far.
func (s *Scanner) Scan(ctx context.Context, folders []Folder) []games.Candidate {
	logger := logging.NewComponentLogger(s.Logger, "scanner")
	var candidates []games.Candidate
	seen := make(map[string]struct{}, len(folders))

	for _, folder := range folders {
		root := filepath.Clean(strings.TrimSpace(folder.Path))
		if root == "." || root == "" {
			continue
		}
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}

		entries, err := os.ReadDir(root)
		if err != nil {
			logger.Debug("scan folder skipped", logging.String("path", root), logging.Error(err))
			continue
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				return candidates
			}
			if !entry.IsDir() {
				continue
			}
			gameDir := filepath.Join(root, entry.Name())
			exe, ok := s.largestExecutable(gameDir)
			if !ok {
				continue
			}
			source := folder.Source
			if source == "" {
				source = games.SourceCustom
			}
			candidates = append(candidates, games.Candidate{
				Name:     entry.Name(),
				ExePath:  exe,
				StartDir: filepath.Dir(exe),
				Source:   source,
			})
		}
	}

	logger.Debug("scan complete", logging.Int("roots", len(seen)), logging.Int("found", len(candidates)))
	return candidates
}

type dirFrame struct {
	path  string
	depth int
}

// largestExecutable walks dir up to MaxDepth levels and returns the biggest
// accepted file. Unreadable subdirectories are skipped.
func (s *Scanner) largestExecutable(dir string) (string, bool) {
	var (
		bestPath string
		bestSize int64 = -1
	)
	maxDepth := s.maxDepth()
	stack := []dirFrame{{path: dir, depth: 0}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(frame.path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			full := filepath.Join(frame.path, entry.Name())
			if entry.IsDir() {
				if frame.depth+1 <= maxDepth {
					stack = append(stack, dirFrame{path: full, depth: frame.depth + 1})
				}
				continue
			}
			if !s.Accept(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if info.Size() > bestSize {
				bestSize = info.Size()
				bestPath = full
			}
		}
	}
	return bestPath, bestSize >= 0
}

func (s *Scanner) maxDepth() int {
	if s.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return s.MaxDepth
}

func (s *Scanner) extensions() []string {
	if len(s.Extensions) == 0 {
		return defaultExtensions
	}
	return s.Extensions
}

func (s *Scanner) denylist() []string {
	if s.Denylist == nil {
		return defaultDenylist
	}
	return s.Denylist
}

// KnownStoreFolders returns the default install roots of third-party stores
// for the given operating system. Only Windows has well-known locations.
func KnownStoreFolders(goos string) []Folder {
	if goos != "windows" {
		return nil
	}
	programFiles := envOr("ProgramFiles", `C:\Program Files`)
	programFilesX86 := envOr("ProgramFiles(x86)", `C:\Program Files (x86)`)
	folders := []Folder{
		{Path: filepath.Join(programFiles, "Epic Games"), Source: games.SourceEpic},
		{Path: filepath.Join(programFilesX86, "Epic Games"), Source: games.SourceEpic},
		{Path: filepath.Join(programFiles, "GOG Galaxy", "Games"), Source: games.SourceGOG},
		{Path: filepath.Join(programFilesX86, "GOG Galaxy", "Games"), Source: games.SourceGOG},
		{Path: `C:\GOG Games`, Source: games.SourceGOG},
	}
	return folders
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
