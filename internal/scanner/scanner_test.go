package scanner_test

import (
	"context"
	"path/filepath"
	"slices"
	"sort"
	"testing"

	"steamsyncer/internal/config"
	"steamsyncer/internal/games"
	"steamsyncer/internal/scanner"
	"steamsyncer/internal/testsupport"
)

func TestScanPicksLargestExecutableAndSkipsInstallers(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(rootA, "Alpha", "alpha.exe"), 4096)
	testsupport.WriteFile(t, filepath.Join(rootA, "Alpha", "Setup.exe"), 8192)
	testsupport.WriteFile(t, filepath.Join(rootB, "Beta", "bin", "beta.exe"), 2048)
	testsupport.WriteFile(t, filepath.Join(rootB, "Beta", "Setup.exe"), 9000)

	s := scanner.New(nil)
	got := s.Scan(context.Background(), []scanner.Folder{
		{Path: rootA, Source: games.SourceCustom},
		{Path: rootB},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	sort.Slice(got, func(i, j int) bool { return got[i].Name < got[j].Name })

	if got[0].Name != "Alpha" || filepath.Base(got[0].ExePath) != "alpha.exe" {
		t.Fatalf("unexpected first candidate: %+v", got[0])
	}
	if got[0].StartDir != filepath.Join(rootA, "Alpha") {
		t.Fatalf("unexpected start dir: %q", got[0].StartDir)
	}
	if got[1].Name != "Beta" || got[1].ExePath != filepath.Join(rootB, "Beta", "bin", "beta.exe") {
		t.Fatalf("unexpected second candidate: %+v", got[1])
	}
	if got[1].StartDir != filepath.Join(rootB, "Beta", "bin") {
		t.Fatalf("expected start dir to be exe dir, got %q", got[1].StartDir)
	}
	if got[1].Source != games.SourceCustom {
		t.Fatalf("expected empty source to default to custom, got %q", got[1].Source)
	}
}

func TestScanLargestWins(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "Game", "tool.exe"), 100)
	testsupport.WriteFile(t, filepath.Join(root, "Game", "game.exe"), 5000)
	testsupport.WriteFile(t, filepath.Join(root, "Game", "readme.txt"), 90000)

	got := scanner.New(nil).Scan(context.Background(), []scanner.Folder{{Path: root, Source: games.SourceGOG}})
	if len(got) != 1 || filepath.Base(got[0].ExePath) != "game.exe" {
		t.Fatalf("expected game.exe, got %+v", got)
	}
	if got[0].Source != games.SourceGOG {
		t.Fatalf("expected gog source, got %q", got[0].Source)
	}
}

func TestScanRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "Deep", "a", "b", "c", "deep.exe"), 100)

	s := scanner.New(nil)
	if got := s.Scan(context.Background(), []scanner.Folder{{Path: root}}); len(got) != 0 {
		t.Fatalf("expected nothing within depth 2, got %+v", got)
	}
	s.MaxDepth = 3
	if got := s.Scan(context.Background(), []scanner.Folder{{Path: root}}); len(got) != 1 {
		t.Fatalf("expected exe at depth 3, got %+v", got)
	}
}

func TestScanSkipsMissingAndDuplicateRoots(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "Game", "game.exe"), 10)

	got := scanner.New(nil).Scan(context.Background(), []scanner.Folder{
		{Path: filepath.Join(root, "missing")},
		{Path: root},
		{Path: root + string(filepath.Separator)},
		{Path: ""},
	})
	if len(got) != 1 {
		t.Fatalf("expected a single candidate, got %+v", got)
	}
}

func TestScanStopsOnCancelledContext(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "Game", "game.exe"), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := scanner.New(nil).Scan(ctx, []scanner.Folder{{Path: root}}); len(got) != 0 {
		t.Fatalf("expected no candidates after cancel, got %+v", got)
	}
}

func TestAccept(t *testing.T) {
	s := scanner.New(nil)
	cases := map[string]bool{
		"game.exe":                true,
		"GAME.EXE":                true,
		"unins000.exe":            false,
		"UnityCrashHandler64.exe": false,
		"vc_redist.x64.exe":       false,
		"EasyAntiCheat_Setup.exe": false,
		"game.dll":                false,
		"game":                    false,
	}
	for name, want := range cases {
		if got := s.Accept(name); got != want {
			t.Errorf("Accept(%q) = %v, want %v", name, got, want)
		}
	}

	custom := &scanner.Scanner{Extensions: []string{".sh"}, Denylist: []string{}}
	if !custom.Accept("setup.sh") {
		t.Fatal("expected empty denylist to accept everything with a matching extension")
	}
	if custom.Accept("game.exe") {
		t.Fatal("expected custom extensions to replace defaults")
	}
}

func TestDefaultDenylistMatchesConfig(t *testing.T) {
	ignore := config.DefaultIgnore()
	if got := scanner.New(nil).Denylist; !slices.Equal(got, ignore) {
		t.Fatalf("scanner denylist %v differs from config default %v", got, ignore)
	}
	if got := config.Default().Scan.Ignore; !slices.Equal(got, ignore) {
		t.Fatalf("default config ignore list %v differs from %v", got, ignore)
	}
	var zero scanner.Scanner
	for _, pattern := range ignore {
		name := "My" + pattern + ".exe"
		if zero.Accept(name) {
			t.Fatalf("zero-value scanner accepted %q", name)
		}
	}
	if !zero.Accept("Game.exe") {
		t.Fatal("zero-value scanner rejected a plain game executable")
	}
}

func TestKnownStoreFolders(t *testing.T) {
	if got := scanner.KnownStoreFolders("linux"); len(got) != 0 {
		t.Fatalf("expected no known stores on linux, got %+v", got)
	}
	got := scanner.KnownStoreFolders("windows")
	var epic, gog int
	for _, folder := range got {
		switch folder.Source {
		case games.SourceEpic:
			epic++
		case games.SourceGOG:
			gog++
		}
	}
	if epic == 0 || gog == 0 {
		t.Fatalf("expected epic and gog roots, got %+v", got)
	}
}
