package games_test

import (
	"testing"

	"steamsyncer/internal/games"
)

func TestKeyIgnoresQuotesAndCase(t *testing.T) {
	a := games.Key("Hollow Knight", `"C:\Games\HK\hollow_knight.exe"`)
	b := games.Key("HOLLOW KNIGHT", `c:\games\hk\HOLLOW_KNIGHT.exe`)
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if a != `hollow knight::c:\games\hk\hollow_knight.exe` {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestApplyOverrides(t *testing.T) {
	candidates := []games.Candidate{
		{Name: "Foo", ExePath: `/games/foo/foo.exe`, StartDir: `/games/foo`, Source: games.SourceCustom},
		{Name: "Bar", ExePath: `/games/bar/bar.exe`, StartDir: `/games/bar`, Source: games.SourceGOG},
	}
	overrides := map[string]games.LaunchOverride{
		games.Key("Foo", `/games/foo/foo.exe`): {
			DisplayName:   "Foo Deluxe",
			ExePath:       `/games/foo/bin/foo64.exe`,
			StartDir:      `/games/foo/bin`,
			LaunchOptions: "-windowed",
		},
	}

	effective := games.ApplyOverrides(candidates, overrides)
	if len(effective) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(effective))
	}
	foo := effective[0]
	if foo.Name != "Foo Deluxe" || foo.ExePath != `/games/foo/bin/foo64.exe` || foo.StartDir != `/games/foo/bin` || foo.LaunchOptions != "-windowed" {
		t.Fatalf("override not applied: %#v", foo)
	}
	if foo.Source != games.SourceCustom {
		t.Fatalf("expected source preserved, got %q", foo.Source)
	}
	if effective[1] != candidates[1] {
		t.Fatalf("unexpected change to non-overridden candidate: %#v", effective[1])
	}
	if candidates[0].Name != "Foo" {
		t.Fatal("input slice was mutated")
	}
}

func TestOverrideKeepsNameWhenDisplayNameBlank(t *testing.T) {
	got := games.LaunchOverride{ExePath: `"/x/y.exe"`}.Apply(games.Candidate{Name: "Keep", ExePath: "/old.exe"})
	if got.Name != "Keep" || got.ExePath != "/x/y.exe" {
		t.Fatalf("unexpected result %#v", got)
	}
}

func TestParseSource(t *testing.T) {
	if games.ParseSource(" Epic ") != games.SourceEpic {
		t.Fatal("expected epic")
	}
	if games.ParseSource("itch") != games.SourceOther {
		t.Fatal("expected other for unknown source")
	}
}
