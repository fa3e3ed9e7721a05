package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"steamsyncer/internal/steam"
	"steamsyncer/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckScanFolders(t *testing.T) {
	results := CheckScanFolders([]string{t.TempDir(), filepath.Join(t.TempDir(), "missing")})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Passed || results[1].Passed {
		t.Fatalf("unexpected results %+v", results)
	}
	if Failed(results) {
		t.Fatal("scan folder failures must not fail the report")
	}
	if empty := CheckScanFolders(nil); len(empty) != 1 || !empty[0].Passed {
		t.Fatalf("expected passing placeholder, got %+v", empty)
	}
}

func TestCheckCatalog_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	result := CheckCatalog(context.Background(), "good-key", srv.URL)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckCatalog_BadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := CheckCatalog(context.Background(), "bad-key", srv.URL)
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
	if !strings.Contains(result.Detail, "invalid api key") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckCatalog_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	result := CheckCatalog(context.Background(), "key", srv.URL)
	if result.Passed || result.Detail != "check failed (502)" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckAPIKeyIsOptional(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Artwork.APIKey = ""
	result := CheckAPIKey(cfg)
	if result.Passed || !result.Optional {
		t.Fatalf("expected optional failure, got %+v", result)
	}
	cfg.Artwork.APIKey = "key"
	if !CheckAPIKey(cfg).Passed {
		t.Fatal("expected pass with key")
	}
}

func TestRunAllWithPinnedInstall(t *testing.T) {
	install := testsupport.NewSteamInstall(t, 12345)
	cfg := testsupport.NewConfig(t, testsupport.WithSteamInstall(install.Root, ""))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg, nil)
	byName := make(map[string]Result, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	for _, name := range []string{"State directory", "Steam directory", "Steam profile", "Steam userdata"} {
		if r, ok := byName[name]; !ok || !r.Passed {
			t.Fatalf("expected %s to pass, got %+v", name, r)
		}
	}
	if !strings.Contains(byName["Steam profile"].Detail, "12345") {
		t.Fatalf("expected resolved user id, got %q", byName["Steam profile"].Detail)
	}
	if _, ok := byName["SteamGridDB"]; ok {
		t.Fatal("catalog check must be skipped without an api key")
	}
	if Failed(results) {
		t.Fatalf("expected no required failures, got %+v", results)
	}
}

func TestRunAllMissingSteam(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSteamInstall(filepath.Join(t.TempDir(), "absent"), ""))
	results := RunAll(context.Background(), cfg, nil)
	if !Failed(results) {
		t.Fatal("expected failure without steam")
	}
	for _, r := range results {
		if r.Name == "Steam profile" {
			t.Fatal("profile check must be skipped when steam is missing")
		}
	}
}

type stubHost struct {
	running bool
	mode    steam.LaunchMode
	err     error
}

func (h stubHost) IsRunning(context.Context) (bool, error)        { return h.running, h.err }
func (h stubHost) DetectMode(context.Context) steam.LaunchMode { return h.mode }

func TestProbeSteam(t *testing.T) {
	cases := []struct {
		host stubHost
		want string
	}{
		{stubHost{}, "Not running"},
		{stubHost{running: true, mode: steam.ModeNormal}, "Running"},
		{stubHost{running: true, mode: steam.ModeBigPicture}, "Running (Big Picture)"},
		{stubHost{err: errors.New("ps missing")}, "Unknown (ps missing)"},
	}
	for _, tc := range cases {
		probe := ProbeSteam(context.Background(), tc.host)
		if got := probe.Detail(); got != tc.want {
			t.Fatalf("Detail() = %q, want %q", got, tc.want)
		}
	}
}
