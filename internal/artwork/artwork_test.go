package artwork_test

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"steamsyncer/internal/artwork"
	"steamsyncer/internal/testsupport"
)

const testAppID uint32 = 3024975092

func TestMissingKindsWithOnlyPortraitGrid(t *testing.T) {
	dir := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(dir, "3024975092_p.png"), 600, 900)

	missing, err := artwork.MissingKinds(dir, testAppID)
	if err != nil {
		t.Fatalf("MissingKinds: %v", err)
	}
	want := artwork.Kinds{artwork.KindGridWide, artwork.KindHero, artwork.KindLogo, artwork.KindIcon}
	if !slices.Equal(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}

func TestMissingKindsRejectsWrongSizeAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(dir, "3024975092_p.png"), 300, 450)
	testsupport.WriteFile(t, filepath.Join(dir, "3024975092_hero.jpg"), 128)
	testsupport.WriteFile(t, filepath.Join(dir, "3024975092_logo.jpeg"), 16)

	missing, err := artwork.MissingKinds(dir, testAppID)
	if err != nil {
		t.Fatalf("MissingKinds: %v", err)
	}
	if !missing.Contains(artwork.KindGrid) || !missing.Contains(artwork.KindHero) {
		t.Fatalf("expected wrong-size grid and corrupt hero to be missing, got %v", missing)
	}
	if missing.Contains(artwork.KindLogo) {
		t.Fatalf("logo has no size requirement, got %v", missing)
	}
}

func TestMissingKindsMissingDirectory(t *testing.T) {
	missing, err := artwork.MissingKinds(filepath.Join(t.TempDir(), "grid"), testAppID)
	if err != nil {
		t.Fatalf("MissingKinds: %v", err)
	}
	if len(missing) != len(artwork.AllKinds) {
		t.Fatalf("expected all kinds missing, got %v", missing)
	}
}

func TestMissingKindsRemovesOrphanedWebp(t *testing.T) {
	dir := t.TempDir()
	orphan := filepath.Join(dir, "3024975092_hero.webp")
	kept := filepath.Join(dir, "3024975092_logo.webp")
	testsupport.WriteFile(t, orphan, 32)
	testsupport.WriteFile(t, kept, 32)
	testsupport.WritePNG(t, filepath.Join(dir, "3024975092_logo.png"), 10, 10)

	if _, err := artwork.MissingKinds(dir, testAppID); err != nil {
		t.Fatalf("MissingKinds: %v", err)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Fatalf("expected orphaned webp removed, stat err=%v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Fatalf("expected webp with png sibling kept: %v", err)
	}
}

func TestResizeProducesSteamSizes(t *testing.T) {
	src := testsupport.NewImage(1200, 1200)
	cases := []struct {
		kind artwork.Kind
		w, h int
	}{
		{artwork.KindGrid, 600, 900},
		{artwork.KindGridWide, 460, 215},
		{artwork.KindIcon, 256, 256},
	}
	for _, tc := range cases {
		got := artwork.Resize(src, tc.kind).Bounds()
		if got.Dx() != tc.w || got.Dy() != tc.h {
			t.Fatalf("%s resized to %dx%d, want %dx%d", tc.kind, got.Dx(), got.Dy(), tc.w, tc.h)
		}
	}

	logo := artwork.Resize(src, artwork.KindLogo)
	if logo != image.Image(src) {
		t.Fatal("expected logo to be returned unchanged")
	}
}

func TestResizeIconPadsWithTransparency(t *testing.T) {
	src := testsupport.NewImage(512, 256)
	icon := artwork.Resize(src, artwork.KindIcon)
	if b := icon.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Fatalf("icon bounds %v", b)
	}
	_, _, _, top := icon.At(128, 2).RGBA()
	if top != 0 {
		t.Fatalf("expected transparent padding above the image, alpha=%d", top)
	}
	_, _, _, mid := icon.At(128, 128).RGBA()
	if mid == 0 {
		t.Fatal("expected opaque pixels in the center")
	}
}

func TestResizeGridCropsCenter(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 900))
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	for y := range 900 {
		for x := range 1200 {
			c := blue
			if x >= 300 && x < 900 {
				c = red
			}
			src.SetRGBA(x, y, c)
		}
	}
	out := artwork.Resize(src, artwork.KindGrid)
	r, _, b, _ := out.At(10, 450).RGBA()
	if r < 0xf000 || b > 0x1000 {
		t.Fatalf("expected cropped edges to come from the red center, got r=%x b=%x", r, b)
	}
}

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func TestThrottleSpacesCalls(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	throttle := artwork.NewThrottle(350*time.Millisecond, clock)
	ctx := context.Background()

	for range 3 {
		if err := throttle.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	want := []time.Duration{350 * time.Millisecond, 350 * time.Millisecond}
	if !slices.Equal(clock.sleeps, want) {
		t.Fatalf("sleeps = %v, want %v", clock.sleeps, want)
	}

	clock.now = clock.now.Add(time.Second)
	if err := throttle.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(clock.sleeps) != 2 {
		t.Fatalf("expected no sleep after an idle second, got %v", clock.sleeps)
	}
}

func TestThrottleHonoursCancellation(t *testing.T) {
	throttle := artwork.NewThrottle(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := throttle.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	cancel()
	if err := throttle.Wait(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestRenameNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "100_p.png"), 10)
	testsupport.WriteFile(t, filepath.Join(dir, "100_hero.jpg"), 10)
	testsupport.WriteFile(t, filepath.Join(dir, "100_icon.png"), 10)
	testsupport.WriteFile(t, filepath.Join(dir, "200_icon.png"), 20)

	moved := artwork.Rename(dir, 100, 200, nil)
	if moved != 2 {
		t.Fatalf("expected 2 files moved, got %d", moved)
	}
	for _, name := range []string{"200_p.png", "200_hero.jpg", "100_icon.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
	info, err := os.Stat(filepath.Join(dir, "200_icon.png"))
	if err != nil || info.Size() != 20 {
		t.Fatalf("expected existing destination untouched, info=%v err=%v", info, err)
	}
	if artwork.Rename(dir, 200, 200, nil) != 0 {
		t.Fatal("expected no-op for identical ids")
	}
}
