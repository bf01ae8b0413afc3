package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/symmetry-mcp/internal/config"
)

func writeMirroredTexture(t *testing.T, path string, width, height int, seed int64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for by := 0; by < height; by += 4 {
		for bx := 0; bx < width/2; bx += 4 {
			g := color.Gray{Y: uint8(rng.Intn(256))}
			for y := by; y < by+4 && y < height; y++ {
				for x := bx; x < bx+4 && x < width/2; x++ {
					img.Set(x, y, g)
					img.Set(width-1-x, y, g)
				}
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "c.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := expandPatterns([]string{filepath.Join(dir, "*.png"), "missing.png"})
	if err != nil {
		t.Fatalf("expandPatterns failed: %v", err)
	}
	want := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png"), "missing.png"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := expandPatterns([]string{"[bad"}); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("out.png", "/img/face.jpg", false); got != "out.png" {
		t.Errorf("single: got %s", got)
	}
	if got := outputPath("dir", "/img/face.jpg", true); got != filepath.Join("dir", "face_axis.png") {
		t.Errorf("multi: got %s", got)
	}
}

func TestRunDetect(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "mirror.png")
	writeMirroredTexture(t, img, 96, 64, 21)
	overlay := filepath.Join(dir, "overlay.png")

	var out bytes.Buffer
	status := runDetect(config.Default(), []string{"--vertical", "--bins", "100", "--out", overlay, img}, &out)
	if status != 0 {
		t.Fatalf("status %d, output:\n%s", status, out.String())
	}
	var r, theta float64
	var votes int
	line := strings.TrimPrefix(out.String(), img+": ")
	if _, err := fmt.Sscanf(line, "r=%f theta=%f votes=%d", &r, &theta, &votes); err != nil {
		t.Fatalf("unexpected output %q: %v", out.String(), err)
	}
	if math.Abs(r-48) > 0.5 || math.Abs(theta) > 0.02 || votes == 0 {
		t.Errorf("axis: got r=%.3f theta=%.4f votes=%d, want r≈48 theta≈0", r, theta, votes)
	}
	if _, err := os.Stat(overlay); err != nil {
		t.Errorf("overlay not written: %v", err)
	}
}

func TestRunDetect_Failures(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "mirror.png")
	writeMirroredTexture(t, img, 64, 64, 22)

	var out bytes.Buffer
	status := runDetect(config.Default(), []string{img, filepath.Join(dir, "missing.png")}, &out)
	if status != 1 {
		t.Errorf("status: got %d, want 1", status)
	}
	if n := strings.Count(out.String(), "error:"); n == 0 {
		t.Errorf("no failure reported:\n%s", out.String())
	}
}

func TestRunDetect_Usage(t *testing.T) {
	var out bytes.Buffer
	for _, args := range [][]string{nil, {"--bins", "0", "x.png"}, {"--nope"}} {
		if status := runDetect(config.Default(), args, &out); status != 2 {
			t.Errorf("args %v: status %d, want 2", args, status)
		}
	}
}
