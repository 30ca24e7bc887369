package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/api"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewInfoCheckDump(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "part.png")
	writePNG(t, img, 80, 40)

	var out bytes.Buffer
	if _, err := Run(&out, "new", []string{img}); err != nil {
		t.Fatalf("new: %v", err)
	}
	proj := filepath.Join(dir, "part.json")
	if _, err := os.Stat(proj); err != nil {
		t.Fatalf("project not written: %v", err)
	}

	out.Reset()
	if _, err := Run(&out, "info", []string{proj}); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"part.png", "80 × 40 png", "Shapes: 0"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("info output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if _, err := Run(&out, "check", []string{proj}); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out.String(), "ok (0 annotations)") {
		t.Errorf("check output = %q", out.String())
	}

	out.Reset()
	if _, err := Run(&out, "dump", []string{proj}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("dump is not JSON: %v", err)
	}
	if doc["image"] != "part.png" {
		t.Errorf("dump image = %v", doc["image"])
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "part.png")
	writePNG(t, img, 100, 50)

	p, err := load(img)
	if err != nil {
		t.Fatal(err)
	}
	set := annotation.NewSet()
	set.AddShape(annotation.NewShape(annotation.ShapeRect,
		[]annotation.Point{{X: 0.2, Y: 0.2}, {X: 0.8, Y: 0.8}}, "Red", "Red", 2))
	p.SetAnnotations(set)
	proj := filepath.Join(dir, "part.json")
	if err := p.SaveTo(proj); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "out", "marked.png")
	var out bytes.Buffer
	if _, err := Run(&out, "render", []string{proj, "-o", output, "-scale", "2"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	info, err := api.ProbeImage(output)
	if err != nil {
		t.Fatal(err)
	}
	if info.Width != 200 || info.Height != 100 {
		t.Errorf("rendered %dx%d, want 200x100", info.Width, info.Height)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := got.At(100, 50).RGBA()
	if r>>8 < 200 || g>>8 > 40 || b>>8 > 40 {
		t.Errorf("center pixel = %d,%d,%d, want red fill", r>>8, g>>8, b>>8)
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	if handled, _ := Run(&out, "frobnicate", nil); handled {
		t.Error("unknown command reported as handled")
	}
	if _, err := Run(&out, "info", nil); !errors.Is(err, ErrUsage) {
		t.Errorf("info without file: err = %v, want ErrUsage", err)
	}

	dir := t.TempDir()
	img := filepath.Join(dir, "part.png")
	writePNG(t, img, 10, 10)
	if _, err := Run(&out, "render", []string{img, "-scale", "zero"}); !errors.Is(err, ErrUsage) {
		t.Errorf("bad scale: err = %v, want ErrUsage", err)
	}
	if _, err := Run(&out, "render", []string{img, "-o", filepath.Join(dir, "x.gif")}); !errors.Is(err, api.ErrUnsupportedFormat) {
		t.Errorf("gif output: err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestVerboseStripsFlags(t *testing.T) {
	defer annotation.SetLogger(nil)
	got := Verbose([]string{"-v", "info", "x.png"})
	if len(got) != 2 || got[0] != "info" {
		t.Errorf("Verbose = %v", got)
	}
	if !annotation.Logger().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug logging not enabled")
	}
}
