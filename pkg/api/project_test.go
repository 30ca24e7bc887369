package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"sheetmark/pkg/annotation"

	"github.com/google/go-cmp/cmp"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 200, G: 220, B: 240, A: 255}), image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func sampleSet() *annotation.Set {
	set := annotation.NewSet()
	sh := set.AddShape(annotation.NewShape(annotation.ShapeRect,
		[]annotation.Point{{X: 0.1, Y: 0.1}, {X: 0.4, Y: 0.3}}, "Yellow", "", 5))
	label := annotation.NewText(annotation.Point{X: 0.25, Y: 0.2}, "H1", "Black", 40)
	label.ParentID = sh.ID
	set.AddText(label)
	set.AddArrow(annotation.NewArrow(annotation.Point{X: 0.6, Y: 0.6}, annotation.Point{X: 0.8, Y: 0.4}, "Red", 1.5))
	return set
}

func TestSaveOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "bg.png")
	writePNG(t, imgPath, 200, 100)

	p := New()
	if err := p.SetImage(imgPath); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	p.SetAnnotations(sampleSet())

	projPath := filepath.Join(dir, "sheet.json")
	if err := p.SaveTo(projPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	raw, err := os.ReadFile(projPath)
	if err != nil {
		t.Fatal(err)
	}
	var f projectFile
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("saved file is not JSON: %v", err)
	}
	if f.Image != "bg.png" || f.Version != FormatVersion {
		t.Errorf("saved header = %q v%d", f.Image, f.Version)
	}

	q, err := Open(projPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if diff := cmp.Diff(p.Annotations().Record(), q.Annotations().Record()); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}

	want := &ProjectInfo{
		Path:      projPath,
		ImagePath: imgPath,
		Image:     ImageInfo{Width: 200, Height: 100, Format: "png"},
		Texts:     1,
		Arrows:    1,
		Shapes:    1,
	}
	if diff := cmp.Diff(want, q.Info()); diff != "" {
		t.Errorf("Info mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalJSONKeepsRelativeImage(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "bg.png")
	writePNG(t, imgPath, 20, 10)

	p := New()
	if err := p.SetImage(imgPath); err != nil {
		t.Fatal(err)
	}
	projPath := filepath.Join(dir, "sheet.json")
	if err := p.SaveTo(projPath); err != nil {
		t.Fatal(err)
	}
	q, err := Open(projPath)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var f projectFile
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatal(err)
	}
	if f.Image != "bg.png" {
		t.Errorf("marshalled image = %q, want %q", f.Image, "bg.png")
	}
}

func TestOpenMissingImageKeepsAnnotations(t *testing.T) {
	dir := t.TempDir()
	p := New()
	p.SetAnnotations(sampleSet())
	p.SetImageData(image.NewRGBA(image.Rect(0, 0, 10, 10)), filepath.Join(dir, "gone.png"))
	path := filepath.Join(dir, "p.json")
	if err := p.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	q, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if q.Image() != nil {
		t.Error("image loaded from a missing file")
	}
	if q.Annotations().Len() != 3 {
		t.Errorf("Len = %d, want 3", q.Annotations().Len())
	}
	if _, err := q.Render(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Render error = %v, want ErrNoImage", err)
	}
}

func TestOpenBytesErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
		want error
	}{
		{"future version", `{"version": 99, "annotations": {}}`, ErrVersion},
		{"bad shape", `{"version": 1, "annotations": {"shapes": [{"shape_type": "HEXAGON"}]}}`, annotation.ErrUnknownShapeKind},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OpenBytes([]byte(tc.data))
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := OpenBytes([]byte("{")); err == nil {
		t.Error("truncated JSON accepted")
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); !errors.Is(err, ErrNoPath) {
		t.Errorf("Save error = %v, want ErrNoPath", err)
	}
}

func TestRenderScale(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "bg.png")
	writePNG(t, imgPath, 200, 100)

	p := New()
	if err := p.SetImage(imgPath); err != nil {
		t.Fatal(err)
	}
	p.SetAnnotations(sampleSet())

	img, err := p.RenderWithOptions(NewRenderOptions(Scale(2)))
	if err != nil {
		t.Fatalf("RenderWithOptions: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(400, 200) {
		t.Errorf("size = %v, want 400x200", got)
	}

	bare, err := p.RenderWithOptions(NewRenderOptions(NoAnnotations()))
	if err != nil {
		t.Fatal(err)
	}
	// the rectangle's top edge at y = 10
	got := color.NRGBAModel.Convert(bare.At(50, 10)).(color.NRGBA)
	if got != (color.NRGBA{R: 200, G: 220, B: 240, A: 255}) {
		t.Errorf("bare render pixel = %v, want background", got)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "bg.png")
	writePNG(t, imgPath, 64, 48)
	p := New()
	if err := p.SetImage(imgPath); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := p.Export(&buf, JPEG(80)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	img, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("exported JPEG does not decode: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(64, 48) {
		t.Errorf("size = %v", got)
	}

	for _, name := range []string{"out.png", "out.bmp", "out.tiff"} {
		out := filepath.Join(dir, name)
		if err := p.ExportFile(out); err != nil {
			t.Errorf("ExportFile(%s): %v", name, err)
			continue
		}
		info, err := ProbeImage(out)
		if err != nil {
			t.Errorf("ProbeImage(%s): %v", name, err)
			continue
		}
		if info.Width != 64 || info.Height != 48 {
			t.Errorf("%s size = %dx%d", name, info.Width, info.Height)
		}
	}

	if err := p.ExportFile(filepath.Join(dir, "out.gif")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("gif export error = %v, want ErrUnsupportedFormat", err)
	}
}
