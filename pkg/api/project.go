// Package api is the file-level entry point: it opens and saves annotation
// projects, loads their background images and renders them offscreen.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/graphics"
	"sheetmark/pkg/raster"
	"sheetmark/pkg/scene"
)

// FormatVersion is written to every saved project.
const FormatVersion = 1

var (
	ErrNoImage           = errors.New("project has no background image")
	ErrNoPath            = errors.New("project has no file path")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrVersion           = errors.New("unsupported project version")
)

// Project is a background image plus the annotations drawn over it.
type Project struct {
	path      string
	imagePath string
	img       image.Image
	format    string
	set       *annotation.Set
}

// ProjectInfo summarizes a project.
type ProjectInfo struct {
	Path      string
	ImagePath string
	Image     ImageInfo
	MainPoint bool
	Texts     int
	Arrows    int
	Shapes    int
}

// projectFile is the on-disk layout.
type projectFile struct {
	Version     int                  `json:"version"`
	Image       string               `json:"image,omitempty"`
	Annotations annotation.SetRecord `json:"annotations"`
}

// New returns an empty project without an image.
func New() *Project {
	return &Project{set: annotation.NewSet()}
}

// Open reads a project file. The image path stored in it is resolved
// against the project's directory. A missing or unreadable image is logged
// and leaves the project without an image; the annotations still load.
func Open(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	p, err := openBytes(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	p.path = path
	annotation.Logger().Info("api: project opened", "path", path, "annotations", p.set.Len())
	return p, nil
}

// OpenBytes decodes a project from memory. A relative image path is
// resolved against the working directory.
func OpenBytes(data []byte) (*Project, error) {
	return openBytes(data, "")
}

func openBytes(data []byte, dir string) (*Project, error) {
	var f projectFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	if f.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}

	set, err := annotation.SetFromRecord(f.Annotations)
	if err != nil {
		return nil, fmt.Errorf("failed to decode annotations: %w", err)
	}
	p := &Project{set: set, imagePath: f.Image}

	if f.Image != "" {
		full := f.Image
		if !filepath.IsAbs(full) && dir != "" {
			full = filepath.Join(dir, full)
		}
		img, format, err := LoadImage(full)
		if err != nil {
			annotation.Logger().Warn("api: background image not loaded", "image", full, "err", err)
		} else {
			p.img, p.format = img, format
			p.imagePath = full
		}
	}
	return p, nil
}

// Path returns the project file path, or "" if never saved.
func (p *Project) Path() string { return p.path }

// ImagePath returns the background image's path.
func (p *Project) ImagePath() string { return p.imagePath }

// Image returns the background image, or nil.
func (p *Project) Image() image.Image { return p.img }

// Annotations returns the live annotation set.
func (p *Project) Annotations() *annotation.Set { return p.set }

// SetAnnotations replaces the annotation set. nil empties it.
func (p *Project) SetAnnotations(set *annotation.Set) {
	if set == nil {
		set = annotation.NewSet()
	}
	p.set = set
}

// SetImage loads a new background image from path. The annotations are
// kept; they are stored relative to the image so they stretch with it.
func (p *Project) SetImage(path string) error {
	img, format, err := LoadImage(path)
	if err != nil {
		return err
	}
	p.img, p.format, p.imagePath = img, format, path
	return nil
}

// SetImageData sets the background image from an already decoded image.
func (p *Project) SetImageData(img image.Image, path string) {
	p.img, p.format, p.imagePath = img, "", path
}

// Save writes the project back to the file it was opened from or last
// saved to.
func (p *Project) Save() error {
	if p.path == "" {
		return ErrNoPath
	}
	return p.SaveTo(p.path)
}

// SaveTo writes the project to path and makes it the project's path. The
// image path is stored relative to the project file when possible.
func (p *Project) SaveTo(path string) error {
	data, err := p.marshal(filepath.Dir(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	p.path = path
	annotation.Logger().Info("api: project saved", "path", path, "annotations", p.set.Len())
	return nil
}

// MarshalJSON implements json.Marshaler. The image path is written as it
// would be saved: relative to the project file when the project has a path.
func (p *Project) MarshalJSON() ([]byte, error) {
	dir := ""
	if p.path != "" {
		dir = filepath.Dir(p.path)
	}
	return p.marshal(dir)
}

func (p *Project) marshal(dir string) ([]byte, error) {
	f := projectFile{
		Version:     FormatVersion,
		Image:       relativeTo(dir, p.imagePath),
		Annotations: p.set.Record(),
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}
	return data, nil
}

func relativeTo(dir, path string) string {
	if dir == "" || path == "" {
		return path
	}
	absDir, err1 := filepath.Abs(dir)
	absPath, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return path
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Info returns a summary of the project.
func (p *Project) Info() *ProjectInfo {
	info := &ProjectInfo{
		Path:      p.path,
		ImagePath: p.imagePath,
		MainPoint: p.set.MainPoint != nil,
		Texts:     len(p.set.Texts()),
		Arrows:    len(p.set.Arrows()),
		Shapes:    len(p.set.Shapes()),
	}
	if p.img != nil {
		b := p.img.Bounds()
		info.Image = ImageInfo{Width: b.Dx(), Height: b.Dy(), Format: p.format}
	}
	return info
}

// Check validates the annotations.
func (p *Project) Check() error {
	return p.set.Validate()
}

// Render renders the project with default options.
func (p *Project) Render() (*image.RGBA, error) {
	return p.RenderWithOptions(DefaultRenderOptions())
}

// RenderWithOptions draws the background image and, unless disabled, the
// annotations into a new image of the background's size times Scale.
func (p *Project) RenderWithOptions(opts RenderOptions) (*image.RGBA, error) {
	if p.img == nil {
		return nil, ErrNoImage
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	b := p.img.Bounds()
	w := int(math.Round(float64(b.Dx()) * opts.Scale))
	h := int(math.Round(float64(b.Dy()) * opts.Scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("failed to render: scale %v yields an empty image", opts.Scale)
	}

	canvas := raster.NewCanvas(w, h)
	if opts.Transparent {
		canvas.SetBackground(nil)
	} else {
		canvas.SetBackground(opts.Background)
	}
	canvas.Clear()

	sc := scene.New(nil, nil)
	sc.SetImage(p.img)
	if opts.RenderAnnotations {
		sc.SetAnnotationSet(p.set.Clone())
	}
	sc.RenderTo(canvas, graphics.Rect{Width: float64(w), Height: float64(h)})
	return canvas.Image(), nil
}

// Export renders the project and encodes it to w.
func (p *Project) Export(w io.Writer, eo ExportOptions, opts ...Option) error {
	img, err := p.RenderWithOptions(NewRenderOptions(opts...))
	if err != nil {
		return err
	}
	if err := encode(w, img, eo); err != nil {
		return err
	}
	annotation.Logger().Info("api: exported", "format", eo.Format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

// ExportFile renders the project to path, picking the format from its
// extension.
func (p *Project) ExportFile(path string, opts ...Option) error {
	eo, err := ExportOptionsFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := p.Export(f, eo, opts...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func encode(w io.Writer, img image.Image, eo ExportOptions) error {
	var err error
	switch eo.Format {
	case "png", "":
		enc := png.Encoder{CompressionLevel: pngLevel(eo.Compression)}
		err = enc.Encode(w, img)
	case "jpeg", "jpg":
		q := eo.Quality
		if q == 0 {
			q = 90
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: min(max(q, 1), 100)})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, eo.Format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", eo.Format, err)
	}
	return nil
}

func pngLevel(c int) png.CompressionLevel {
	switch {
	case c <= 0:
		return png.NoCompression
	case c <= 3:
		return png.BestSpeed
	case c <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
