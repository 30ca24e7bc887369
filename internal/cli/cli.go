// Package cli implements the commands shared by the sheetmark binaries.
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/api"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage error")

// Usage is the command summary printed by help.
const Usage = `
  sheetmark - annotate drawings and images

Usage:
  sheetmark [-v] <command> [arguments]

Commands:
  info <file>                   Show image size or project contents
  check <project.json>          Validate a project's annotations
  new <image> [-o project.json] Create an empty project for an image
  dump <project.json>           Print a project as indented JSON
  render <file> [options]       Render the annotated image
    -o <output>                 Output file; the extension picks the format
                                (png, jpg, bmp, tif; default: output.png)
    -scale <value>              Output scale (default: 1)
    -q <quality>                JPEG quality (default: 90)
    -bare                       Leave annotations out

Examples:
  sheetmark info part.png
  sheetmark new part.png -o part.json
  sheetmark -v render part.json -o part-marked.jpg -scale 2`

// Verbose strips leading -v flags from args and, if any were present,
// sends debug logs to stderr.
func Verbose(args []string) []string {
	verbose := false
	for len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose") {
		verbose = true
		args = args[1:]
	}
	if verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		annotation.SetLogger(slog.New(h))
	}
	return args
}

// Run executes one command. handled is false when the command is not one
// of the shared commands.
func Run(w io.Writer, command string, args []string) (handled bool, err error) {
	switch command {
	case "info":
		return true, need(args, 1, "info <file>", func() error { return Info(w, args[0]) })
	case "check":
		return true, need(args, 1, "check <project.json>", func() error { return Check(w, args[0]) })
	case "new":
		return true, need(args, 1, "new <image> [-o project.json]", func() error { return New(w, args) })
	case "dump":
		return true, need(args, 1, "dump <project.json>", func() error { return Dump(w, args[0]) })
	case "render":
		return true, need(args, 1, "render <file> [-o output] [-scale value]", func() error { return Render(w, args) })
	case "help", "-h", "--help":
		fmt.Fprintln(w, Usage)
		return true, nil
	}
	return false, nil
}

func need(args []string, n int, usage string, fn func() error) error {
	if len(args) < n {
		return fmt.Errorf("%w: sheetmark %s", ErrUsage, usage)
	}
	return fn()
}

func isProject(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// load opens path as a project, or as a bare image in a new project.
func load(path string) (*api.Project, error) {
	if isProject(path) {
		return api.Open(path)
	}
	p := api.New()
	if err := p.SetImage(path); err != nil {
		return nil, err
	}
	return p, nil
}

// Info prints an image's size and format, or a project's summary.
func Info(w io.Writer, path string) error {
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintln(w, "────────────────────────────────────────")

	if !isProject(path) {
		info, err := api.ProbeImage(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Image: %d × %d %s\n", info.Width, info.Height, info.Format)
		return nil
	}

	p, err := api.Open(path)
	if err != nil {
		return err
	}
	info := p.Info()
	fmt.Fprintf(w, "Image: %s\n", info.ImagePath)
	if info.Image.Width > 0 {
		fmt.Fprintf(w, "  Size: %d × %d %s\n", info.Image.Width, info.Image.Height, info.Image.Format)
	} else if info.ImagePath != "" {
		fmt.Fprintln(w, "  (not found)")
	}
	fmt.Fprintf(w, "Texts: %d\n", info.Texts)
	fmt.Fprintf(w, "Arrows: %d\n", info.Arrows)
	fmt.Fprintf(w, "Shapes: %d\n", info.Shapes)
	if info.MainPoint {
		fmt.Fprintln(w, "Main point: set")
	}
	return nil
}

// Check validates a project.
func Check(w io.Writer, path string) error {
	p, err := api.Open(path)
	if err != nil {
		return err
	}
	if err := p.Check(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(w, "%s: ok (%d annotations)\n", path, p.Annotations().Len())
	return nil
}

// New writes an empty project for an image. The output defaults to the
// image path with a .json extension.
func New(w io.Writer, args []string) error {
	image := args[0]
	output := strings.TrimSuffix(image, filepath.Ext(image)) + ".json"
	for i := 1; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			output = args[i+1]
			i++
		}
	}

	p := api.New()
	if err := p.SetImage(image); err != nil {
		return err
	}
	if err := p.SaveTo(output); err != nil {
		return err
	}
	fmt.Fprintf(w, "Created %s\n", output)
	return nil
}

// Dump prints a project file as indented JSON.
func Dump(w io.Writer, path string) error {
	p, err := api.Open(path)
	if err != nil {
		return err
	}
	data, err := p.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format project: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// Render renders an image or project to a file.
func Render(w io.Writer, args []string) error {
	path := args[0]
	output := "output.png"
	scale := 1.0
	quality := 0
	bare := false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-scale":
			if i+1 < len(args) {
				v, err := strconv.ParseFloat(args[i+1], 64)
				if err != nil || v <= 0 {
					return fmt.Errorf("%w: bad scale %q", ErrUsage, args[i+1])
				}
				scale = v
				i++
			}
		case "-q":
			if i+1 < len(args) {
				v, err := strconv.Atoi(args[i+1])
				if err != nil {
					return fmt.Errorf("%w: bad quality %q", ErrUsage, args[i+1])
				}
				quality = v
				i++
			}
		case "-bare":
			bare = true
		}
	}

	fmt.Fprintf(w, "Opening %s...\n", path)
	p, err := load(path)
	if err != nil {
		return err
	}

	eo, err := api.ExportOptionsFor(output)
	if err != nil {
		return err
	}
	if quality > 0 && eo.Format == "jpeg" {
		eo = api.JPEG(quality)
	}
	opts := []api.Option{api.Scale(scale)}
	if bare {
		opts = append(opts, api.NoAnnotations())
	}

	if dir := filepath.Dir(output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := p.Export(f, eo, opts...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	info, err := api.ProbeImage(output)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Saved %s (%dx%d pixels)\n", output, info.Width, info.Height)
	return nil
}
