package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/symmetry-mcp/internal/config"
	"github.com/ironsheep/symmetry-mcp/internal/features"
	"github.com/ironsheep/symmetry-mcp/internal/imaging"
	"github.com/ironsheep/symmetry-mcp/internal/symmetry"
)

// runDetect implements the detect subcommand and returns the exit status:
// 0 on success, 1 if any image failed, 2 on usage errors.
func runDetect(cfg config.Config, args []string, w io.Writer) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	vertical := fs.Bool("vertical", false, "allow a vertical axis (θ = 0)")
	bins := fs.Int("bins", cfg.Bins, "accumulator divisions along r and θ")
	out := fs.String("out", "", "write the image with the axis drawn (a directory for several images)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *bins < 1 {
		log.Printf("--bins must be positive, got %d", *bins)
		return 2
	}

	paths, err := expandPatterns(fs.Args())
	if err != nil {
		log.Printf("%v", err)
		return 2
	}
	if len(paths) == 0 {
		log.Printf("detect: no images given")
		return 2
	}

	multi := len(paths) > 1
	if *out != "" && multi {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			log.Printf("failed to create output directory: %v", err)
			return 2
		}
	}

	p := &symmetry.Pipeline{
		Detector:     features.NewDetector(cfg.MaxKeypoints),
		Matcher:      features.NewMatcher(),
		Vertical:     *vertical,
		MaxDimension: cfg.MaxDimension,
		Options: []symmetry.Option{
			symmetry.WithDivisions(*bins),
			symmetry.WithWorkers(cfg.Workers),
		},
	}
	if cfg.Debug() {
		p.Logf = log.Printf
	}
	if *out != "" {
		renderer, err := imaging.NewAxisRenderer(cfg.LineColor)
		if err != nil {
			log.Printf("%v", err)
			return 2
		}
		p.Renderer = renderer
	}

	cache := imaging.NewImageCache()
	status := 0
	for _, path := range paths {
		det, err := detectFile(cache, p, path)
		cache.Evict(path)
		if err != nil {
			fmt.Fprintf(w, "%s: error: %v\n", path, err)
			status = 1
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", path, det.Axis)

		if det.Overlay != nil {
			dst := outputPath(*out, path, multi)
			if err := imaging.Save(det.Overlay, dst); err != nil {
				fmt.Fprintf(w, "%s: error: %v\n", path, err)
				status = 1
			}
		}
	}
	return status
}

func detectFile(cache *imaging.ImageCache, p *symmetry.Pipeline, path string) (*symmetry.Detection, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return p.Run(img)
}

// expandPatterns expands glob patterns in order. Arguments that match
// nothing are kept as literal paths so that the error surfaces when loading.
func expandPatterns(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// outputPath returns where the overlay for src goes. With several inputs out
// is a directory and each overlay is named after its source.
func outputPath(out, src string, multi bool) string {
	if !multi {
		return out
	}
	base := filepath.Base(src)
	return filepath.Join(out, strings.TrimSuffix(base, filepath.Ext(base))+"_axis.png")
}
