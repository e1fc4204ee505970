package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"voxelcc3d/internal/models"
	"voxelcc3d/pkg/config"
	"voxelcc3d/pkg/labeling"
	"voxelcc3d/pkg/volio"
	"voxelcc3d/pkg/volume"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "voxelcc3d.yaml", "Path to YAML configuration file")
	outputDir := flag.String("output-dir", "labels", "Directory to write label volumes into")
	connectivity := flag.String("connectivity", "", "Override connectivity: face or face-edge-vertex")
	background := flag.Uint64("background", 0, "Override background voxel value")
	backgroundLabel := flag.Uint64("background-label", 0, "Override background output label")
	cores := flag.Int("cores", 0, "Number of volumes to label concurrently (default: config value)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: voxelcc3d [flags] volume.vxv [volume.vxv ...]")
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration and apply flag overrides
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *connectivity != "" {
		cfg.Processing.Connectivity = *connectivity
	}
	if *background != 0 {
		cfg.Processing.BackgroundValue = *background
	}
	if *backgroundLabel != 0 {
		cfg.Processing.BackgroundLabel = *backgroundLabel
	}
	if *cores > 0 {
		cfg.Processing.NumCores = *cores
	}

	params, err := cfg.Params()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("VOXELCC3D - CONNECTED COMPONENT LABELING FOR 3D VOXEL VOLUMES")
	fmt.Printf("Connectivity: %s\n", params.Connectivity)
	fmt.Println("================================")

	startTime := time.Now()

	// Label each input volume; independent volumes share no state, so
	// they can run concurrently up to the configured core count.
	workers := cfg.Processing.NumCores
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for _, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return processFile(input, *outputDir, cfg, params)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Labeling failed: %v", err)
	}

	fmt.Printf("\nLabeled %d volume(s) in %.2f seconds\n", len(inputs), time.Since(startTime).Seconds())
	fmt.Printf("Label volumes written to: %s\n", *outputDir)
}

// processFile labels one volume container and writes the label volume plus
// a component report for it.
func processFile(path, outputDir string, cfg *config.Config, params labeling.Params) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	meta, err := volio.ReadMeta(f)
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	// Re-open so the typed reader sees the header again.
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind %s: %w", path, err)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Labeling %s: %dx%dx%d %s volume (%s on disk)\n",
			path, meta.Width, meta.Height, meta.Depth, meta.Kind, humanize.Bytes(uint64(info.Size())))
	}

	start := time.Now()

	var components []labeling.Component[uint64, uint32]
	switch meta.Kind {
	case models.Uint8:
		components, err = labelFile[uint8](f, path, outputDir, cfg, params)
	case models.Uint16:
		components, err = labelFile[uint16](f, path, outputDir, cfg, params)
	case models.Uint32:
		components, err = labelFile[uint32](f, path, outputDir, cfg, params)
	case models.Uint64:
		components, err = labelFile[uint64](f, path, outputDir, cfg, params)
	default:
		return fmt.Errorf("unsupported element kind %s in %s", meta.Kind, path)
	}
	if err != nil {
		return err
	}

	printReport(path, components, time.Since(start), cfg)
	return nil
}

// labelFile reads a typed volume, labels it with uint32 output labels and
// writes the resulting label volume next to the input's basename. The
// component statistics are widened to uint64 input values so the report
// code is independent of the voxel kind.
func labelFile[T uint8 | uint16 | uint32 | uint64](f *os.File, path, outputDir string, cfg *config.Config, params labeling.Params) ([]labeling.Component[uint64, uint32], error) {
	in, err := volio.Read[T](f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	out := volume.NewDense[uint32](in.Width, in.Height, in.Depth)
	components, err := labeling.Label(params, in, T(cfg.Processing.BackgroundValue), out, uint32(cfg.Processing.BackgroundLabel))
	if err != nil {
		return nil, fmt.Errorf("failed to label %s: %w", path, err)
	}

	outPath := labelPath(outputDir, path)
	dst, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer dst.Close()

	if err := volio.Write(dst, out, cfg.Output.Compress); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	widened := make([]labeling.Component[uint64, uint32], len(components))
	for i, c := range components {
		widened[i] = labeling.Component[uint64, uint32]{
			Label:      c.Label,
			PixelCount: c.PixelCount,
			InputValue: uint64(c.InputValue),
		}
	}
	return widened, nil
}

// labelPath places the label volume for an input file in the output
// directory, keeping the basename and marking it as a label volume.
func labelPath(outputDir, input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return filepath.Join(outputDir, strings.TrimSuffix(base, ext)+".labels.vxv")
}

// printReport prints the per-volume component report.
func printReport(path string, components []labeling.Component[uint64, uint32], elapsed time.Duration, cfg *config.Config) {
	summary := labeling.Summarize(components)

	fmt.Printf("\nComponent report for %s (%.3f seconds):\n", path, elapsed.Seconds())
	fmt.Printf("  Components:        %d\n", summary.Components)
	fmt.Printf("  Foreground voxels: %s\n", humanize.Comma(int64(summary.ForegroundVoxels)))
	if summary.Components == 0 {
		fmt.Println("  Volume is entirely background")
		return
	}

	fmt.Printf("  Component size:    min %d, max %d, mean %.1f, stddev %.1f\n",
		summary.MinSize, summary.MaxSize, summary.MeanSize, summary.StdDevSize)

	if cfg.Output.Verbose && cfg.Output.TopComponents > 0 {
		fmt.Printf("  Largest components:\n")
		for _, c := range labeling.Largest(components, cfg.Output.TopComponents) {
			fmt.Printf("    label %d: %s voxels (input value %d)\n",
				c.Label, humanize.Comma(int64(c.PixelCount)), c.InputValue)
		}
	}
}
