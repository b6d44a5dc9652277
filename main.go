//go:build !(js && wasm)

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/voxelsplace/voxexport/config"
	"github.com/voxelsplace/voxexport/export"
	"github.com/voxelsplace/voxexport/obj"
	"github.com/voxelsplace/voxexport/utils"
	"github.com/voxelsplace/voxexport/voxel"
)

func usage() {
	fmt.Println("Usage: voxexport <command> [flags] [args]")
	fmt.Println("Commands:")
	fmt.Println("  export [flags] input.vxs output_base        (export a snapshot to .stl, .obj/.mtl or .glb)")
	fmt.Println("      -mode stl|obj|obj-texture|glb  -flat  -scale N  -solidify  -textures DIR  -region x1,y1,z1,x2,y2,z2  -config FILE")
	fmt.Println("  batch config.yaml                           (run the batch jobs of a config file)")
	fmt.Println("  voxelize [flags] input.(glb|obj|stl) output.vxs   (voxelize a mesh into a snapshot)")
	fmt.Println("      -scale N  -fill  -strategy balanced|hue  -color #rrggbb  -config FILE")
	fmt.Println("  glb2obj input.glb output_base               (convert GLB, raw or base64, to .obj/.mtl + texture)")
	fmt.Println("  vxs2glb [-scale N] input.vxs output.glb     (mesh a snapshot into a vertex-colored .glb)")
	fmt.Println("  stlinfo input.stl                           (print triangle count and bounds)")
	fmt.Println("  gennoise <percentage> <amount> <output_dir>                        (generate N random .vxs snapshots)")
	fmt.Println("  gennoise <percentageMin> <percentageMax> <amount> <output_dir>    (per-file random fill in [min,max])")
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	export.SetLogger(log.New(os.Stderr, "voxexport: ", log.LstdFlags))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "export":
		if err := runExport(ctx, os.Args[2:]); err != nil {
			fail(err)
		}
	case "batch":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		cfg, err := config.Load(os.Args[2])
		if err != nil {
			fail(err)
		}
		results, err := utils.RunBatch(ctx, cfg)
		for i, res := range results {
			fmt.Printf("job %d: %s, %d quads, %v\n", i, res.Status, res.Quads, res.Files)
		}
		if err != nil {
			fail(err)
		}
	case "voxelize":
		if err := runVoxelize(os.Args[2:]); err != nil {
			fail(err)
		}
	case "glb2obj":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunGLB2OBJ(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
	case "vxs2glb":
		fs := flag.NewFlagSet("vxs2glb", flag.ExitOnError)
		scale := fs.Float64("scale", 1, "output size of one voxel")
		fs.Parse(os.Args[2:])
		if fs.NArg() != 2 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunVXS2GLB(fs.Arg(0), fs.Arg(1), float32(*scale)); err != nil {
			fail(err)
		}
	case "stlinfo":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		info, err := utils.RunSTLInfo(os.Args[2])
		if err != nil {
			fail(err)
		}
		fmt.Printf("triangles: %d\nvertices: %d\nmin: %v\nmax: %v\n", info.Triangles, info.Vertices, info.Min, info.Max)
	case "gennoise":
		if err := runGenNoise(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(1)
	}

	fmt.Println("Operation completed!")
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cfgPath := fs.String("config", "", "YAML config file")
	mode := fs.String("mode", "", "stl, obj, obj-texture or glb")
	flat := fs.Bool("flat", false, "one box per voxel instead of greedy merging")
	scale := fs.Float64("scale", 0, "output size of one voxel")
	solidify := fs.Bool("solidify", false, "fill hollow cells below each column's top")
	textures := fs.String("textures", "", "directory holding <texture>.png files")
	region := fs.String("region", "", "x1,y1,z1,x2,y2,z2 (default: whole snapshot)")
	fs.Parse(args)
	if fs.NArg() != 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	opts := cfg.ExportOptions()
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			opts.Mode, parseErr = export.ParseMode(*mode)
		case "flat":
			opts.Merge = !*flat
		case "scale":
			opts.Scale = float32(*scale)
		case "solidify":
			opts.Solidify = *solidify
		case "textures":
			opts.Textures = obj.DirTextures{Root: *textures}
		}
	})
	if parseErr != nil {
		return parseErr
	}
	opts.Progress = progressPrinter()

	var cuboid *voxel.Cuboid
	if *region != "" {
		c, err := parseRegion(*region)
		if err != nil {
			return err
		}
		cuboid = &c
	}
	res, err := utils.RunExport(ctx, fs.Arg(0), fs.Arg(1), cuboid, opts)
	fmt.Println()
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Println("Warning:", w)
	}
	fmt.Printf("%s: %d quads -> %s\n", res.Status, res.Quads, strings.Join(res.Files, ", "))
	return nil
}

func runVoxelize(args []string) error {
	fs := flag.NewFlagSet("voxelize", flag.ExitOnError)
	cfgPath := fs.String("config", "", "YAML config file")
	scale := fs.Float64("scale", 0, "voxels per mesh unit")
	fill := fs.Bool("fill", false, "fill closed interiors")
	strategy := fs.String("strategy", "", "balanced or hue")
	color := fs.String("color", "", "#rrggbb for uncolored triangles")
	fs.Parse(args)
	if fs.NArg() != 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scale":
			cfg.Voxelize.Scale = *scale
		case "fill":
			cfg.Voxelize.Fill = *fill
		case "strategy":
			cfg.Palette.Strategy = *strategy
		case "color":
			cfg.Voxelize.Color = *color
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	g, err := utils.RunVoxelize(fs.Arg(0), fs.Arg(1), cfg)
	if err != nil {
		return err
	}
	fmt.Printf("%d voxels in %v\n", g.Len(), g.Bounds().Size())
	return nil
}

// Two forms:
// 1) gennoise <percentage> <amount> <output_dir>
// 2) gennoise <percentageMin> <percentageMax> <amount> <output_dir>
func runGenNoise(args []string) error {
	switch len(args) {
	case 3:
		var perc float64
		var amt int
		if _, err := fmt.Sscan(args[0], &perc); err != nil {
			return err
		}
		if _, err := fmt.Sscan(args[1], &amt); err != nil {
			return err
		}
		return utils.RunGenerateNoise(perc, amt, args[2])
	case 4:
		var minP, maxP float64
		var amt int
		if _, err := fmt.Sscan(args[0], &minP); err != nil {
			return err
		}
		if _, err := fmt.Sscan(args[1], &maxP); err != nil {
			return err
		}
		if _, err := fmt.Sscan(args[2], &amt); err != nil {
			return err
		}
		return utils.RunGenerateNoiseRange(minP, maxP, amt, args[3])
	}
	usage()
	os.Exit(1)
	return nil
}

func parseRegion(s string) (voxel.Cuboid, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return voxel.Cuboid{}, fmt.Errorf("region needs six comma separated integers, got %q", s)
	}
	var v [6]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return voxel.Cuboid{}, fmt.Errorf("failed to parse region '%s': %w", p, err)
		}
		v[i] = n
	}
	return voxel.NewCuboid(voxel.Pos{X: v[0], Y: v[1], Z: v[2]}, voxel.Pos{X: v[3], Y: v[4], Z: v[5]}), nil
}

// progressPrinter redraws a percentage on one line, only when it changes.
func progressPrinter() func(float32) {
	last := -1
	return func(p float32) {
		if pct := int(p * 100); pct != last {
			last = pct
			fmt.Printf("\rExporting... %3d%%", pct)
		}
	}
}
