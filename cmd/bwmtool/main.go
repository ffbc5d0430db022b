// bwmtool is a CLI utility for inspecting and converting BWM model files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/bwmtool/internal/config"
	"github.com/Faultbox/bwmtool/internal/export"
	"github.com/Faultbox/bwmtool/internal/logger"
	"github.com/Faultbox/bwmtool/pkg/formats"
)

func main() {
	// Global flags come before the subcommand: bwmtool -debug info x.bwm
	config.ParseFlags()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch command {
	case "info":
		cmdInfo(args)
	case "meshes":
		cmdMeshes(args)
	case "materials", "mats":
		cmdMaterials(args)
	case "entities":
		cmdEntities(args)
	case "obj", "export":
		cmdObj(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bwmtool - Black & White model file utility

Usage:
  bwmtool <command> [options]

Commands:
  info <file.bwm>             Show header and count summary
  meshes <file.bwm>           List meshes with material references
  materials <file.bwm>        List material texture fields
  entities <file.bwm>         List named entities and positions
  obj <file.bwm> [out.obj]    Convert to Wavefront OBJ

Examples:
  bwmtool info m_greekboat.bwm
  bwmtool meshes m_greekboat.bwm
  bwmtool obj m_greekboat.bwm ./out/greekboat.obj`)
}

func loadModel(args []string, usage string) *formats.BWM {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	model, err := formats.ParseBWMFile(args[0])
	if err != nil {
		logger.Error("decode failed", zap.String("file", args[0]), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("decoded model",
		zap.String("file", args[0]),
		zap.String("version", model.Version.String()),
		zap.Int("meshes", len(model.Meshes)),
		zap.Int("vertices", len(model.Vertices)))
	return model
}

func cmdInfo(args []string) {
	model := loadModel(args, "Usage: bwmtool info <file.bwm>")

	fmt.Printf("File:          %s\n", args[0])
	fmt.Printf("Version:       %s\n", model.Version)
	fmt.Printf("Payload sizes: %d / %d (declared, unvalidated)\n", model.PayloadSize, model.PayloadSize2)
	fmt.Printf("Materials:     %d\n", len(model.Materials))
	fmt.Printf("Meshes:        %d (%d material refs)\n", len(model.Meshes), model.MaterialRefCount())
	fmt.Printf("Bones:         %d (opaque)\n", model.BoneCount)
	fmt.Printf("Entities:      %d\n", len(model.Entities))
	fmt.Printf("Unknown A/B:   %d / %d (opaque)\n", model.UnknownACount, model.UnknownBCount)
	fmt.Printf("Vertices:      %d (stride %d)\n", len(model.Vertices), model.Stride)
	fmt.Printf("Indices:       %d\n", len(model.Indices))
	if model.Version.HasCleavePoints() {
		fmt.Printf("Cleave points: %d\n", len(model.CleavePoints))
	}

	if len(model.Vertices) > 0 {
		min, max := model.Bounds()
		fmt.Printf("Bounds:        (%.2f %.2f %.2f) .. (%.2f %.2f %.2f)\n",
			min[0], min[1], min[2], max[0], max[1], max[2])
	}
}

func cmdMeshes(args []string) {
	model := loadModel(args, "Usage: bwmtool meshes <file.bwm>")

	for i := range model.Meshes {
		mesh := &model.Meshes[i]
		fmt.Printf("[%d] %s (id=%d, faces=%d, indices@%d)\n",
			i, mesh.Name, mesh.ID, mesh.FaceCount, mesh.IndicesOffset)
		for j := range mesh.MaterialRefs {
			ref := &mesh.MaterialRefs[j]
			name := "?"
			if mat := model.GetMaterial(ref); mat != nil {
				name = mat.DiffuseMap
			}
			fmt.Printf("    ref %d: material %d (%s), indices %d+%d, vertices %d+%d\n",
				j, ref.MaterialID, name,
				ref.IndicesOffset, ref.IndicesSize,
				ref.VerticesOffset, ref.VerticesSize)
		}
	}
}

func cmdMaterials(args []string) {
	model := loadModel(args, "Usage: bwmtool materials <file.bwm>")

	for i := range model.Materials {
		mat := &model.Materials[i]
		fmt.Printf("[%d] type=%q\n", i, mat.Type)
		printField := func(label, value string) {
			if value != "" {
				fmt.Printf("    %-12s %s\n", label, value)
			}
		}
		printField("diffuse", mat.DiffuseMap)
		printField("light", mat.LightMap)
		printField("bump", mat.BumpMap)
		printField("specular", mat.SpecularMap)
		printField("environment", mat.EnvironmentMap)
		printField("unknown", mat.Unknown)
	}
}

func cmdEntities(args []string) {
	model := loadModel(args, "Usage: bwmtool entities <file.bwm>")

	if len(model.Entities) == 0 {
		fmt.Println("No entities")
		return
	}
	for i := range model.Entities {
		e := &model.Entities[i]
		fmt.Printf("[%d] %-32s at (%.2f %.2f %.2f)\n",
			i, e.Name, e.Position[0], e.Position[1], e.Position[2])
	}
}

func cmdObj(cfg *config.Config, args []string) {
	model := loadModel(args, "Usage: bwmtool obj <file.bwm> [out.obj]")

	outPath := ""
	if len(args) > 1 {
		outPath = args[1]
	} else {
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		outPath = filepath.Join(cfg.Export.OutputDir, base+".obj")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	opts := export.Options{
		Scale:       cfg.Export.Scale,
		FlipV:       cfg.Export.FlipV,
		FlipWinding: cfg.Export.FlipWinding,
	}
	if err := export.WriteOBJ(out, model, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing OBJ: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported: %s (%d vertices, %d meshes)\n", outPath, len(model.Vertices), len(model.Meshes))
}
