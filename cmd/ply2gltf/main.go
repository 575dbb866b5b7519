// ply2gltf converts 3D Gaussian Splatting PLY files to glTF 2.0 with the
// KHR_gaussian_splatting extension.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Faultbox/ply2gltf/internal/config"
	"github.com/Faultbox/ply2gltf/internal/convert"
	"github.com/Faultbox/ply2gltf/internal/logger"
	"github.com/Faultbox/ply2gltf/pkg/formats"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "convert", "c":
		cmdConvert(args)
	case "dump", "d":
		cmdDump(args)
	case "info", "i":
		cmdInfo(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		// ply2gltf <file> [--convert] [--dump]
		if isInputFile(command) {
			cmdConvert(os.Args[1:])
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// isInputFile reports whether arg names a file to convert rather than a
// subcommand: any existing regular file, or a path ending in .ply.
func isInputFile(arg string) bool {
	if strings.EqualFold(filepath.Ext(arg), ".ply") {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && info.Mode().IsRegular()
}

func printUsage() {
	fmt.Println(`ply2gltf - 3D Gaussian Splatting PLY to glTF converter

Usage:
  ply2gltf <command> [options]
  ply2gltf <file> [--convert] [--dump]

Commands:
  convert <file.ply> [--convert] [--dump] [-o dir] [-workers n]
                                     Convert to <name>.gltf and <name>.bin
  dump <file.gltf> [output.ply]      Write a converted scene back to PLY
  info <file.ply>                    Show PLY header information
  config [-save] [-o path]           Print or save the effective config

Common options:
  -config <path>   Config file (default ./ply2gltf.yaml or the user config dir)
  -debug           Enable debug logging
  -log <path>      Also log to a rotating file

Examples:
  ply2gltf convert garden.ply --convert
  ply2gltf convert garden.ply --dump -o out
  ply2gltf dump out/garden.gltf
  ply2gltf info garden.ply`)
}

// setup loads the config for a subcommand and initializes logging.
func setup(flags *config.Flags) *config.Config {
	cfg, err := config.Load(flags)
	if err != nil {
		fail(err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.FileConfig(), os.Stderr); err != nil {
		fail(err)
	}
	return cfg
}

// fail prints err and exits with status 1.
func fail(err error) {
	logger.Sync()
	printError(os.Stderr, err)
	os.Exit(1)
}

// printError writes the single diagnostic line for a failed command.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}

func cmdConvert(args []string) {
	var flags config.Flags
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	flags.Register(fs)
	positional := parseInterspersed(fs, args)

	if len(positional) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ply2gltf convert <file.ply> [--convert] [--dump] [-o dir]")
		os.Exit(1)
	}

	cfg := setup(&flags)
	defer logger.Sync()

	report, err := convert.Run(convert.Options{
		Input:      positional[0],
		OutputDir:  cfg.Convert.OutputDir,
		ZUpToYUp:   cfg.Convert.ZUpToYUp,
		Dump:       cfg.Convert.Dump,
		Workers:    cfg.Convert.Workers,
		Generator:  cfg.Scene.Generator,
		Kernel:     cfg.Scene.Kernel,
		ColorSpace: cfg.Scene.ColorSpace,
		JSONIndent: cfg.Scene.JSONIndent,
	})
	if err != nil {
		fail(err)
	}

	printer.Printf("Vertices: %d (SH degree %d)\n", report.Vertices, report.Degree)
	printer.Printf("Stride:   %d -> %d bytes\n", report.SourceStride, report.Stride)
	fmt.Printf("Bounds:   [%g %g %g] - [%g %g %g]\n",
		report.Bounds.Min.X, report.Bounds.Min.Y, report.Bounds.Min.Z,
		report.Bounds.Max.X, report.Bounds.Max.Y, report.Bounds.Max.Z)
	fmt.Printf("Wrote:    %s, %s\n", report.GLTFPath, report.BinPath)
	if report.DumpPath != "" {
		fmt.Printf("Dumped:   %s\n", report.DumpPath)
	}
}

func cmdDump(args []string) {
	var flags config.Flags
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	flags.Register(fs)
	positional := parseInterspersed(fs, args)

	if len(positional) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ply2gltf dump <file.gltf> [output.ply]")
		os.Exit(1)
	}

	setup(&flags)
	defer logger.Sync()

	input := positional[0]
	output := strings.TrimSuffix(input, filepath.Ext(input)) + "_dump.ply"
	if len(positional) > 1 {
		output = positional[1]
	}

	count, err := convert.DumpScene(input, output)
	if err != nil {
		fail(err)
	}
	printer.Printf("Dumped %d vertices to %s\n", count, output)
}

func cmdInfo(args []string) {
	var flags config.Flags
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	flags.Register(fs)
	positional := parseInterspersed(fs, args)

	if len(positional) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ply2gltf info <file.ply>")
		os.Exit(1)
	}

	setup(&flags)
	defer logger.Sync()

	header, err := convert.Inspect(positional[0])
	if err != nil {
		fail(err)
	}

	fmt.Printf("File:       %s\n", positional[0])
	printer.Printf("Vertices:   %d\n", header.VertexCount)
	fmt.Printf("SH degree:  %d (%d rest coefficients)\n", header.Degree, header.RestCount)
	printer.Printf("Stride:     %d bytes\n", header.Layout.Stride)
	printer.Printf("Payload:    %d bytes\n", header.VertexDataSize())
	fmt.Println()
	fmt.Println("Attributes:")
	for a := formats.PLYPosition; a <= formats.PLYHigherSH; a++ {
		if off, ok := header.Layout.Offset(a); ok {
			fmt.Printf("  %-10s offset %d\n", a, off)
		}
	}
	fmt.Printf("\nProperties: %d\n", len(header.Properties))
}

func cmdConfig(args []string) {
	var flags config.Flags
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	flags.Register(fs)
	save := fs.Bool("save", false, "Save to the user config directory (or -o path)")
	fs.Parse(args)

	cfg, err := config.Load(&flags)
	if err != nil {
		fail(err)
	}

	if !*save {
		data, err := cfg.Marshal()
		if err != nil {
			fail(err)
		}
		os.Stdout.Write(data)
		return
	}

	// -o names the target file for config, not an output directory
	path := flags.OutputDir
	cfg.Convert.OutputDir = ""
	if path == "" {
		path, err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		fail(err)
	}
	fmt.Printf("Saved: %s\n", path)
}
