// Package convert runs the PLY to glTF pipeline: load, parse, transcode,
// build the scene document, save, and optionally dump a PLY for round-trip
// checks.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/ply2gltf/internal/logger"
	"github.com/Faultbox/ply2gltf/pkg/formats"
	"github.com/Faultbox/ply2gltf/pkg/gltfdoc"
	"github.com/Faultbox/ply2gltf/pkg/math"
	"github.com/Faultbox/ply2gltf/pkg/splat"
)

// Options configures a pipeline run.
type Options struct {
	Input     string
	OutputDir string // empty means current directory
	ZUpToYUp  bool
	Dump      bool
	Workers   int

	Generator  string
	Kernel     string
	ColorSpace string
	JSONIndent int
}

// Report summarizes a finished run.
type Report struct {
	Input        string
	Vertices     uint32
	Degree       int
	SourceStride uint32
	Stride       uint32
	Bounds       math.Box3
	Converted    bool

	BinPath  string
	GLTFPath string
	DumpPath string // empty unless Options.Dump
}

// Run converts opts.Input and writes <stem>.bin and <stem>.gltf into
// opts.OutputDir.
func Run(opts Options) (*Report, error) {
	log := logger.Named("convert")

	if opts.ZUpToYUp {
		log.Info("Converting from z-up right-handed to y-up right-handed coordinate system")
	} else {
		log.Info("No conversion, assuming y-up right-handed coordinate system")
	}

	log.Info("Loading", zap.String("path", opts.Input))
	data, err := loadFile(opts.Input)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded", zap.String("path", opts.Input), zap.Int("bytes", len(data)))

	log.Info("Parsing PLY header")
	ply, err := formats.ParsePLY(data)
	if err != nil {
		return nil, fmt.Errorf("parsing '%s': %w", opts.Input, err)
	}
	log.Debug("PLY header",
		zap.Uint32("vertices", ply.Header.VertexCount),
		zap.Int("degree", ply.Header.Degree),
		zap.Uint32("stride", ply.Header.Layout.Stride),
		zap.Strings("properties", ply.Header.Properties))

	log.Info("Processing PLY binary data", zap.Int("workers", max(opts.Workers, 1)))
	res, err := splat.Transcode(ply, splat.Options{Convert: opts.ZUpToYUp, Workers: opts.Workers})
	if err != nil {
		return nil, fmt.Errorf("transcoding '%s': %w", opts.Input, err)
	}

	binPath, gltfPath, dumpPath := outputPaths(opts.Input, opts.OutputDir)

	doc := gltfdoc.Build(res, gltfdoc.Options{
		BufferURI:  filepath.Base(binPath),
		Generator:  opts.Generator,
		Kernel:     opts.Kernel,
		ColorSpace: opts.ColorSpace,
	})

	if err := saveFile(res.Buffer, binPath); err != nil {
		return nil, err
	}
	log.Info("Saved", zap.String("path", binPath))

	var out bytes.Buffer
	if err := gltfdoc.Encode(&out, doc, opts.JSONIndent); err != nil {
		return nil, err
	}
	if err := saveFile(out.Bytes(), gltfPath); err != nil {
		return nil, err
	}
	log.Info("Saved", zap.String("path", gltfPath))

	report := &Report{
		Input:        opts.Input,
		Vertices:     res.Count,
		Degree:       res.Layout.Degree,
		SourceStride: ply.Header.Layout.Stride,
		Stride:       res.Layout.Stride,
		Bounds:       res.Bounds,
		Converted:    opts.ZUpToYUp,
		BinPath:      binPath,
		GLTFPath:     gltfPath,
	}

	if opts.Dump {
		dumped, err := splat.DumpPLYBytes(res.Buffer, res.Count, res.Layout)
		if err != nil {
			return nil, fmt.Errorf("could not create PLY dump: %w", err)
		}
		if err := saveFile(dumped, dumpPath); err != nil {
			return nil, err
		}
		log.Info("Saved", zap.String("path", dumpPath))
		report.DumpPath = dumpPath
	}

	log.Info("Success", zap.Uint32("vertices", res.Count), zap.Int("degree", res.Layout.Degree))
	return report, nil
}

// DumpScene reads a previously written .gltf and writes its splats back out
// as a PLY file at out. Coordinate conversion is not reversed.
func DumpScene(path, out string) (uint32, error) {
	log := logger.Named("dump")

	log.Info("Loading", zap.String("path", path))
	scene, err := gltfdoc.Open(path)
	if err != nil {
		if errors.Is(err, gltfdoc.ErrNotGaussianSplat) || errors.Is(err, gltfdoc.ErrUnexpectedLayout) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}
	log.Debug("Scene",
		zap.Uint32("vertices", scene.Count),
		zap.Int("degree", scene.Layout.Degree),
		zap.Uint32("stride", scene.Layout.Stride))

	dumped, err := splat.DumpPLYBytes(scene.Buffer, scene.Count, scene.Layout)
	if err != nil {
		return 0, fmt.Errorf("could not create PLY dump: %w", err)
	}
	if err := saveFile(dumped, out); err != nil {
		return 0, err
	}
	log.Info("Saved", zap.String("path", out))
	return scene.Count, nil
}

// Inspect parses the header of a PLY file without transcoding it.
func Inspect(path string) (*formats.PLYHeader, error) {
	data, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	ply, err := formats.ParsePLY(data)
	if err != nil {
		return nil, fmt.Errorf("parsing '%s': %w", path, err)
	}
	return ply.Header, nil
}
