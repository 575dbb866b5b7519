package main

import (
	"flag"
	"testing"

	"github.com/Faultbox/ply2gltf/internal/config"
)

func TestParseInterspersed(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		positional []string
		convert    bool
		dump       bool
		output     string
	}{
		{"flags after file", []string{"scene.ply", "--convert", "--dump"}, []string{"scene.ply"}, true, true, ""},
		{"flags before file", []string{"-convert", "-o", "out", "scene.ply"}, []string{"scene.ply"}, true, false, "out"},
		{"mixed", []string{"a.gltf", "-debug", "b.ply"}, []string{"a.gltf", "b.ply"}, false, false, ""},
		{"no args", nil, nil, false, false, ""},
		{"terminator", []string{"--", "-odd.ply"}, []string{"-odd.ply"}, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags config.Flags
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			flags.Register(fs)

			got := parseInterspersed(fs, tt.args)
			if len(got) != len(tt.positional) {
				t.Fatalf("expected positional %v, got %v", tt.positional, got)
			}
			for i := range got {
				if got[i] != tt.positional[i] {
					t.Errorf("positional[%d]: expected %s, got %s", i, tt.positional[i], got[i])
				}
			}
			if flags.Convert != tt.convert {
				t.Errorf("expected convert=%v, got %v", tt.convert, flags.Convert)
			}
			if flags.Dump != tt.dump {
				t.Errorf("expected dump=%v, got %v", tt.dump, flags.Dump)
			}
			if flags.OutputDir != tt.output {
				t.Errorf("expected output %q, got %q", tt.output, flags.OutputDir)
			}
		})
	}
}
