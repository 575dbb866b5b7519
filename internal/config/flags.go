package config

import "flag"

// Flags holds command-line overrides for a subcommand.
type Flags struct {
	Config    string
	Debug     bool
	Convert   bool
	Dump      bool
	OutputDir string
	Workers   int
	LogFile   string
}

// Register binds the override flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Convert, "convert", false, "Convert from z-up to y-up")
	fs.BoolVar(&f.Dump, "dump", false, "Also write <name>_dump.ply")
	fs.StringVar(&f.OutputDir, "o", "", "Output directory")
	fs.IntVar(&f.Workers, "workers", 0, "Parallel transcode workers")
	fs.StringVar(&f.LogFile, "log", "", "Log file path")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Convert {
		cfg.Convert.ZUpToYUp = true
	}
	if f.Dump {
		cfg.Convert.Dump = true
	}
	if f.OutputDir != "" {
		cfg.Convert.OutputDir = f.OutputDir
	}
	if f.Workers > 0 {
		cfg.Convert.Workers = f.Workers
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
