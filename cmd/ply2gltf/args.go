package main

import "flag"

// parseInterspersed parses fs allowing flags after positional arguments,
// so both "convert -dump a.ply" and "convert a.ply --dump" work.
func parseInterspersed(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return positional
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
