// Package main provides the entry point for the arenalink CLI tool.
package main

import "github.com/deckhaven/arenalink/cmd/arenalink/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
