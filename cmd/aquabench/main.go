// cmd/aquabench/main.go
package main

import (
	cmd "github.com/mwiater/aquabench/internal/commands"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the aquabench CLI application by delegating to the
// cobra root command defined in the aquabench package.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
