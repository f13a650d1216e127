package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/skekre98/modhost/core"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a failed command to the process status: 2 for an unusable
// module graph, 3 when a required module faulted and 1 for anything else.
func exitCode(err error) int {
	var required *core.RequiredModuleError
	switch {
	case core.IsResolutionError(err):
		return 2
	case errors.As(err, &required):
		return 3
	default:
		return 1
	}
}
