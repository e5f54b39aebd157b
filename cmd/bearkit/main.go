package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode prints err and maps it to the process status: 1 when the run
// found problems, 2 for anything else.
func exitCode(err error) int {
	if errors.Is(err, errDiagnostics) {
		return 1
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	return 2
}
