// Command matchctl matches résumé files against a job catalog from the
// command line. Reports are written to stdout as JSON; logs go to stderr.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
