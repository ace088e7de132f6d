// tailcfg loads a Tailwind style document, validates it against the enabled plugins,
// renders the files the Tailwind standalone binary reads and runs the binary.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
