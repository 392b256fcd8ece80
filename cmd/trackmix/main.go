package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// main defers all behaviour to the cobra command tree in root.go. A
// cancelled context (Ctrl-C mid-encode) exits non-zero without the noise of
// an error line.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "trackmix: %v\n", err)
		}
		os.Exit(1)
	}
}
