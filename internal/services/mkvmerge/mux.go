package mkvmerge

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Mux executes mkvmerge with the provided argument list. The arguments are
// passed through verbatim; building them is the mux plan's job.
func Mux(ctx context.Context, binary string, args []string) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mkvmerge"
	}
	if len(args) == 0 {
		return errors.New("mkvmerge mux: empty argument list")
	}

	cmd := commandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mkvmerge mux: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
