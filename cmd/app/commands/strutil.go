package commands

import (
	"fmt"
	"io"

	"github.com/allisson/keyvault/internal/strutil"
)

// RunHash writes the base64-encoded SHA-256 digest of value to out.
func RunHash(out io.Writer, value string) error {
	if value == "" {
		return fmt.Errorf("value must not be empty")
	}

	fmt.Fprintln(out, strutil.Hash(value))
	return nil
}

// RunMask writes a masked rendering of value to out, keeping visibleChars
// characters at each end.
func RunMask(out io.Writer, value string, visibleChars int) error {
	if value == "" {
		return fmt.Errorf("value must not be empty")
	}

	fmt.Fprintln(out, strutil.Mask(value, visibleChars))
	return nil
}

// RunRandomID writes a freshly generated identifier to out.
func RunRandomID(out io.Writer) error {
	fmt.Fprintln(out, strutil.RandomID())
	return nil
}
