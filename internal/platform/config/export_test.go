package config

import (
	"io"
	"testing"
)

// SetExitHooks swaps the stderr writer and exit function for the duration of
// the test.
func SetExitHooks(t *testing.T, w io.Writer, fn func(int)) {
	t.Helper()
	prevStderr, prevExit := stderr, exit
	stderr, exit = w, fn
	t.Cleanup(func() {
		stderr, exit = prevStderr, prevExit
	})
}
