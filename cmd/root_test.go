package cmd_test

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml/cmd"
	"github.com/spf13/cobra"
)

func failErr(t *testing.T, err error, context ...string) {
	t.Helper()
	ctx := strings.Join(context, "; ")
	if err != nil {
		t.Fatal(ctx, ": ", err)
	}
}

// tExec executes the given `cmd`, which will be writing its output to `w`, and
// can be read from `out`. It will fail the test if the command does not return
// within 1 second. Useful for testing help messages and such.
func tExec(t *testing.T, cmd *cobra.Command, out io.Reader, w io.WriteCloser) (output []byte, err error) {
	t.Helper()
	done := make(chan struct{})
	var readErr error
	go func() {
		output, readErr = io.ReadAll(out)
		close(done)
	}()
	err = cmd.Execute()
	if err := w.Close(); err != nil {
		t.Fatalf("closing cmd's stdout: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second * 1):
		t.Fatal("Test failed due to command execution timeout")
	}
	failErr(t, readErr, "reading command output")
	return output, err
}

// ExecNewRootCommand executes the witsml root command with the given arguments
// and returns its output. It will fail if the command does not complete within
// 1 second.
func ExecNewRootCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, w := io.Pipe()
	rc := cmd.NewRootCommand(os.Stdin, w, w)
	rc.SetArgs(args)
	output, err := tExec(t, rc, out, w)
	return string(output), err
}

func TestRootCommand(t *testing.T) {
	outStr, err := ExecNewRootCommand(t, "--help")
	failErr(t, err, "executing --help")
	if !strings.Contains(outStr, "Usage:") ||
		!strings.Contains(outStr, "Available Commands:") ||
		!strings.Contains(outStr, "--help") {
		t.Fatalf("Expected standard usage message from RootCommand, but got: %s", outStr)
	}
	for _, sub := range []string{"server", "call", "config", "generate-config"} {
		if !strings.Contains(outStr, sub) {
			t.Fatalf("Expected subcommand %s in usage message, but got: %s", sub, outStr)
		}
	}
}

func TestGenerateConfigCommand(t *testing.T) {
	outStr, err := ExecNewRootCommand(t, "generate-config")
	failErr(t, err, "executing generate-config")
	if !strings.Contains(outStr, "data-dir") || !strings.Contains(outStr, "[store]") {
		t.Fatalf("Expected default config, but got: %s", outStr)
	}
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("WITSML_STORE_MAX_RETURN_NODES", "77")
	outStr, err := ExecNewRootCommand(t, "config", "--bind", "localhost:9999", "--auth.users", "alice=secret")
	failErr(t, err, "executing config")
	for _, want := range []string{`bind = "localhost:9999"`, "max-return-nodes = 77", `alice = "secret"`} {
		if !strings.Contains(outStr, want) {
			t.Fatalf("Expected %q in config output, but got: %s", want, outStr)
		}
	}
}

func TestCallCommandArgs(t *testing.T) {
	_, err := ExecNewRootCommand(t, "call")
	if err == nil {
		t.Fatal("expected an error calling without a function")
	}
}
