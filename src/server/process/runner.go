// Package process runs the external checker and turns its byte stream into
// discrete output lines.
package process

import (
	"context"
	"io"
	"os"
	"os/exec"

	"livecode-ls/src/internal/common"
	"livecode-ls/src/internal/errors"
	"livecode-ls/src/internal/textio"
)

// Mode selects how the checker receives the document
type Mode int

const (
	// ModeFile passes the document's file path as the last argument and
	// lets the checker read it from disk.
	ModeFile Mode = iota
	// ModeStdin writes the in-memory document text to the checker's
	// standard input and never touches the file on disk.
	ModeStdin
)

// Request describes one checker invocation
type Request struct {
	Executable string
	Args       []string
	Mode       Mode
	// FilePath is appended to Args in ModeFile
	FilePath string
	// Input is written to stdin in ModeStdin
	Input string
	// Dir is the working directory; empty means inherit
	Dir string
	// UserDefined marks an executable that came from user settings, which
	// changes the spawn error message.
	UserDefined bool
}

// Result is the structured outcome of a completed checker run
type Result struct {
	// Lines are the complete stdout lines, including a trailing partial
	// line flushed at stream end.
	Lines []string
	// ExitErr is the process exit error, if any. Checkers exit non-zero
	// when they find problems, so this is not a failure by itself.
	ExitErr error
}

// Runner executes checker processes
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// ExecRunner is the os/exec based Runner
type ExecRunner struct{}

// NewExecRunner creates a new exec-based runner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run spawns the checker, feeds it the document, and blocks until the
// process exits and its stdout stream is fully decoded. A failure to start
// the process is a SpawnError; failures while streaming are ProcessErrors.
// A started process is never killed early on a newer trigger - the newest
// completed run's diagnostics simply replace the older ones.
func (r *ExecRunner) Run(ctx context.Context, req Request) (*Result, error) {
	args := append([]string{}, req.Args...)
	if req.Mode == ModeFile && req.FilePath != "" {
		args = append(args, req.FilePath)
	}

	cmd := exec.CommandContext(ctx, req.Executable, args...)
	if req.Dir != "" {
		cmd.Dir = req.Dir
	} else if wd, err := os.Getwd(); err == nil {
		cmd.Dir = wd
	}

	var stdin io.WriteCloser
	if req.Mode == ModeStdin {
		pipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, errors.NewProcessError(req.Executable, "stdin", err)
		}
		stdin = pipe
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.NewProcessError(req.Executable, "stdout", err)
	}
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, errors.NewSpawnError(req.Executable, req.UserDefined, err)
	}
	common.CheckLogger.Debug("Started checker %s: PID %d", req.Executable, cmd.Process.Pid)

	if stdin != nil {
		if _, err := io.WriteString(stdin, req.Input); err != nil {
			common.CheckLogger.Warn("Failed to write document to checker stdin: %v", err)
		}
		stdin.Close()
	}

	decoder := textio.NewLineDecoder()
	var lines []string
	buf := make([]byte, 4096)
	for {
		n, readErr := stdout.Read(buf)
		if n > 0 {
			lines = append(lines, decoder.Write(buf[:n])...)
		}
		if readErr != nil {
			if readErr != io.EOF {
				common.CheckLogger.Warn("Checker stdout read error: %v", readErr)
			}
			break
		}
	}
	if last, ok := decoder.End(); ok {
		lines = append(lines, last)
	}

	exitErr := cmd.Wait()
	common.CheckLogger.Debug("Checker %s finished with %d output lines", req.Executable, len(lines))

	return &Result{
		Lines:   lines,
		ExitErr: exitErr,
	}, nil
}
