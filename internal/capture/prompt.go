package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// ErrCheckpointAborted is returned when input ends before the operator acknowledged a checkpoint.
var ErrCheckpointAborted = errors.New("operator checkpoint aborted: input closed")

const (
	loginCheckpointMessage = `
============================================================
MANUAL LOGIN REQUIRED
============================================================
A browser window should have opened.
Please sign in using the browser window.
Once you're signed in and can see the incidents page,
come back here and press ENTER to continue...
============================================================
Press ENTER after you've signed in: `

	triggerCheckpointMessage = `
==================================================
If you need to perform any manual actions
in the browser to trigger API calls, do so now.
Press ENTER when ready to finish capture...
==================================================
Press ENTER to finish: `
)

// Prompter blocks until the operator acknowledges a checkpoint.
type Prompter interface {
	Checkpoint(ctx context.Context, message string) error
}

// LinePrompter writes a message and waits for one line of input. There is no
// timeout; only context cancellation ends the wait early.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter over the given streams
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// NewTerminalPrompter prompts on stdin/stdout and warns when stdin is not a
// terminal, since piped input will satisfy checkpoints without a human.
func NewTerminalPrompter(logger zerolog.Logger) *LinePrompter {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Warn().Msg("stdin is not a terminal; checkpoints will consume piped input")
	}
	return NewLinePrompter(os.Stdin, os.Stdout)
}

// Checkpoint prints message and blocks until a line is read. A reader left
// blocked by cancellation is abandoned with the prompter.
func (p *LinePrompter) Checkpoint(ctx context.Context, message string) error {
	if _, err := fmt.Fprint(p.out, message); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		if err != nil && len(line) > 0 && errors.Is(err, io.EOF) {
			err = nil
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if errors.Is(err, io.EOF) {
			return ErrCheckpointAborted
		}
		if err != nil {
			return fmt.Errorf("failed to read operator input: %w", err)
		}
		return nil
	}
}
