package audio

import (
	"bytes"
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"personachat/core"
)

// ExecOutput plays audio by piping it to a local player command, e.g.
// "mpv -" or "ffplay -autoexit -nodisp -". Pause and resume are done with
// SIGSTOP/SIGCONT, so it is Unix-only.
type ExecOutput struct {
	mu     sync.Mutex
	name   string
	args   []string
	cmd    *exec.Cmd
	logger *core.Logger
}

// NewExecOutput creates an ExecOutput from a command name and arguments.
// The audio payload is written to the command's stdin.
func NewExecOutput(name string, args []string, logger *core.Logger) *ExecOutput {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &ExecOutput{name: name, args: args, logger: logger}
}

func (o *ExecOutput) Start(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopLocked()

	cmd := exec.Command(o.name, o.args...)
	cmd.Stdin = bytes.NewReader(data)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("audio: start %q: %w", o.name, err)
	}
	o.cmd = cmd

	// Reap the process when playback finishes on its own.
	go func() {
		_ = cmd.Wait()
		o.mu.Lock()
		if o.cmd == cmd {
			o.cmd = nil
		}
		o.mu.Unlock()
	}()
	return nil
}

func (o *ExecOutput) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cmd == nil || o.cmd.Process == nil {
		return nil
	}
	return o.cmd.Process.Signal(syscall.SIGSTOP)
}

func (o *ExecOutput) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cmd == nil || o.cmd.Process == nil {
		return nil
	}
	return o.cmd.Process.Signal(syscall.SIGCONT)
}

func (o *ExecOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	return nil
}

func (o *ExecOutput) stopLocked() {
	if o.cmd != nil && o.cmd.Process != nil {
		_ = o.cmd.Process.Kill()
	}
	o.cmd = nil
}
