package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxRecording is the hard ceiling on one answer recording.
const DefaultMaxRecording = 2 * time.Minute

// ErrNoRecorder means no recorder command is configured; callers fall back
// to typed answers for the rest of the session.
var ErrNoRecorder = errors.New("no recorder command configured")

// Recorder captures microphone audio through an external command (sox, arecord,
// "ffmpeg -f alsa -i default", ...) that writes to the file path appended as
// its last argument. Recording stops on the stop signal, the duration ceiling,
// or context cancellation, whichever comes first.
type Recorder struct {
	command []string
	max     time.Duration
	logger  *zap.Logger
}

func NewRecorder(command []string, max time.Duration, logger *zap.Logger) *Recorder {
	if max <= 0 {
		max = DefaultMaxRecording
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recorder{command: command, max: max, logger: logger}
}

// Record captures one answer and returns the raw audio bytes.
func (r *Recorder) Record(ctx context.Context, stop <-chan struct{}) ([]byte, error) {
	if len(r.command) == 0 {
		return nil, ErrNoRecorder
	}

	dir, err := os.MkdirTemp("", "voxhire-rec-")
	if err != nil {
		return nil, fmt.Errorf("creating recording dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, uuid.NewString()+".wav")

	recCtx, cancel := context.WithTimeout(ctx, r.max)
	defer cancel()

	args := append(append([]string{}, r.command[1:]...), path)
	cmd := exec.CommandContext(recCtx, r.command[0], args...)
	// Recorders flush their file on SIGINT; a hard kill would truncate it.
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting recorder %s: %w", r.command[0], err)
	}

	r.logger.Debug("recording answer",
		zap.String("recorder", r.command[0]), zap.Duration("max", r.max))

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-stop:
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			r.logger.Warn("stopping recorder", zap.Error(err))
		}
		<-done
	case err := <-done:
		// Hitting the ceiling interrupts the recorder; that exit status is
		// expected, anything else is a real failure.
		if err != nil && recCtx.Err() == nil {
			return nil, fmt.Errorf("recorder %s: %w", r.command[0], err)
		}
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("recorder produced no audio")
	}

	return audio, nil
}
