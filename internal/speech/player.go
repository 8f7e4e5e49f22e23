package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// CommandPlayer shells out to an audio player (afplay, aplay,
// "ffplay -nodisp -autoexit", ...). The clip path is appended as the last
// argument.
type CommandPlayer struct {
	command []string
	logger  *zap.Logger
}

func NewCommandPlayer(command []string, logger *zap.Logger) *CommandPlayer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CommandPlayer{command: command, logger: logger}
}

func (p *CommandPlayer) Play(ctx context.Context, audio []byte) error {
	if len(p.command) == 0 {
		return fmt.Errorf("no player command configured")
	}
	if len(audio) == 0 {
		return fmt.Errorf("empty audio clip")
	}

	clip, err := os.CreateTemp("", "voxhire-tts-*.mp3")
	if err != nil {
		return fmt.Errorf("creating audio temp file: %w", err)
	}
	defer os.Remove(clip.Name())

	if _, err := clip.Write(audio); err != nil {
		clip.Close()
		return fmt.Errorf("writing audio temp file: %w", err)
	}
	if err := clip.Close(); err != nil {
		return err
	}

	args := append(append([]string{}, p.command[1:]...), clip.Name())
	cmd := exec.CommandContext(ctx, p.command[0], args...)

	p.logger.Debug("playing audio clip",
		zap.String("player", p.command[0]), zap.Int("bytes", len(audio)))

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("player %s: %w: %s", p.command[0], err, out)
	}

	return nil
}
