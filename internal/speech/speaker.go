package speech

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Synthesizer turns question text into playable audio.
type Synthesizer interface {
	TextToSpeech(ctx context.Context, text string) ([]byte, error)
}

// Player plays one audio clip and returns when playback ends.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Speaker voices interview questions. Calls are single-flight: a second
// Speak with the text already being played is coalesced into the ongoing
// playback, so a double-triggered question is never read out twice. A muted
// speaker resolves immediately without synthesizing anything.
type Speaker struct {
	synth  Synthesizer
	player Player
	logger *zap.Logger

	mu         sync.Mutex
	cond       *sync.Cond
	muted      bool
	inFlight   bool
	lastSpoken string
}

func NewSpeaker(synth Synthesizer, player Player, logger *zap.Logger) *Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Speaker{synth: synth, player: player, logger: logger}
	s.cond = sync.NewCond(&s.mu)

	return s
}

func (s *Speaker) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

func (s *Speaker) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.muted
}

// Speak synthesizes and plays the text, blocking until playback ends.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.muted {
		s.mu.Unlock()
		return nil
	}
	// A caller queued behind different text must not sleep on the cond past
	// its context; the watcher wakes the wait so the loop can see the error.
	stopWake := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer stopWake()

	for s.inFlight {
		if s.lastSpoken == text {
			// Same text already on its way out.
			s.mu.Unlock()
			return nil
		}
		if err := ctx.Err(); err != nil {
			s.mu.Unlock()
			return err
		}
		s.cond.Wait()
	}
	s.inFlight = true
	s.lastSpoken = text
	s.mu.Unlock()

	// Both trackers reset once playback is over, whatever the outcome.
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.lastSpoken = ""
		s.cond.Broadcast()
		s.mu.Unlock()
	}()

	audio, err := s.synth.TextToSpeech(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesizing speech: %w", err)
	}

	if err := s.player.Play(ctx, audio); err != nil {
		return fmt.Errorf("playing speech: %w", err)
	}

	return nil
}
