package speech

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSynth struct {
	calls int32
}

func (s *stubSynth) TextToSpeech(_ context.Context, text string) ([]byte, error) {
	atomic.AddInt32(&s.calls, 1)

	return []byte("audio:" + text), nil
}

type gatePlayer struct {
	plays   int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatePlayer() *gatePlayer {
	return &gatePlayer{started: make(chan struct{}), release: make(chan struct{})}
}

func (p *gatePlayer) Play(_ context.Context, _ []byte) error {
	atomic.AddInt32(&p.plays, 1)
	p.once.Do(func() { close(p.started) })
	<-p.release

	return nil
}

func TestSpeakCoalescesSameTextInFlight(t *testing.T) {
	player := newGatePlayer()
	speaker := NewSpeaker(&stubSynth{}, player, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, speaker.Speak(context.Background(), "Hello"))
	}()

	<-player.started

	// Second call with the same text while the first is still playing.
	require.NoError(t, speaker.Speak(context.Background(), "Hello"))

	close(player.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&player.plays))
}

func TestSpeakSequentialPlaysEachTime(t *testing.T) {
	synth := &stubSynth{}
	player := newGatePlayer()
	close(player.release) // playback returns immediately
	speaker := NewSpeaker(synth, player, nil)

	require.NoError(t, speaker.Speak(context.Background(), "Hello"))
	require.NoError(t, speaker.Speak(context.Background(), "Hello"))

	// The memo resets once playback finishes, so a repeated question after
	// the first one ends is spoken again.
	assert.Equal(t, int32(2), atomic.LoadInt32(&player.plays))
	assert.Equal(t, int32(2), atomic.LoadInt32(&synth.calls))
}

func TestSpeakMutedResolvesImmediately(t *testing.T) {
	synth := &stubSynth{}
	player := newGatePlayer() // would block forever if touched
	speaker := NewSpeaker(synth, player, nil)
	speaker.SetMuted(true)

	require.NoError(t, speaker.Speak(context.Background(), "Hello"))

	assert.Equal(t, int32(0), atomic.LoadInt32(&player.plays))
	assert.Equal(t, int32(0), atomic.LoadInt32(&synth.calls))
}

func TestSpeakCanceledWhileQueuedReturns(t *testing.T) {
	player := newGatePlayer()
	speaker := NewSpeaker(&stubSynth{}, player, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, speaker.Speak(context.Background(), "first"))
	}()

	<-player.started

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- speaker.Speak(ctx, "second")
	}()

	// The queued caller gives up without waiting for the first playback.
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	close(player.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&player.plays))
}

func TestSpeakDifferentTextWaitsForTurn(t *testing.T) {
	player := newGatePlayer()
	speaker := NewSpeaker(&stubSynth{}, player, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, speaker.Speak(context.Background(), "first"))
	}()

	<-player.started
	go func() {
		defer wg.Done()
		assert.NoError(t, speaker.Speak(context.Background(), "second"))
	}()

	close(player.release)
	wg.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&player.plays))
}
