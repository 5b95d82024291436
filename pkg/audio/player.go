package audio

import (
	"bytes"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	chimeSampleRate = 44100
	chimeChannels   = 1
)

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// Player manages chime playback with cancellation support
type Player struct {
	stopChan chan struct{}
	player   *oto.Player
	stopped  bool
	mu       sync.Mutex
}

// InitContext initializes the global audio context once
func InitContext() {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   chimeSampleRate,
			ChannelCount: chimeChannels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Println("Audio context initialized successfully")
	})
}

// PlayChime plays the notification chime once and returns a Player that can
// stop it early. Returns nil if audio is unavailable.
func PlayChime() *Player {
	InitContext()

	if !audioCtxReady || globalAudioCtx == nil {
		return nil
	}

	p := &Player{
		stopChan: make(chan struct{}),
	}

	// Play the sound in a goroutine so it doesn't block
	go p.play(chimePCM())

	return p
}

func (p *Player) play(pcm []byte) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.player = globalAudioCtx.NewPlayer(bytes.NewReader(pcm))
	p.mu.Unlock()

	// Play starts playing the sound and returns without waiting
	p.player.Play()

	for p.player.IsPlaying() {
		select {
		case <-p.stopChan:
			p.player.Pause()
			p.player.Close()
			return
		case <-time.After(10 * time.Millisecond):
			// Continue checking
		}
	}

	if err := p.player.Close(); err != nil {
		log.Printf("Failed to close audio player: %v", err)
	}
}

// Stop stops the chime playback
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)

		// Also try to pause the current player if it exists
		if p.player != nil {
			p.player.Pause()
		}
	}
}
