// Package audio plays the backing track of a session.
package audio

import (
	"math"
	"os"
	"path"
	"strings"
	"time"

	"git.lost.host/meutraa/chorus/internal/catalog"
	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// SampleRate is the rate the speaker is opened at; tracks are resampled to it.
const SampleRate = beep.SampleRate(44100)

// Transport loops one track at a time through the speaker.
type Transport struct {
	logger *log.Logger
	volume float64

	ready  bool
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
}

// NewTransport plays at volume, a gain in [0, 1].
func NewTransport(volume float64, logger *log.Logger) *Transport {
	return &Transport{volume: volume, logger: logger}
}

func decode(file string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, err
	}
	switch strings.ToLower(path.Ext(file)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	f.Close()
	return nil, beep.Format{}, errors.Errorf("unsupported audio file %s", file)
}

// Play stops whatever is playing and loops t from the start.
func (a *Transport) Play(t catalog.Track) error {
	a.Stop()

	stream, format, err := decode(t.Path)
	if nil != err {
		return errors.Wrap(err, "unable to decode track")
	}
	if !a.ready {
		if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); nil != err {
			stream.Close()
			return errors.Wrap(err, "unable to open speaker")
		}
		a.ready = true
	}

	var s beep.Streamer = beep.Loop(-1, stream)
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, s)
	}
	a.stream = stream
	a.ctrl = &beep.Ctrl{Streamer: s}
	speaker.Play(gain(a.ctrl, a.volume))
	a.logger.Info("playing", "track", t.ID, "file", t.Path, "rate", format.SampleRate)
	return nil
}

func gain(s beep.Streamer, volume float64) beep.Streamer {
	v := &effects.Volume{Streamer: s, Base: 2}
	if volume <= 0 {
		v.Silent = true
	} else {
		v.Volume = math.Log2(math.Min(volume, 1))
	}
	return v
}

func (a *Transport) Pause() {
	a.setPaused(true)
}

func (a *Transport) Resume() {
	a.setPaused(false)
}

func (a *Transport) setPaused(paused bool) {
	if nil == a.ctrl {
		return
	}
	speaker.Lock()
	a.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop silences the track and releases it. It is safe to call when nothing
// is playing.
func (a *Transport) Stop() {
	if nil == a.ctrl {
		return
	}
	speaker.Lock()
	// a nil streamer reads as drained, so the mixer drops it
	a.ctrl.Streamer = nil
	speaker.Unlock()
	if err := a.stream.Close(); nil != err {
		a.logger.Warn("unable to close track", "err", err)
	}
	a.ctrl, a.stream = nil, nil
}

// Silent is a transport for playing without sound.
type Silent struct{}

func (Silent) Play(catalog.Track) error { return nil }
func (Silent) Pause()                   {}
func (Silent) Resume()                  {}
func (Silent) Stop()                    {}
