// Package mic provides microphone amplitude sources polled once per tick.
//
// Live capture is platform specific; the shell plays a recorded breath track
// instead, which keeps sessions reproducible.
package mic

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Source reports the current input amplitude in [0, 1].
type Source interface {
	Level() float64
}

// Silent is the absent microphone.
type Silent struct{}

// Level always returns 0.
func (Silent) Level() float64 { return 0 }

// Func adapts a plain function to Source.
type Func func() float64

// Level calls f.
func (f Func) Level() float64 { return f() }

// WAVSource replays a WAV stream one tick window at a time and reports the
// RMS amplitude of each window. An exhausted or broken stream reads as silence.
type WAVSource struct {
	stream beep.StreamSeekCloser
	format beep.Format
	window [][2]float64
	gain   float64
	done   bool
}

// Open decodes the WAV file at path for polling at tickRate Hz.
func Open(path string, tickRate int) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mic: open %s: %w", path, err)
	}

	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mic: decode %s: %w", path, err)
	}

	return NewWAVSource(stream, format, tickRate), nil
}

// NewWAVSource wraps an already decoded stream.
func NewWAVSource(stream beep.StreamSeekCloser, format beep.Format, tickRate int) *WAVSource {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &WAVSource{
		stream: stream,
		format: format,
		window: make([][2]float64, samplesPerTick(format.SampleRate, tickRate)),
		gain:   decoderGain(format),
	}
}

// samplesPerTick rounds to the nearest sample so the track stays aligned with
// the session clock.
func samplesPerTick(rate beep.SampleRate, tickRate int) int {
	n := int(math.Round(float64(rate) / float64(tickRate)))
	if n < 1 {
		n = 1
	}
	return n
}

// decoderGain undoes the wav decoder scaling multi-byte PCM by 1<<16-1
// instead of 1<<15, which puts full scale at 0.5.
func decoderGain(format beep.Format) float64 {
	if format.Precision >= 2 {
		return 2
	}
	return 1
}

// Level consumes one window and returns its RMS amplitude.
func (s *WAVSource) Level() float64 {
	if s.done {
		return 0
	}

	n, ok := s.stream.Stream(s.window)
	if !ok || n == 0 || s.stream.Err() != nil {
		s.done = true
		return 0
	}

	return math.Min(1, s.gain*rms(s.window[:n]))
}

// Rewind restarts the track from the beginning.
func (s *WAVSource) Rewind() error {
	if err := s.stream.Seek(0); err != nil {
		return fmt.Errorf("mic: rewind: %w", err)
	}
	s.done = false
	return nil
}

// Duration returns the length of the track.
func (s *WAVSource) Duration() time.Duration {
	return s.format.SampleRate.D(s.stream.Len())
}

// Close releases the underlying stream.
func (s *WAVSource) Close() error {
	return s.stream.Close()
}

// rms averages both channels into mono and returns the root mean square.
func rms(samples [][2]float64) float64 {
	var sum float64
	for _, smp := range samples {
		m := (smp[0] + smp[1]) / 2
		sum += m * m
	}
	return math.Sqrt(sum / float64(len(samples)))
}
