// Package synth converts token streams into PCM audio buffers.
package synth

import (
	"fmt"
	"math"

	"github.com/orpheus-tts/orpheus-go/tts"
)

const (
	// chunkSize is the number of tokens rendered as one tone segment.
	chunkSize = 50

	// tokenDuration is the nominal playback time per token in seconds.
	tokenDuration = 0.02

	// baseAmplitude keeps the tones well below full scale.
	baseAmplitude = 0.25
)

// New selects the synthesizer variant for the configuration. The neural
// decoder is interface-only for now, so selecting it yields a synthesizer
// that fails with a typed unavailability error rather than a silent
// stand-in.
func New(cfg tts.Config) tts.Synthesizer {
	if cfg.UseNeuralDecoder {
		return &NeuralSynthesizer{}
	}
	return &ToneSynthesizer{SampleRate: cfg.SampleRate}
}

// ToneSynthesizer renders the token stream as a deterministic sequence of
// sine tones. It stands in for the real neural decoder: same contract,
// placeholder waveform. With Silent set it degrades further to an all-zero
// buffer of the nominal duration, mirroring the behavior when no numeric
// backend is available at all.
type ToneSynthesizer struct {
	// SampleRate is the output sample rate in Hz.
	SampleRate int

	// Silent renders zero samples instead of tones.
	Silent bool
}

// Synthesize maps tokens to audio: each chunk of tokens becomes one tone
// whose frequency derives from the chunk's content and whose duration
// derives from its length, scaled by the request's speed, pitch, and
// volume. The output depends only on the inputs.
func (s *ToneSynthesizer) Synthesize(tokens []int, req tts.SynthesisRequest) (*tts.AudioBuffer, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no tokens to synthesize")
	}
	if s.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", s.SampleRate)
	}

	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}

	buf := &tts.AudioBuffer{SampleRate: s.SampleRate}

	for start := 0; start < len(tokens); start += chunkSize {
		end := start + chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := tokens[start:end]

		duration := float64(len(chunk)) * tokenDuration / speed
		numSamples := int(float64(s.SampleRate) * duration)

		if s.Silent {
			buf.Samples = append(buf.Samples, make([]int16, numSamples)...)
			continue
		}

		sum := 0
		for _, token := range chunk {
			sum += token
		}
		freq := float64(200+sum%400) * math.Pow(2, req.Pitch)
		amplitude := baseAmplitude * req.Volume

		for i := 0; i < numSamples; i++ {
			t := float64(i) / float64(s.SampleRate)
			sample := math.Sin(2*math.Pi*freq*t) * amplitude
			buf.Samples = append(buf.Samples, int16(sample*math.MaxInt16))
		}
	}

	return buf, nil
}

// NeuralSynthesizer is the declared slot for a real SNAC-style neural
// decoder. No implementation is wired in; every call fails with
// tts.ErrDecoderUnavailable so the orchestrator surfaces the gap instead
// of masking it with tones.
type NeuralSynthesizer struct{}

// Synthesize always fails until a decoder implementation exists.
func (s *NeuralSynthesizer) Synthesize([]int, tts.SynthesisRequest) (*tts.AudioBuffer, error) {
	return nil, tts.ErrDecoderUnavailable
}
