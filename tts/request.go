package tts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SynthesisRequest is an immutable description of one speech generation.
// Two field-for-field equal requests always produce the same fingerprint.
type SynthesisRequest struct {
	// Text is the text to speak. Must be non-empty.
	Text string

	// Voice selects the speaking voice.
	Voice Voice

	// Emotion selects the emotional coloring.
	Emotion Emotion

	// Mode selects the speed/quality tradeoff.
	Mode Mode

	// Speed is the playback speed multiplier (0.5 to 2.0).
	Speed float64

	// Pitch shifts the voice pitch (-1.0 to 1.0, 0 is unchanged).
	Pitch float64

	// Volume is the output amplitude (0.0 to 1.0).
	Volume float64

	// Model is the upstream language model identifier.
	Model string
}

// Validate checks every field against its declared constraint. It performs
// no I/O, so a failing request is rejected before any network or disk work.
func (r SynthesisRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrValidation)
	}
	if !r.Voice.Valid() {
		return fmt.Errorf("%w: unknown voice %q", ErrValidation, r.Voice)
	}
	if !r.Emotion.Valid() {
		return fmt.Errorf("%w: unknown emotion %q", ErrValidation, r.Emotion)
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrValidation, r.Mode)
	}
	if r.Speed < 0.5 || r.Speed > 2.0 {
		return fmt.Errorf("%w: speed must be between 0.5 and 2.0, got %g", ErrValidation, r.Speed)
	}
	if r.Pitch < -1.0 || r.Pitch > 1.0 {
		return fmt.Errorf("%w: pitch must be between -1.0 and 1.0, got %g", ErrValidation, r.Pitch)
	}
	if r.Volume < 0.0 || r.Volume > 1.0 {
		return fmt.Errorf("%w: volume must be between 0.0 and 1.0, got %g", ErrValidation, r.Volume)
	}
	if r.Model == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrValidation)
	}
	return nil
}

// Fingerprint computes a deterministic digest over the canonical
// serialization of every request field. The model identifier is included so
// two models producing the same text and voice never collide in the cache.
func (r SynthesisRequest) Fingerprint() string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s|%.4f|%.4f|%.4f",
		r.Text, r.Voice, r.Emotion, r.Mode, r.Model,
		r.Speed, r.Pitch, r.Volume)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}
