package tts

import "time"

// Voice identifies one of the voices baked into the Orpheus model.
type Voice string

const (
	// VoiceTara is the default voice.
	VoiceTara Voice = "tara"

	// VoiceAlex is a male voice.
	VoiceAlex Voice = "alex"

	// VoiceSarah is a female voice.
	VoiceSarah Voice = "sarah"

	// VoiceEmma is a female voice.
	VoiceEmma Voice = "emma"

	// VoiceDaniel is a male voice.
	VoiceDaniel Voice = "daniel"

	// VoiceMichael is a male voice.
	VoiceMichael Voice = "michael"

	// VoiceNova is a female voice.
	VoiceNova Voice = "nova"

	// VoiceEcho is a special-effects voice.
	VoiceEcho Voice = "echo"
)

// Voices returns every supported voice.
func Voices() []Voice {
	return []Voice{
		VoiceTara, VoiceAlex, VoiceSarah, VoiceEmma,
		VoiceDaniel, VoiceMichael, VoiceNova, VoiceEcho,
	}
}

// Valid reports whether the voice belongs to the supported set.
func (v Voice) Valid() bool {
	for _, known := range Voices() {
		if v == known {
			return true
		}
	}
	return false
}

// Emotion selects the emotional coloring applied to synthesis.
type Emotion string

const (
	// EmotionNeutral is the standard tone.
	EmotionNeutral Emotion = "neutral"

	// EmotionHappy is an upbeat, positive tone.
	EmotionHappy Emotion = "happy"

	// EmotionSad is a melancholic tone.
	EmotionSad Emotion = "sad"

	// EmotionAngry is an intense tone.
	EmotionAngry Emotion = "angry"

	// EmotionExcited is an enthusiastic tone.
	EmotionExcited Emotion = "excited"

	// EmotionCalm is a relaxed tone.
	EmotionCalm Emotion = "calm"

	// EmotionMysterious is an intriguing tone.
	EmotionMysterious Emotion = "mysterious"
)

// Emotions returns every supported emotion.
func Emotions() []Emotion {
	return []Emotion{
		EmotionNeutral, EmotionHappy, EmotionSad, EmotionAngry,
		EmotionExcited, EmotionCalm, EmotionMysterious,
	}
}

// Valid reports whether the emotion belongs to the supported set.
func (e Emotion) Valid() bool {
	for _, known := range Emotions() {
		if e == known {
			return true
		}
	}
	return false
}

// Mode selects the speed/quality tradeoff for token generation.
type Mode string

const (
	// ModeFast favors latency over token budget.
	ModeFast Mode = "fast"

	// ModeQuality favors a larger token budget over latency.
	ModeQuality Mode = "quality"

	// ModeBalanced is the middle ground and the default.
	ModeBalanced Mode = "balanced"
)

// Modes returns every supported mode.
func Modes() []Mode {
	return []Mode{ModeFast, ModeQuality, ModeBalanced}
}

// Valid reports whether the mode belongs to the supported set.
func (m Mode) Valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// Format identifies the audio container written for synthesized speech.
// Uncompressed WAV is the only implemented container; the other constants
// are reserved for future encoders.
type Format string

const (
	// FormatWAV is uncompressed PCM in a RIFF container.
	FormatWAV Format = "wav"

	// FormatMP3 is reserved; no encoder is wired up yet.
	FormatMP3 Format = "mp3"

	// FormatFLAC is reserved; no encoder is wired up yet.
	FormatFLAC Format = "flac"

	// FormatOpus is reserved; no encoder is wired up yet.
	FormatOpus Format = "opus"
)

// Valid reports whether the format can currently be produced.
func (f Format) Valid() bool {
	return f == FormatWAV
}

// AudioBuffer is a mono PCM buffer produced by a Synthesizer.
type AudioBuffer struct {
	// Samples are signed 16-bit mono samples.
	Samples []int16

	// SampleRate is the sample rate in Hz.
	SampleRate int
}

// Duration returns the playback duration of the buffer.
func (b *AudioBuffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// AudioReference points at a synthesized audio file on disk.
type AudioReference struct {
	// Path is the location of the audio file.
	Path string

	// Fingerprint is the cache key the audio was generated under.
	Fingerprint string

	// Size is the file size in bytes.
	Size int64

	// Duration is the playback duration, when known.
	Duration time.Duration

	// Cached is true when the reference was served from the audio cache.
	Cached bool
}
