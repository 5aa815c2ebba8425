package tts

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestEncodeWAVHeaderLayout(t *testing.T) {
	buf := &AudioBuffer{
		Samples:    []int16{0, 1000, -1000, 2000},
		SampleRate: 22050,
	}
	data := EncodeWAV(buf)

	if got, want := len(data), 44+8; got != want {
		t.Fatalf("encoded length = %d, want %d", got, want)
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) {
		t.Error("missing RIFF marker")
	}
	if !bytes.Equal(data[8:12], []byte("WAVE")) {
		t.Error("missing WAVE marker")
	}
	if !bytes.Equal(data[12:16], []byte("fmt ")) {
		t.Error("missing fmt chunk marker")
	}
	if !bytes.Equal(data[36:40], []byte("data")) {
		t.Error("missing data chunk marker")
	}

	if got := binary.LittleEndian.Uint32(data[4:8]); got != 36+8 {
		t.Errorf("riff size = %d, want %d", got, 36+8)
	}
	if got := binary.LittleEndian.Uint16(data[20:22]); got != 1 {
		t.Errorf("audio format = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 22050 {
		t.Errorf("sample rate = %d, want 22050", got)
	}
	if got := binary.LittleEndian.Uint32(data[28:32]); got != 44100 {
		t.Errorf("byte rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint16(data[32:34]); got != 2 {
		t.Errorf("block align = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != 8 {
		t.Errorf("data size = %d, want 8", got)
	}

	// Samples follow the header as signed little-endian 16-bit values.
	if got := int16(binary.LittleEndian.Uint16(data[46:48])); got != 1000 {
		t.Errorf("sample[1] = %d, want 1000", got)
	}
	if got := int16(binary.LittleEndian.Uint16(data[48:50])); got != -1000 {
		t.Errorf("sample[2] = %d, want -1000", got)
	}
}

func TestDecodeWAVHeader(t *testing.T) {
	buf := &AudioBuffer{
		Samples:    make([]int16, 22050),
		SampleRate: 22050,
	}
	data := EncodeWAV(buf)

	info, err := DecodeWAVHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if info.SampleRate != 22050 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("decoded format = %+v", info)
	}
	if info.DataSize != 44100 {
		t.Errorf("data size = %d, want 44100", info.DataSize)
	}
	if got := info.Duration(); got != time.Second {
		t.Errorf("duration = %v, want 1s", got)
	}
}

func TestDecodeWAVHeaderRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAVHeader([]byte("short")); err == nil {
		t.Error("expected error for truncated data")
	}
	if _, err := DecodeWAVHeader(make([]byte, 64)); err == nil {
		t.Error("expected error for missing RIFF marker")
	}
}

func TestAudioBufferDuration(t *testing.T) {
	buf := &AudioBuffer{Samples: make([]int16, 11025), SampleRate: 22050}
	if got := buf.Duration(); got != 500*time.Millisecond {
		t.Errorf("duration = %v, want 500ms", got)
	}

	empty := &AudioBuffer{}
	if got := empty.Duration(); got != 0 {
		t.Errorf("zero-rate duration = %v, want 0", got)
	}
}
