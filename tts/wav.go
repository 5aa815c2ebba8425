package tts

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const wavHeaderSize = 44

// EncodeWAV wraps a mono PCM buffer in an uncompressed RIFF/WAV container
// with 16-bit signed little-endian samples.
func EncodeWAV(buf *AudioBuffer) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)

	dataSize := len(buf.Samples) * 2
	byteRate := buf.SampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	out := make([]byte, 0, wavHeaderSize+dataSize)
	out = append(out, 'R', 'I', 'F', 'F')
	out = binary.LittleEndian.AppendUint32(out, uint32(36+dataSize))
	out = append(out, 'W', 'A', 'V', 'E')
	out = append(out, 'f', 'm', 't', ' ')
	out = binary.LittleEndian.AppendUint32(out, 16) // fmt chunk size
	out = binary.LittleEndian.AppendUint16(out, 1)  // PCM
	out = binary.LittleEndian.AppendUint16(out, channels)
	out = binary.LittleEndian.AppendUint32(out, uint32(buf.SampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(byteRate))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, bitsPerSample)
	out = append(out, 'd', 'a', 't', 'a')
	out = binary.LittleEndian.AppendUint32(out, uint32(dataSize))

	for _, sample := range buf.Samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(sample))
	}
	return out
}

// WAVInfo describes the format of an encoded WAV file.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
	DataSize   int
}

// Duration returns the playback duration described by the header.
func (i WAVInfo) Duration() time.Duration {
	bytesPerSecond := i.SampleRate * i.Channels * i.BitDepth / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(float64(i.DataSize) / float64(bytesPerSecond) * float64(time.Second))
}

// DecodeWAVHeader parses the 44-byte canonical WAV header.
func DecodeWAVHeader(data []byte) (WAVInfo, error) {
	if len(data) < wavHeaderSize {
		return WAVInfo{}, errors.New("wav data too short")
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WAVInfo{}, errors.New("not a RIFF/WAVE container")
	}
	if format := binary.LittleEndian.Uint16(data[20:22]); format != 1 {
		return WAVInfo{}, fmt.Errorf("unsupported audio format %d: only PCM is supported", format)
	}
	return WAVInfo{
		SampleRate: int(binary.LittleEndian.Uint32(data[24:28])),
		Channels:   int(binary.LittleEndian.Uint16(data[22:24])),
		BitDepth:   int(binary.LittleEndian.Uint16(data[34:36])),
		DataSize:   int(binary.LittleEndian.Uint32(data[40:44])),
	}, nil
}
