package transcribe

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// sampleRate is the rate required by the speech-to-text model.
const sampleRate = 16000

// decodePCM decodes any supported audio or video container to mono 16 kHz
// signed 16-bit PCM samples using ffmpeg.
func decodePCM(ctx context.Context, path string) ([]int16, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat audio file: %w", err)
	}

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", entities.ErrDecodeFailure)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-f", "s16le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", entities.ErrDecodeFailure, err, stderr.String())
	}

	raw := stdout.Bytes()
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: decoded stream is empty", entities.ErrDecodeFailure)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return samples, nil
}

// encodeWAV wraps PCM samples in a canonical 16-bit mono RIFF/WAVE container
// so each chunk can be submitted to the speech-to-text service as a
// self-describing file.
func encodeWAV(samples []int16) []byte {
	dataLen := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16 kHz, 16 bit
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
