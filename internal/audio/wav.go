package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// DecodeFile reads a whole WAV file into memory. Mono sources come back with
// the sample duplicated on both channels, which is beep's decoding behavior;
// the returned format still reports the source channel count.
func DecodeFile(path string) ([][2]float64, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	frames := make([][2]float64, 0, stream.Len())
	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		frames = append(frames, buf[:n]...)
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return frames, format, nil
}

// EncodeFile writes frames as a WAV file in the given format. The file is
// created (or truncated) at path.
func EncodeFile(path string, frames [][2]float64, format beep.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	if err := wav.Encode(f, &FrameStreamer{Frames: frames}, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
