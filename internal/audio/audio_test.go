package audio

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
)

func TestDBToGain(t *testing.T) {
	cases := []struct {
		db   float64
		want float64
	}{
		{0, 1.0},
		{-6, 0.5011872},
		{6, 1.9952623},
		{-12, 0.2511886},
	}
	for _, tc := range cases {
		got := DBToGain(tc.db)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("DBToGain(%v) = %v, want %v", tc.db, got, tc.want)
		}
	}
}

func TestDBToGainMonotonic(t *testing.T) {
	prev := DBToGain(-60)
	for db := -59.0; db <= 12; db++ {
		g := DBToGain(db)
		if g <= prev {
			t.Fatalf("gain not monotonic at %v dB: %v <= %v", db, g, prev)
		}
		prev = g
	}
}

func TestMSToFramesRounds(t *testing.T) {
	cases := []struct {
		ms   float64
		sr   int
		want int
	}{
		{1000, 44100, 44100},
		{500, 44100, 22050},
		{1, 44100, 44},   // 44.1 rounds down
		{100, 16000, 1600},
		{0, 44100, 0},
	}
	for _, tc := range cases {
		if got := MSToFrames(tc.ms, tc.sr); got != tc.want {
			t.Errorf("MSToFrames(%v, %d) = %d, want %d", tc.ms, tc.sr, got, tc.want)
		}
	}
}

func TestFrameStreamerDrains(t *testing.T) {
	frames := make([][2]float64, 1000)
	for i := range frames {
		frames[i] = [2]float64{float64(i) / 1000, -float64(i) / 1000}
	}
	s := &FrameStreamer{Frames: frames}
	out := make([][2]float64, 0, len(frames))
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	if len(out) != len(frames) {
		t.Fatalf("streamed %d frames, want %d", len(out), len(frames))
	}
	if out[999] != frames[999] {
		t.Fatalf("last frame %v, want %v", out[999], frames[999])
	}
	if s.Err() != nil {
		t.Fatalf("unexpected streamer error: %v", s.Err())
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const sr = 44100
	frames := make([][2]float64, sr/10)
	for i := range frames {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/sr)
		frames[i] = [2]float64{v, v}
	}
	format := beep.Format{SampleRate: beep.SampleRate(sr), NumChannels: 2, Precision: 2}
	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	if err := EncodeFile(path, frames, format); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, gotFormat, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if gotFormat.SampleRate != format.SampleRate || gotFormat.NumChannels != 2 {
		t.Fatalf("format after round trip = %+v", gotFormat)
	}
	if len(got) != len(frames) {
		t.Fatalf("frame count after round trip = %d, want %d", len(got), len(frames))
	}
	// 16-bit quantization: within one LSB.
	const tol = 1.0 / 32000
	for i := 0; i < len(frames); i += 97 {
		if math.Abs(got[i][0]-frames[i][0]) > tol {
			t.Fatalf("frame %d: got %v, want %v", i, got[i][0], frames[i][0])
		}
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, _, err := DecodeFile(filepath.Join(t.TempDir(), "nope.wav"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
