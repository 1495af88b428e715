package voice

import (
	"context"
	"testing"
	"time"
)

func TestTranscodeMissingBinary(t *testing.T) {
	tr := &FFmpegTranscoder{binary: "voxrelay-no-such-ffmpeg", timeout: time.Second}
	err := tr.Transcode(context.Background(), "in.oga", "out.mp3")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestLastLine(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"single", "single"},
		{"first\nsecond\nthird\n", "third"},
		{"first\n  padded last  \n", "padded last"},
	}
	for _, tc := range cases {
		if got := lastLine(tc.in); got != tc.want {
			t.Fatalf("lastLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
