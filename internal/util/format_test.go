package util

import (
	"math"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{1024 * 1024, "1.00 MiB"},
		{1024 * 1024 * 1024, "1.00 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3661, "01:01:01"},
		{86399, "23:59:59"},
		{-1, "??:??:??"},
		{math.NaN(), "??:??:??"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatDuration(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatFrameRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{25, "25"},
		{24, "24"},
		{29.97, "29.970"},
		{23.976, "23.976"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatFrameRate(tt.rate); got != tt.want {
				t.Errorf("FormatFrameRate(%v) = %q, want %q", tt.rate, got, tt.want)
			}
		})
	}
}

func TestGetFileStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/videos/movie.mkv", "movie"},
		{"clip.mp4", "clip"},
		{"/a/b/noext", "noext"},
		{"/a/b/two.dots.mov", "two.dots"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := GetFileStem(tt.path); got != tt.want {
				t.Errorf("GetFileStem(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
