package timecode

import (
	"errors"
	"testing"

	"github.com/shotseek/shotseek/internal/errs"
)

func TestFromFrames(t *testing.T) {
	tc, err := FromFrames(100, 29.97)
	if err != nil {
		t.Fatalf("FromFrames returned error: %v", err)
	}
	if tc.Frame() != 100 {
		t.Errorf("Frame() = %d, want 100", tc.Frame())
	}
	if tc.Rate() != 29.97 {
		t.Errorf("Rate() = %v, want 29.97", tc.Rate())
	}
}

func TestFromFramesInvalid(t *testing.T) {
	tests := []struct {
		name  string
		frame int64
		rate  float64
	}{
		{"zero rate", 0, 0},
		{"negative rate", 0, -24},
		{"negative frame", -1, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromFrames(tt.frame, tt.rate)
			if !errs.IsKind(err, errs.KindConfig) {
				t.Errorf("want config error, got %v", err)
			}
		})
	}
}

func TestFromSecondsRounding(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		rate    float64
		want    int64
	}{
		{"exact", 5.0, 10, 50},
		{"rounds up", 0.99, 30, 30},
		{"rounds down", 0.01, 30, 0},
		{"half tie toward zero", 2.5, 1, 2},
		{"just past half", 2.51, 1, 3},
		{"ntsc second", 1.0, 29.97, 30},
		{"zero", 0, 23.976, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := FromSeconds(tt.seconds, tt.rate)
			if err != nil {
				t.Fatalf("FromSeconds(%v, %v) error: %v", tt.seconds, tt.rate, err)
			}
			if tc.Frame() != tt.want {
				t.Errorf("FromSeconds(%v, %v).Frame() = %d, want %d", tt.seconds, tt.rate, tc.Frame(), tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		rate  float64
		want  int64
	}{
		{"00:00:00", 29.97, 0},
		{"00:00:05", 10, 50},
		{"00:01:30", 10, 900},
		{"00:01:30.500", 10, 905},
		{"01:00:00", 24, 86400},
		{"90", 10, 900},
		{"90.5", 10, 905},
		{"90s", 10, 900},
		{"  00:00:05  ", 10, 50},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tc, err := Parse(tt.input, tt.rate)
			if err != nil {
				t.Fatalf("Parse(%q, %v) error: %v", tt.input, tt.rate, err)
			}
			if tc.Frame() != tt.want {
				t.Errorf("Parse(%q, %v).Frame() = %d, want %d", tt.input, tt.rate, tc.Frame(), tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	inputs := []string{
		"",
		"abc",
		"00:00",
		"00:00:00:00",
		"00:61:00",
		"00:00:61",
		"00:-1:00",
		"1:2:x",
		"-5",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input, 24)
			if !errs.IsKind(err, errs.KindFormat) {
				t.Errorf("Parse(%q) want format error, got %v", input, err)
			}
		})
	}
}

func TestParseBadRate(t *testing.T) {
	_, err := Parse("00:00:05", 0)
	if !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("want config error for zero rate, got %v", err)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		frame int64
		rate  float64
		want  string
	}{
		{0, 24, "00:00:00.000"},
		{50, 10, "00:00:05.000"},
		{905, 10, "00:01:30.500"},
		{86400, 24, "01:00:00.000"},
		{1, 29.97, "00:00:00.033"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			tc, err := FromFrames(tt.frame, tt.rate)
			if err != nil {
				t.Fatal(err)
			}
			if got := tc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Formatting a position to milliseconds and parsing it back at the same rate
// must recover the exact frame index.
func TestStringRoundTrip(t *testing.T) {
	frames := []int64{0, 1, 7, 29, 30, 100, 1499, 12345, 86400}
	rates := []float64{10, 23.976, 24, 29.97, 30, 59.94}

	for _, rate := range rates {
		for _, frame := range frames {
			tc, err := FromFrames(frame, rate)
			if err != nil {
				t.Fatal(err)
			}
			back, err := Parse(tc.String(), rate)
			if err != nil {
				t.Fatalf("Parse(%q, %v) error: %v", tc.String(), rate, err)
			}
			if back.Frame() != frame {
				t.Errorf("round trip at rate %v: frame %d -> %q -> %d", rate, frame, tc.String(), back.Frame())
			}
		}
	}
}

func TestArithmetic(t *testing.T) {
	tc, _ := FromFrames(100, 24)

	if got := tc.Add(50).Frame(); got != 150 {
		t.Errorf("Add(50).Frame() = %d, want 150", got)
	}
	if got := tc.Sub(30).Frame(); got != 70 {
		t.Errorf("Sub(30).Frame() = %d, want 70", got)
	}
	if got := tc.Sub(200).Frame(); got != 0 {
		t.Errorf("Sub(200) should clamp at zero, got %d", got)
	}
	// Immutability: the receiver is unchanged.
	if tc.Frame() != 100 {
		t.Errorf("receiver mutated: Frame() = %d, want 100", tc.Frame())
	}
}

func TestCmp(t *testing.T) {
	a, _ := FromFrames(10, 24)
	b, _ := FromFrames(20, 24)

	if c, err := a.Cmp(b); err != nil || c != -1 {
		t.Errorf("a.Cmp(b) = %d, %v; want -1, nil", c, err)
	}
	if c, err := b.Cmp(a); err != nil || c != 1 {
		t.Errorf("b.Cmp(a) = %d, %v; want 1, nil", c, err)
	}
	if eq, err := a.Equal(a); err != nil || !eq {
		t.Errorf("a.Equal(a) = %v, %v; want true, nil", eq, err)
	}
	if before, err := a.Before(b); err != nil || !before {
		t.Errorf("a.Before(b) = %v, %v; want true, nil", before, err)
	}
}

func TestCmpRateMismatch(t *testing.T) {
	a, _ := FromFrames(10, 24)
	b, _ := FromFrames(10, 25)

	_, err := a.Cmp(b)
	if !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("comparing across frame rates: want config error, got %v", err)
	}

	var ce *errs.CoreError
	if !errors.As(err, &ce) {
		t.Error("error should be a CoreError")
	}
}
