package utils

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Nanosecond, "1.5μs"},
		{250 * time.Millisecond, "250.0ms"},
		{12300 * time.Millisecond, "12.3s"},
		{90 * time.Second, "1m 30s"},
		{59*time.Minute + 59900*time.Millisecond, "59m 59s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{-3 * time.Second, "-3.0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
