package format_test

import (
	"testing"

	"github.com/fd1az/escrow-desk/internal/format"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{90000, "1d 1h"}, // 1 day 1 hour, minutes dropped at day granularity
		{3000, "50m"},
		{3600, "1h 0m"},
		{5400, "1h 30m"},
		{0, "0m"},
		{-42, "0m"}, // negative input clamps to zero
		{86400, "1d 0h"},
		{59, "0m"},
	}

	for _, tt := range tests {
		if got := format.Duration(tt.seconds); got != tt.want {
			t.Errorf("Duration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestAPY(t *testing.T) {
	if got := format.APY(3.456); got != "3.46%" {
		t.Errorf("APY(3.456) = %q", got)
	}
}
