package encode

import "testing"

func TestPresentationTimeUs(t *testing.T) {
	tests := []struct {
		index int
		rate  int
		want  int64
	}{
		{0, 15, 132},
		{1, 15, 132 + 66666},
		{341, 15, 132 + 22733333},
		{342, 15, 132 + 22800000},
		{30, 30, 1000132},
		{1, 1000000, 133},
	}

	for _, tt := range tests {
		if got := PresentationTimeUs(tt.index, tt.rate); got != tt.want {
			t.Errorf("PresentationTimeUs(%d, %d) = %d, want %d", tt.index, tt.rate, got, tt.want)
		}
	}
}

func TestPresentationTimeUs_LargeIndex(t *testing.T) {
	// 24 hours at 60 fps overflows 32-bit arithmetic.
	const frames = 24 * 3600 * 60
	if got, want := PresentationTimeUs(frames, 60), int64(132+24*3600*1000000); got != want {
		t.Errorf("PresentationTimeUs(%d, 60) = %d, want %d", frames, got, want)
	}
}
