package gfx

import "testing"

func TestSamplingFor(t *testing.T) {
	tests := []struct {
		w, h int
		want Sampling
	}{
		{1, 1, Sampling{Repeat: true, Mipmap: true}},
		{256, 512, Sampling{Repeat: true, Mipmap: true}},
		{300, 256, Sampling{}},
		{256, 100, Sampling{}},
		{0, 0, Sampling{}},
	}
	for _, tt := range tests {
		if got := SamplingFor(tt.w, tt.h); got != tt.want {
			t.Errorf("SamplingFor(%d, %d) = %+v, want %+v", tt.w, tt.h, got, tt.want)
		}
	}
}
