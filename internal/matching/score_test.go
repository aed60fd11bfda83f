package matching

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   []float32
		want   float64
		wantOK bool
	}{
		{name: "identical unit", a: []float32{1, 0}, b: []float32{1, 0}, want: 1, wantOK: true},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0, wantOK: true},
		{name: "opposite", a: []float32{1, 1}, b: []float32{-2, -2}, want: -1, wantOK: true},
		{name: "scale invariant", a: []float32{3, 4}, b: []float32{6, 8}, want: 1, wantOK: true},
		{name: "zero magnitude", a: []float32{0, 0}, b: []float32{1, 0}, want: MinScore, wantOK: false},
		{name: "empty", a: nil, b: nil, want: MinScore, wantOK: false},
		{name: "dimension mismatch", a: []float32{1, 0, 0}, b: []float32{1, 0}, want: MinScore, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Cosine(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
