package repository

import "testing"

func TestVectorLiteral(t *testing.T) {
	tests := []struct {
		name      string
		embedding []float32
		want      string
	}{
		{"empty", []float32{}, "[]"},
		{"single", []float32{0.5}, "[0.5]"},
		{"multiple", []float32{1, -0.25, 0.125}, "[1,-0.25,0.125]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vectorLiteral(tt.embedding); got != tt.want {
				t.Fatalf("vectorLiteral(%v) = %q, want %q", tt.embedding, got, tt.want)
			}
		})
	}
}
