package geom

import "testing"

func TestRectContains_EdgesExclusive(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 20}, true},
		{Point{39, 59}, true},
		{Point{40, 30}, false},
		{Point{20, 60}, false},
		{Point{9, 30}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 50, Y: 80, Width: 100, Height: 100}
	got := a.Intersect(b)
	want := Rect{X: 50, Y: 80, Width: 50, Height: 20}
	if got != want {
		t.Fatalf("Intersect = %v, want %v", got, want)
	}
	if !a.Intersect(Rect{X: 200, Y: 200, Width: 5, Height: 5}).Empty() {
		t.Fatalf("expected disjoint rects to intersect empty")
	}
}

func TestClamp_LowWinsWhenInverted(t *testing.T) {
	if got := Clamp(5, 10, 0); got != 10 {
		t.Fatalf("Clamp(5, 10, 0) = %d, want 10", got)
	}
	if got := Clamp(50, 0, 20); got != 20 {
		t.Fatalf("Clamp(50, 0, 20) = %d, want 20", got)
	}
}
