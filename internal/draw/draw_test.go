package draw

import (
	"testing"

	"github.com/1broseidon/deskshell/internal/geom"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#0984e3", RGB(0x09, 0x84, 0xe3), false},
		{"2d98f7", RGB(0x2d, 0x98, 0xf7), false},
		{" #FFFFFF ", RGB(255, 255, 255), false},
		{"#fff", Color{}, true},
		{"#gg0000", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) err = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if got := RGB(1, 2, 3).Hex(); got != "#010203" {
		t.Fatalf("Hex = %q", got)
	}
	if got := RGB(0x12, 0x34, 0x56).Pixel(); got != 0x123456 {
		t.Fatalf("Pixel = %#x", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 40); got != "hello" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("hi", 100); got != "hi" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("hi", 7); got != "" {
		t.Fatalf("Truncate = %q", got)
	}
}

func TestListBuildersSkipEmpty(t *testing.T) {
	var l List
	l.Fill(geom.Rect{Width: 0, Height: 10}, RGB(0, 0, 0))
	l.Stroke(geom.Rect{Width: 10, Height: -1}, RGB(0, 0, 0))
	l.Text(geom.Point{}, "", RGB(0, 0, 0))
	if len(l) != 0 {
		t.Fatalf("expected empty list, got %d", len(l))
	}
}

func TestClip(t *testing.T) {
	white := RGB(255, 255, 255)
	var l List
	l.Fill(geom.Rect{X: -10, Y: -10, Width: 50, Height: 50}, white)
	l.Fill(geom.Rect{X: 500, Y: 500, Width: 10, Height: 10}, white)
	l.Line(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, white)
	l.Line(geom.Point{X: 0, Y: 0}, geom.Point{X: 200, Y: 0}, white)
	l.Text(geom.Point{X: 60, Y: 10}, "abcdefghij", white)
	l.Text(geom.Point{X: 10, Y: 90}, "too low", white)

	got := l.Clip(geom.Rect{Width: 100, Height: 100})
	if len(got) != 3 {
		t.Fatalf("expected 3 primitives, got %d: %+v", len(got), got)
	}
	if got[0].Rect != (geom.Rect{Width: 40, Height: 40}) {
		t.Fatalf("fill = %v", got[0].Rect)
	}
	if got[1].Op != Line {
		t.Fatalf("expected border line kept, got %v", got[1].Op)
	}
	if got[2].Text != "abcde" {
		t.Fatalf("text = %q", got[2].Text)
	}
}
