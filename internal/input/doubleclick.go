package input

import (
	"time"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/hittest"
)

// DoubleClick detects a second press on the same target within Interval and
// Slop pixels of the first.
type DoubleClick struct {
	Interval time.Duration
	Slop     int

	last    hittest.Target
	lastPos geom.Point
	lastAt  int64
	armed   bool
}

// NewDoubleClick returns a detector with the given window; zero values fall
// back to 400ms and 4px.
func NewDoubleClick(interval time.Duration, slop int) *DoubleClick {
	if interval <= 0 {
		interval = 400 * time.Millisecond
	}
	if slop < 0 {
		slop = 4
	}
	return &DoubleClick{Interval: interval, Slop: slop}
}

// Click records a press and reports whether it completes a double click. A
// completed double click disarms the detector so a third press starts over.
func (d *DoubleClick) Click(t hittest.Target, p geom.Point, ms int64) bool {
	delta := ms - d.lastAt
	double := d.armed &&
		t == d.last &&
		delta >= 0 && delta <= d.Interval.Milliseconds() &&
		abs(p.X-d.lastPos.X) <= d.Slop && abs(p.Y-d.lastPos.Y) <= d.Slop

	if double {
		d.armed = false
		return true
	}
	d.last, d.lastPos, d.lastAt, d.armed = t, p, ms, true
	return false
}

// Reset forgets the previous press.
func (d *DoubleClick) Reset() {
	d.armed = false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
