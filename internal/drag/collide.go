package drag

import "strings"

// Point is a pointer position in terminal cell coordinates.
type Point struct {
	X, Y int
}

// Region is one droppable area registered by the most recent render pass.
// ID is a drop-target identifier in one of the ParseTarget formats.
type Region struct {
	ID   string
	X, Y int
	W, H int
}

// Contains reports whether p falls inside the region's bounds.
func (r Region) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Region) isWaiting() bool {
	return r.ID == "waiting" || strings.HasPrefix(r.ID, "waiting-")
}

// cornerDistance returns the squared distance from p to the region's
// nearest corner.
func (r Region) cornerDistance(p Point) int {
	best := -1
	for _, c := range [4]Point{
		{r.X, r.Y},
		{r.X + r.W - 1, r.Y},
		{r.X, r.Y + r.H - 1},
		{r.X + r.W - 1, r.Y + r.H - 1},
	} {
		dx, dy := c.X-p.X, c.Y-p.Y
		d := dx*dx + dy*dy
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// Locate resolves which droppable region a pointer is over. Candidates are
// the regions whose bounds contain the pointer; if any of those belongs to
// the waiting list it wins outright. The hard priority exists because the
// waiting id and the calendar-slot id format can collide under naive
// matching. Among the remaining candidates the nearest corner decides,
// with registration order breaking ties.
func Locate(p Point, regions []Region) (string, bool) {
	var contained []Region
	for _, r := range regions {
		if r.Contains(p) {
			contained = append(contained, r)
		}
	}
	if len(contained) == 0 {
		return "", false
	}

	for _, r := range contained {
		if r.isWaiting() {
			return r.ID, true
		}
	}

	best := contained[0]
	bestDist := best.cornerDistance(p)
	for _, r := range contained[1:] {
		if d := r.cornerDistance(p); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best.ID, true
}
