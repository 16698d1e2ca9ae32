package graph

import "github.com/RoaringBitmap/roaring"

// Trail is the set of entries on the current descent path. Recursive
// transforms use it to stop at entries that (transitively) contain
// themselves.
type Trail struct {
	onPath *roaring.Bitmap
}

func NewTrail() *Trail {
	return &Trail{onPath: roaring.New()}
}

// Enter pushes e onto the trail. It returns false, leaving the trail
// unchanged, when e is already on it.
func (t *Trail) Enter(e *Entry) bool {
	return t.onPath.CheckedAdd(e.ordinal)
}

// Leave pops e from the trail.
func (t *Trail) Leave(e *Entry) {
	t.onPath.Remove(e.ordinal)
}

// Depth returns the number of entries on the trail.
func (t *Trail) Depth() int {
	return int(t.onPath.GetCardinality())
}
