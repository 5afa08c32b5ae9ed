package observations

// BottomTrigger condenses continuous "cursor sits on the last row"
// observations into one notification per scroll-to-bottom. It stays latched
// while the cursor remains on the bottom row of an unchanged sequence and
// re-arms when the cursor leaves the bottom or the sequence grows.
type BottomTrigger struct {
	notified int // sequence length we last fired for
}

// Observe reports whether a notification should fire for the given cursor
// position and sequence length.
func (t *BottomTrigger) Observe(cursor, rows int) bool {
	if rows == 0 {
		return false
	}
	if cursor < rows-1 {
		t.notified = 0
		return false
	}
	if t.notified == rows {
		return false
	}
	t.notified = rows
	return true
}

// Reset disarms the latch, e.g. when the window is replaced wholesale.
func (t *BottomTrigger) Reset() {
	t.notified = 0
}
