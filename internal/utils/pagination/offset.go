package pagination

// Window is a limit/offset slice of an ordered result set.
type Window struct {
	Limit  int
	Offset int
}

// Normalize clamps w into a usable window. A non-positive limit becomes
// defaultLimit, a limit above maxLimit becomes maxLimit and a negative
// offset becomes zero.
func (w Window) Normalize(defaultLimit, maxLimit int) Window {
	if w.Limit <= 0 {
		w.Limit = defaultLimit
	}
	if maxLimit > 0 && w.Limit > maxLimit {
		w.Limit = maxLimit
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
	return w
}

// Apply returns the part of a fully loaded, already sorted slice that falls inside w.
func Apply[T any](items []T, w Window) []T {
	if w.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if w.Limit > 0 && w.Offset+w.Limit < end {
		end = w.Offset + w.Limit
	}
	return items[w.Offset:end]
}

// HasMore reports whether rows remain past the window given the total row count.
func HasMore(total int, w Window) bool {
	return w.Offset+w.Limit < total
}
