package overlay

// FocusHost moves keyboard focus between element ids. Surfaces use it to
// capture focus on open and restore it to the trigger on close.
type FocusHost interface {
	// Focused returns the id of the element that has focus, or "".
	Focused() string
	// Focus moves focus to id. It returns false if no such element exists.
	Focus(id string) bool
	// Exists reports whether id names an element currently on screen.
	Exists(id string) bool
}

// Rect is a cell-aligned region on screen.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return !r.Empty() && x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ScrollLock suspends background scrolling while any holder has it.
// Acquire and Release are idempotent per holder.
type ScrollLock struct {
	holders map[string]struct{}
}

// Acquire registers holder.
func (l *ScrollLock) Acquire(holder string) {
	if l.holders == nil {
		l.holders = make(map[string]struct{})
	}
	l.holders[holder] = struct{}{}
}

// Release drops holder.
func (l *ScrollLock) Release(holder string) {
	delete(l.holders, holder)
}

// Locked reports whether background scrolling is suspended.
func (l *ScrollLock) Locked() bool {
	return len(l.holders) > 0
}
