package tabs

// FocusRing tracks which tab trigger has keyboard focus and rotates it with
// wraparound. Moving focus never changes the active tab.
type FocusRing struct {
	Current  int   // tab ID of the focused trigger; 0 = none
	Order    []int // trigger order
	OnChange func(from, to int)
}

// Next moves focus to the next trigger, wrapping at the end.
// Returns the new focused tab ID.
func (f *FocusRing) Next() int {
	if len(f.Order) == 0 {
		return 0
	}
	idx := f.index()
	return f.moveTo((idx + 1) % len(f.Order))
}

// Prev moves focus to the previous trigger, wrapping at the start.
func (f *FocusRing) Prev() int {
	if len(f.Order) == 0 {
		return 0
	}
	idx := f.index() - 1
	if idx < 0 {
		idx = len(f.Order) - 1
	}
	return f.moveTo(idx)
}

// First moves focus to the first trigger.
func (f *FocusRing) First() int {
	if len(f.Order) == 0 {
		return 0
	}
	return f.moveTo(0)
}

// Last moves focus to the last trigger.
func (f *FocusRing) Last() int {
	if len(f.Order) == 0 {
		return 0
	}
	return f.moveTo(len(f.Order) - 1)
}

// SetFocus focuses the trigger for id.
// Returns false if id is not in the ring.
func (f *FocusRing) SetFocus(id int) bool {
	for i, o := range f.Order {
		if o == id {
			f.moveTo(i)
			return true
		}
	}
	return false
}

func (f *FocusRing) index() int {
	for i, id := range f.Order {
		if id == f.Current {
			return i
		}
	}
	return -1
}

func (f *FocusRing) moveTo(idx int) int {
	from := f.Current
	f.Current = f.Order[idx]
	if f.OnChange != nil && from != f.Current {
		f.OnChange(from, f.Current)
	}
	return f.Current
}
