package tabs

// Store holds the ordered tab descriptors and the shared row templates.
// Readers get copies; only the Controller mutates it.
type Store struct {
	tabs      []Descriptor
	templates Templates
}

// NewStore creates a store seeded with descriptors in configuration order.
func NewStore(descriptors []Descriptor, templates Templates) *Store {
	s := &Store{templates: templates.Clone()}
	for _, d := range descriptors {
		s.tabs = append(s.tabs, d.Clone())
	}
	return s
}

// Len returns the number of descriptors.
func (s *Store) Len() int {
	return len(s.tabs)
}

// Tabs returns copies of all descriptors in order.
func (s *Store) Tabs() []Descriptor {
	out := make([]Descriptor, len(s.tabs))
	for i, d := range s.tabs {
		out[i] = d.Clone()
	}
	return out
}

// Get returns a copy of the descriptor with id.
func (s *Store) Get(id int) (Descriptor, bool) {
	i := s.Index(id)
	if i < 0 {
		return Descriptor{}, false
	}
	return s.tabs[i].Clone(), true
}

// Index returns the position of id, or -1.
func (s *Store) Index(id int) int {
	for i, d := range s.tabs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Templates returns a copy of the row templates.
func (s *Store) Templates() Templates {
	return s.templates.Clone()
}

func (s *Store) append(d Descriptor) {
	s.tabs = append(s.tabs, d.Clone())
}

func (s *Store) remove(id int) bool {
	i := s.Index(id)
	if i < 0 {
		return false
	}
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
	return true
}

// merge applies p to the descriptor with id and returns the result.
func (s *Store) merge(id int, p Patch) (Descriptor, bool) {
	i := s.Index(id)
	if i < 0 {
		return Descriptor{}, false
	}
	d := s.tabs[i].Clone()
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Attributes != nil {
		d.Attributes = make(map[string]string, len(p.Attributes))
		for k, v := range p.Attributes {
			d.Attributes[k] = v
		}
	}
	s.tabs[i] = d
	return d.Clone(), true
}
