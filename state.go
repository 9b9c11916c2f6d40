package fwconf

import "sort"

// State is the mutable context of one validation run: the registry of IDs
// declared so far plus run-wide settings. It is not safe for concurrent use.
type State struct {
	declared     map[string]*ID
	order        []string
	integrations map[string]struct{}

	TargetPlatform string
	ConfigDir      string
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		declared:     map[string]*ID{},
		integrations: map[string]struct{}{},
	}
}

// Declare records a named declaration. It returns the previous declaration
// and false when the name is already taken.
func (s *State) Declare(id *ID) (*ID, bool) {
	if prev, ok := s.declared[id.Name]; ok {
		return prev, false
	}
	s.declared[id.Name] = id
	s.order = append(s.order, id.Name)
	return nil, true
}

// Declared returns the declaration registered under name.
func (s *State) Declared(name string) (*ID, bool) {
	id, ok := s.declared[name]
	return id, ok
}

// DeclaredNames returns declared names in declaration order.
func (s *State) DeclaredNames() []string {
	return append([]string(nil), s.order...)
}

// HasIntegration reports whether name is a loaded integration.
func (s *State) HasIntegration(name string) bool {
	_, ok := s.integrations[name]
	return ok
}

// Integrations returns the loaded integration names, sorted.
func (s *State) Integrations() []string {
	out := make([]string, 0, len(s.integrations))
	for n := range s.integrations {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
