package rules

import "errors"

// ErrStackEmpty is returned by Pop when nothing is queued.
var ErrStackEmpty = errors.New("stack empty")

// EventStack is the LIFO queue of pending events. It is owned by a single
// engine and carries no locking.
type EventStack struct {
	items []*Event
}

// NewEventStack creates an empty stack.
func NewEventStack() *EventStack {
	return &EventStack{
		items: make([]*Event, 0, 16),
	}
}

// Push adds an event to the top of the stack.
func (s *EventStack) Push(ev *Event) {
	s.items = append(s.items, ev)
}

// Pop removes the top event.
func (s *EventStack) Pop() (*Event, error) {
	if len(s.items) == 0 {
		return nil, ErrStackEmpty
	}

	idx := len(s.items) - 1
	ev := s.items[idx]
	s.items[idx] = nil
	s.items = s.items[:idx]
	return ev, nil
}

// Peek returns the top event without removing it.
func (s *EventStack) Peek() (*Event, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// List returns a copy of all queued events (topmost last).
func (s *EventStack) List() []*Event {
	cpy := make([]*Event, len(s.items))
	copy(cpy, s.items)
	return cpy
}

// Len returns the number of queued events.
func (s *EventStack) Len() int {
	return len(s.items)
}

// IsEmpty returns whether the stack is empty.
func (s *EventStack) IsEmpty() bool {
	return len(s.items) == 0
}
