package rules

import (
	"fmt"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
)

// ReactionWindow is the suspended state between an event inviting a
// response and its resumption.
type ReactionWindow struct {
	EventID  string
	Source   ecs.Entity
	Grantees []ecs.Entity
}

// Includes reports whether e was granted a reaction in this window.
func (w ReactionWindow) Includes(e ecs.Entity) bool {
	for _, g := range w.Grantees {
		if g == e {
			return true
		}
	}
	return false
}

// ReactionWindowManager tracks the open reaction window, if any.
type ReactionWindowManager struct {
	active *ReactionWindow
}

// NewReactionWindowManager creates a manager with no open window.
func NewReactionWindowManager() *ReactionWindowManager {
	return &ReactionWindowManager{}
}

// OpenWindow opens a new reaction window. Only one may be open at a time.
func (m *ReactionWindowManager) OpenWindow(window ReactionWindow) error {
	if m.active != nil {
		return fmt.Errorf("reaction window already open for event %s", m.active.EventID)
	}
	window.Grantees = append([]ecs.Entity(nil), window.Grantees...)
	m.active = &window
	return nil
}

// CloseWindow closes and returns the active window.
func (m *ReactionWindowManager) CloseWindow() (ReactionWindow, bool) {
	if m.active == nil {
		return ReactionWindow{}, false
	}
	closed := *m.active
	m.active = nil
	return closed, true
}

// Active returns the open window.
func (m *ReactionWindowManager) Active() (ReactionWindow, bool) {
	if m.active == nil {
		return ReactionWindow{}, false
	}
	return *m.active, true
}
