// Package states switches between the maze session and the ghost viewer.
package states

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ghostmaze/internal/engine/input"
)

// ErrTransition wraps failures while entering or leaving a state. The
// frame loop treats them as fatal.
var ErrTransition = errors.New("state transition failed")

// State is one screen of the application.
type State interface {
	// Name identifies the state in logs.
	Name() string

	// Enter is called when the state becomes current.
	Enter() error

	// Exit is called when the state stops being current.
	Exit() error

	// Update advances the state by dt seconds.
	Update(dt float32, in *input.State) error

	// Render draws the state into a width x height target.
	Render(width, height int) error
}

// Manager manages state transitions.
type Manager struct {
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change for the next Update.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update applies a pending change and updates the current state.
func (m *Manager) Update(dt float32, in *input.State) error {
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return fmt.Errorf("%w: exit %s: %w", ErrTransition, m.current.Name(), err)
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return fmt.Errorf("%w: enter %s: %w", ErrTransition, m.current.Name(), err)
		}
	}

	if m.current != nil {
		return m.current.Update(dt, in)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render(width, height int) error {
	if m.current != nil {
		return m.current.Render(width, height)
	}
	return nil
}

// Close exits the current state.
func (m *Manager) Close() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}
