// Small finite state machine support.

package coopsched_internal

import (
	"fmt"
)

// An Fsm holds a current state and a fixed state table. Each state has a name
// (for logs) and an optional dispatch function invoked for events arriving in
// that state. Transitions are explicit, via SetState, typically from inside a
// dispatch function. Tasks driving multi-phase activities keep an Fsm in
// their context structure.

type FsmStateId int

type FsmDispatchFunc func(fsm *Fsm, event any)

type FsmState struct {
	Name     string
	Dispatch FsmDispatchFunc
}

type Fsm struct {
	name   string
	states []FsmState
	state  FsmStateId
}

var fsmLog = NewCompLogger("fsm")

// NewFsm creates a machine in the initial state, which must index into the
// state table.
func NewFsm(name string, states []FsmState, initial FsmStateId) (*Fsm, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("fsm %s: empty state table", name)
	}
	if initial < 0 || int(initial) >= len(states) {
		return nil, fmt.Errorf("fsm %s: initial state %d out of range", name, initial)
	}
	return &Fsm{
		name:   name,
		states: states,
		state:  initial,
	}, nil
}

func (fsm *Fsm) Name() string {
	return fsm.name
}

func (fsm *Fsm) State() FsmStateId {
	return fsm.state
}

func (fsm *Fsm) StateName() string {
	return fsm.states[fsm.state].Name
}

// SetState transitions the machine. An out-of-range state is an error and
// leaves the machine unchanged.
func (fsm *Fsm) SetState(state FsmStateId) error {
	if state < 0 || int(state) >= len(fsm.states) {
		return fmt.Errorf("fsm %s: state %d out of range", fsm.name, state)
	}
	if state != fsm.state {
		fsmLog.Debugf(
			"%s: %s -> %s",
			fsm.name, fsm.states[fsm.state].Name, fsm.states[state].Name,
		)
		fsm.state = state
	}
	return nil
}

// Dispatch hands the event to the current state's dispatch function, a no-op
// for states without one.
func (fsm *Fsm) Dispatch(event any) {
	if dispatch := fsm.states[fsm.state].Dispatch; dispatch != nil {
		dispatch(fsm, event)
	}
}
