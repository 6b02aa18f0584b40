// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"slices"
	"time"

	"github.com/bureau-foundation/loom/lib/element"
)

const (
	tabOverview = iota
	tabServices
	tabTopology
	tabFeedback
	tabHelp
	tabCount
)

// counterCapacity is the load gauge's full-scale value.
const counterCapacity = 20

// toastTicks is how many tick events a toast survives; at the default
// 250ms cadence that is four seconds on screen.
const toastTicks = 16

// maxToasts bounds the visible notification stack.
const maxToasts = 4

// toast is one queued notification with its remaining lifetime in
// ticks.
type toast struct {
	text      string
	level     element.ToastLevel
	remaining int
}

// dashboardState is the dashboard's whole UI state. A single reducer
// owns it, so every transition decides against current values: the
// guards for key routing (which tab is active, whether the modal is
// up) live here instead of in reads racing the render loop.
type dashboardState struct {
	tab       int
	counter   int
	modalOpen bool
	selected  int
	collapsed map[string]bool
	toasts    []toast
	uptime    time.Duration
}

func initialState() dashboardState {
	return dashboardState{collapsed: map[string]bool{}}
}

type action interface{ isAction() }

type actionTick struct{ interval time.Duration }

type actionSwitchTab struct{ delta int }

type actionSetTab struct{ tab int }

type actionCounter struct{ delta int }

type actionOpenReset struct{}

type actionConfirmReset struct{}

// actionDismiss closes the modal if one is up; otherwise it means
// nothing.
type actionDismiss struct{}

type actionMoveSelection struct{ delta, count int }

type actionToggleBranch struct{ name string }

type actionToast struct {
	text  string
	level element.ToastLevel
}

func (actionTick) isAction()          {}
func (actionSwitchTab) isAction()     {}
func (actionSetTab) isAction()        {}
func (actionCounter) isAction()       {}
func (actionOpenReset) isAction()     {}
func (actionConfirmReset) isAction()  {}
func (actionDismiss) isAction()       {}
func (actionMoveSelection) isAction() {}
func (actionToggleBranch) isAction()  {}
func (actionToast) isAction()         {}

func reduce(state dashboardState, a action) dashboardState {
	switch a := a.(type) {
	case actionTick:
		state.uptime += a.interval
		state.toasts = decayToasts(state.toasts)

	case actionSwitchTab:
		if state.modalOpen {
			break
		}
		state.tab = ((state.tab+a.delta)%tabCount + tabCount) % tabCount

	case actionSetTab:
		if state.modalOpen || a.tab < 0 || a.tab >= tabCount {
			break
		}
		state.tab = a.tab

	case actionCounter:
		if state.modalOpen {
			break
		}
		state.counter = clamp(state.counter+a.delta, 0, counterCapacity)

	case actionOpenReset:
		state.modalOpen = true

	case actionConfirmReset:
		// Clicks resolve against the last drawn frame, which may
		// predate the close.
		if !state.modalOpen {
			break
		}
		state.modalOpen = false
		state.counter = 0
		state.toasts = pushToast(state.toasts, "counter reset", element.ToastInfo)

	case actionDismiss:
		state.modalOpen = false

	case actionMoveSelection:
		if state.modalOpen || state.tab != tabServices || a.count == 0 {
			break
		}
		state.selected = clamp(state.selected+a.delta, 0, a.count-1)

	case actionToggleBranch:
		collapsed := make(map[string]bool, len(state.collapsed)+1)
		for name, value := range state.collapsed {
			collapsed[name] = value
		}
		collapsed[a.name] = !collapsed[a.name]
		state.collapsed = collapsed

	case actionToast:
		state.toasts = pushToast(state.toasts, a.text, a.level)
	}
	return state
}

func pushToast(toasts []toast, text string, level element.ToastLevel) []toast {
	next := append(slices.Clip(toasts), toast{text: text, level: level, remaining: toastTicks})
	if len(next) > maxToasts {
		next = next[len(next)-maxToasts:]
	}
	return next
}

func decayToasts(toasts []toast) []toast {
	var alive []toast
	for _, item := range toasts {
		item.remaining--
		if item.remaining > 0 {
			alive = append(alive, item)
		}
	}
	return alive
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
