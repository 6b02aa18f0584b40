// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/loom/lib/element"
	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/fuzzy"
	"github.com/bureau-foundation/loom/lib/hook"
	"github.com/bureau-foundation/loom/lib/textinput"
)

// Theme is the presentation context provided at the root of the tree.
// Components read it through hook.UseContext instead of threading it
// down as a prop.
type Theme struct {
	Name string
}

// keyMap is the dashboard's top-level bindings. They are matched
// against bus events after the focus ring has had its turn, so while
// a field holds focus only the bindings that cannot collide with
// editing apply.
type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

var dashboardKeys = keyMap{
	NextTab: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("←/→", "switch tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous tab"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑/↓", "move selection"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "move down"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "blur / close"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
}

var tabTitles = []string{"Overview", "Services", "Topology", "Feedback", "Help"}

const tokenMinLength = 8

// Dashboard builds the root component. interval is the app's tick
// cadence (used to account toast lifetimes and uptime); quit ends the
// app when the quit key fires.
func Dashboard(cfg *Config, interval time.Duration, quit func()) element.Component {
	serviceNames := make([]string, len(cfg.Services))
	for index, service := range cfg.Services {
		serviceNames[index] = service.Name
	}

	return element.New("dashboard", func(s *hook.Scope) element.Element {
		state, dispatch := hook.UseReducer(s, initialState(), reduce)

		filter := hook.UseTextInput(s, "services-filter")
		name := hook.UseTextInput(s, "feedback-name")
		email := hook.UseTextInput(s, "feedback-email")
		token := hook.UseTextInput(s, "feedback-token")

		email.SetValidator(validateEmail)
		token.SetValidator(validateToken)
		token.SetSecure(true)

		// Only the visible tab's fields sit in the focus ring.
		filter.SetEnabled(state.tab == tabServices)
		for _, field := range []textinput.Binding{name, email, token} {
			field.SetEnabled(state.tab == tabFeedback)
		}

		ranked := hook.UseMemo(s, filter.Value(), func() []fuzzy.Ranked {
			return fuzzy.Rank(serviceNames, filter.Value())
		})

		inputs := s.Inputs()
		hits := s.Hitboxes()
		dispatcher := s.Dispatcher()

		hook.UseEffect(s, nil, func() func() {
			fields := map[string]textinput.Binding{
				filter.ID(): filter,
				name.ID():   name,
				email.ID():  email,
				token.ID():  token,
			}
			blurFocused := func() {
				if id, ok := inputs.FocusedID(); ok {
					if binding, exists := fields[id]; exists {
						binding.Blur()
					}
				}
			}
			isFormField := func(id string) bool {
				return id == name.ID() || id == email.ID() || id == token.ID()
			}
			submitFeedback := func() {
				nameValue := strings.TrimSpace(name.Value())
				emailValue := strings.TrimSpace(email.Value())
				tokenLength := len([]rune(token.Value()))
				if nameValue == "" || !strings.Contains(emailValue, "@") || tokenLength < tokenMinLength {
					dispatch(actionToast{text: "feedback: fix the highlighted fields", level: element.ToastError})
					return
				}
				name.SetValue("")
				email.SetValue("")
				token.SetValue("")
				blurFocused()
				dispatch(actionToast{text: "feedback sent, thanks " + nameValue, level: element.ToastInfo})
			}
			handleKey := func(message tea.KeyMsg) {
				focusedID, focused := inputs.FocusedID()
				switch {
				case key.Matches(message, dashboardKeys.Dismiss):
					if focused {
						blurFocused()
					} else {
						dispatch(actionDismiss{})
					}
				case key.Matches(message, dashboardKeys.Up):
					dispatch(actionMoveSelection{delta: -1, count: len(fuzzy.Rank(serviceNames, filter.Value()))})
				case key.Matches(message, dashboardKeys.Down):
					dispatch(actionMoveSelection{delta: 1, count: len(fuzzy.Rank(serviceNames, filter.Value()))})
				case message.Type == tea.KeyEnter:
					if focused && isFormField(focusedID) {
						submitFeedback()
					} else if !focused {
						dispatch(actionConfirmReset{})
					}
				case focused:
					// Everything below collides with editing keys.
				case key.Matches(message, dashboardKeys.NextTab):
					dispatch(actionSwitchTab{delta: 1})
				case key.Matches(message, dashboardKeys.PrevTab):
					dispatch(actionSwitchTab{delta: -1})
				case key.Matches(message, dashboardKeys.Quit):
					quit()
				case message.Type == tea.KeyRunes && len(message.Runes) == 1 &&
					message.Runes[0] >= '1' && message.Runes[0] <= '5':
					dispatch(actionSetTab{tab: int(message.Runes[0] - '1')})
				}
			}
			handleClick := func(column, row int) {
				id, ok := hits.Lookup(column, row)
				if !ok {
					return
				}
				switch {
				case id == "counter-inc":
					dispatch(actionCounter{delta: 1})
				case id == "counter-dec":
					dispatch(actionCounter{delta: -1})
				case id == "counter-reset":
					dispatch(actionOpenReset{})
				case id == "reset-confirm":
					dispatch(actionConfirmReset{})
				case id == "reset-cancel":
					dispatch(actionDismiss{})
				case id == "feedback-submit":
					submitFeedback()
				case strings.HasPrefix(id, "branch:"):
					dispatch(actionToggleBranch{name: strings.TrimPrefix(id, "branch:")})
				}
				// Clicks on input fields are the registry's business.
			}

			sub := dispatcher.Events()
			go func() {
				for ev := range sub.C() {
					switch ev := ev.(type) {
					case event.Tick:
						dispatch(actionTick{interval: interval})
					case event.Key:
						handleKey(ev.KeyMsg())
					case event.Mouse:
						if column, row, ok := event.Click(ev); ok {
							handleClick(column, row)
						}
					}
				}
			}()
			return sub.Close
		})

		var body element.Element
		switch state.tab {
		case tabServices:
			body = servicesPanel(cfg, state, ranked)
		case tabTopology:
			body = topologyPanel(state)
		case tabFeedback:
			body = feedbackPanel()
		case tabHelp:
			body = element.Markdown{Source: helpMarkdown}
		default:
			body = overviewPanel(state)
		}

		base := element.Flex{Direction: element.Vertical, Gap: 1, Children: []element.Element{
			header(state.uptime),
			element.Tabs{Titles: tabTitles, Active: state.tab, Body: body},
			footer(),
		}}

		var overlays []element.Element
		if state.modalOpen {
			overlays = append(overlays, resetModal(state.counter))
		}
		if len(state.toasts) > 0 {
			overlays = append(overlays, toastStack(state.toasts))
		}
		if len(overlays) == 0 {
			return base
		}
		return element.Layers{Base: base, Overlays: overlays}
	})
}

// header shows the product name, the context theme, and uptime. It is
// a child component so the theme arrives through context rather than
// a prop.
func header(uptime time.Duration) element.Component {
	return element.New("header", func(s *hook.Scope) element.Element {
		themeName := "default"
		if theme, ok := hook.UseContext[Theme](s); ok {
			themeName = theme.Name
		}
		line := fmt.Sprintf("loom dashboard · theme %s · up %s", themeName, uptime.Truncate(time.Second))
		return element.Styled{ID: "header", Child: element.Text{Content: line}}
	})
}

func footer() element.Element {
	bindings := []key.Binding{
		dashboardKeys.NextTab,
		textinput.DefaultKeyMap.Next,
		dashboardKeys.Up,
		dashboardKeys.Dismiss,
		dashboardKeys.Quit,
	}
	parts := make([]string, len(bindings))
	for index, binding := range bindings {
		help := binding.Help()
		parts[index] = help.Key + " " + help.Desc
	}
	return element.Styled{
		Classes: []string{"muted"},
		Child:   element.Text{Content: strings.Join(parts, " · ")},
	}
}

func overviewPanel(state dashboardState) element.Element {
	gauge := element.Gauge{
		Ratio: float64(state.counter) / counterCapacity,
		Label: fmt.Sprintf("%d/%d", state.counter, counterCapacity),
	}
	buttons := element.Flex{Direction: element.Horizontal, Gap: 1, Children: []element.Element{
		element.Button{ID: "counter-inc", Label: "+1"},
		element.Button{ID: "counter-dec", Label: "-1"},
		element.Button{ID: "counter-reset", Label: "Reset"},
	}}
	return element.Block{Title: "Load", Child: element.Flex{
		Direction: element.Vertical,
		Gap:       1,
		Children: []element.Element{
			gauge,
			buttons,
			element.Text{Content: "Click the buttons or press 1-5 to jump between tabs."},
		},
	}}
}

func servicesPanel(cfg *Config, state dashboardState, ranked []fuzzy.Ranked) element.Element {
	rows := make([][]string, len(ranked))
	for index, match := range ranked {
		service := cfg.Services[match.Index]
		rows[index] = []string{service.Name, service.Region, service.State, strconv.Itoa(service.Replicas)}
	}
	selected := state.selected
	if selected >= len(rows) {
		selected = len(rows) - 1
	}
	return element.Flex{Direction: element.Vertical, Gap: 1, Children: []element.Element{
		element.Input{ID: "services-filter", Label: "Filter", Placeholder: "fuzzy match names"},
		element.Table{
			Header:   []string{"NAME", "REGION", "STATE", "REPLICAS"},
			Rows:     rows,
			Selected: selected,
		},
	}}
}

func topologyPanel(state dashboardState) element.Element {
	toggles := element.Flex{Direction: element.Horizontal, Gap: 1, Children: []element.Element{
		element.Button{ID: "branch:edge", Label: "edge"},
		element.Button{ID: "branch:core", Label: "core"},
		element.Button{ID: "branch:data", Label: "data"},
	}}
	return element.Block{Title: "Topology", Child: element.Flex{
		Direction: element.Vertical,
		Gap:       1,
		Children: []element.Element{
			element.Tree{Nodes: topologyNodes(state.collapsed)},
			toggles,
		},
	}}
}

func topologyNodes(collapsed map[string]bool) []element.TreeNode {
	return []element.TreeNode{
		{Label: "edge", Expanded: !collapsed["edge"], Children: []element.TreeNode{
			{Label: "gateway"},
			{Label: "cdn"},
		}},
		{Label: "core", Expanded: !collapsed["core"], Children: []element.TreeNode{
			{Label: "billing"},
			{Label: "search", Expanded: true, Children: []element.TreeNode{
				{Label: "indexer"},
				{Label: "query"},
			}},
		}},
		{Label: "data", Expanded: !collapsed["data"], Children: []element.TreeNode{
			{Label: "postgres"},
			{Label: "redis"},
			{Label: "archive"},
		}},
	}
}

func feedbackPanel() element.Element {
	return element.Form{Title: "Feedback", Children: []element.Element{
		element.Input{ID: "feedback-name", Label: "Name", Placeholder: "who are you"},
		element.Input{ID: "feedback-email", Label: "Email", Placeholder: "you@example.com"},
		element.Input{ID: "feedback-token", Label: "Access token", Placeholder: "at least 8 characters"},
		element.Button{ID: "feedback-submit", Label: "Send"},
	}}
}

func resetModal(counter int) element.Element {
	return element.Modal{Title: "Reset counter", Body: element.Flex{
		Direction: element.Vertical,
		Gap:       1,
		Children: []element.Element{
			element.Text{Content: fmt.Sprintf("Drop the counter from %d to zero?", counter)},
			element.Flex{Direction: element.Horizontal, Gap: 1, Children: []element.Element{
				element.Button{ID: "reset-confirm", Label: "Reset"},
				element.Button{ID: "reset-cancel", Label: "Cancel"},
			}},
		},
	}}
}

func toastStack(toasts []toast) element.Element {
	items := make([]element.Toast, len(toasts))
	for index, item := range toasts {
		items[index] = element.Toast{Text: item.text, Level: item.level}
	}
	return element.ToastStack{Toasts: items}
}

func validateEmail(value string) (textinput.Status, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.Contains(trimmed, "@") {
		return textinput.Status{}, false
	}
	return textinput.Status{Text: "needs an @", Invalid: true}, true
}

func validateToken(value string) (textinput.Status, bool) {
	length := len([]rune(value))
	switch {
	case length == 0:
		return textinput.Status{}, false
	case length < tokenMinLength:
		return textinput.Status{
			Text:    fmt.Sprintf("%d more characters", tokenMinLength-length),
			Invalid: true,
		}, true
	default:
		return textinput.Status{Text: "looks good"}, true
	}
}

const helpMarkdown = `# loom dashboard

A demo of the loom component runtime: hooks, a reconciler, and a
terminal renderer behind a declarative element tree.

## Keys

- **←/→** or **1-5** switch tabs
- **Tab / Shift+Tab** move between fields
- **↑/↓** move the services selection
- **Esc** blurs the focused field, or closes the modal
- **q** quits (when no field is focused)

## Panels

| Tab | Shows |
| --- | --- |
| Overview | counter gauge with clickable buttons |
| Services | fuzzy-filterable service table |
| Topology | expandable service tree |
| Feedback | validated form with a secure field |

## Configuration

Pass a YAML file with --config:

~~~yaml
theme: dark
tick_interval: 250ms
services:
  - name: gateway
    region: eu-west
    state: up
    replicas: 4
~~~

> Styles hot-reload: pass --styles with a JSONC sheet and edit it
> while the dashboard runs.
`
