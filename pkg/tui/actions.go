package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/eunoia/pkg/invoke"
)

type callKind int

const (
	callEntries callKind = iota
	callTags
	callStats
	callAnalysis
	callCreate
	callDelete
)

// stateMsg carries the state of one invocation after a call it ran settled.
// When a newer call superseded that call, the state already belongs to the
// newer one and usually still reports Loading.
type stateMsg struct {
	kind  callKind
	state invoke.State
}

// calls holds one invocation per operation the browser uses.
type calls map[callKind]*invoke.Invocation

var callTargets = map[callKind][2]string{
	callEntries:  {"entries", "getEntries"},
	callTags:     {"tags", "getTags"},
	callStats:    {"entries", "getStats"},
	callAnalysis: {"ai", "analyzeText"},
	callCreate:   {"entries", "createEntry"},
	callDelete:   {"entries", "deleteEntry"},
}

func newCalls(ctx context.Context, reg *invoke.Registry) (calls, error) {
	c := make(calls, len(callTargets))
	for kind, target := range callTargets {
		inv, err := invoke.New(ctx, reg, target[0], target[1])
		if err != nil {
			return nil, err
		}
		c[kind] = inv
	}
	return c, nil
}

// run executes kind with args and reports the resulting state.
func (c calls) run(ctx context.Context, kind callKind, args ...any) tea.Cmd {
	inv := c[kind]
	return func() tea.Msg {
		_, _ = inv.Execute(ctx, args...)
		return stateMsg{kind: kind, state: inv.State()}
	}
}

func (c calls) cancelAll() {
	for _, inv := range c {
		inv.Cancel()
	}
}
