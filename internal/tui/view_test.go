package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"freqctl/internal/composecli"
)

func TestCellTruncatesAndPads(t *testing.T) {
	got := cell("bot_eth", 10)
	if w := runewidth.StringWidth(got); w != 10 {
		t.Errorf("expected width 10, got %d (%q)", w, got)
	}
	if !strings.HasPrefix(got, "bot_eth") {
		t.Errorf("expected padded name, got %q", got)
	}

	got = cell("a_very_long_strategy_name", 10)
	if w := runewidth.StringWidth(got); w != 10 {
		t.Errorf("expected truncation to width 10, got %d (%q)", w, got)
	}
	if !strings.Contains(got, "…") {
		t.Errorf("expected ellipsis in truncated cell, got %q", got)
	}
}

func TestStateLabel(t *testing.T) {
	cases := []struct {
		state composecli.BotState
		want  string
	}{
		{composecli.StateRunning, "running"},
		{composecli.StateStopped, "stopped"},
		{composecli.StateNotFound, "absent"},
		{composecli.StateUnknown, "unknown"},
	}
	for _, tc := range cases {
		if got := stateLabel(tc.state); !strings.Contains(got, tc.want) {
			t.Errorf("stateLabel(%q) = %q, want substring %q", tc.state, got, tc.want)
		}
	}
}

func TestFleetTableMarksSelection(t *testing.T) {
	m := testModel(row("bot_eth", composecli.StateRunning), row("bot_btc", composecli.StateStopped))
	m.cursor = 1

	table := m.renderFleetTable(100)

	if !strings.Contains(table, "NAME") || !strings.Contains(table, "STATE") {
		t.Error("expected column headers in table")
	}
	if !strings.Contains(table, "bot_eth") || !strings.Contains(table, "bot_btc") {
		t.Error("expected both bots in table")
	}
	for _, line := range strings.Split(table, "\n") {
		if strings.Contains(line, "▸") && !strings.Contains(line, "bot_btc") {
			t.Errorf("selection marker on wrong row: %q", line)
		}
	}
}

func TestFleetTableEmptyFleetHint(t *testing.T) {
	m := testModel()

	table := m.renderFleetTable(100)

	if !strings.Contains(table, "No bots in the fleet") {
		t.Errorf("expected empty-fleet hint, got %q", table)
	}
}

func TestFleetTableShowsError(t *testing.T) {
	m := testModel(row("bot_eth", composecli.StateRunning))
	m.fleetErr = errors.New("compose file unreadable")

	table := m.renderFleetTable(100)

	if !strings.Contains(table, "Fleet unavailable") {
		t.Errorf("expected fleet error banner, got %q", table)
	}
}

func TestStatusBarCountsRunning(t *testing.T) {
	m := testModel(
		row("bot_eth", composecli.StateRunning),
		row("bot_btc", composecli.StateStopped),
		row("bot_sol", composecli.StateRunning),
	)

	bar := m.renderStatusBar(100)

	if !strings.Contains(bar, "2/3 running") {
		t.Errorf("expected running count in status bar, got %q", bar)
	}
}

func TestStatusBarShowsTransientMessage(t *testing.T) {
	m := testModel(row("bot_eth", composecli.StateRunning))
	m.statusBarMessage = "Started bot_eth"
	m.statusBarMessageType = StatusBarSuccess

	bar := m.renderStatusBar(100)

	if !strings.Contains(bar, "Started bot_eth") {
		t.Errorf("expected transient message in status bar, got %q", bar)
	}
}

func TestPrepareLogContentTruncates(t *testing.T) {
	lines := []string{
		"short line",
		strings.Repeat("x", 120),
	}

	content := prepareLogContent(lines, 40)

	for _, line := range strings.Split(content, "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line exceeds width 40: %d (%q)", w, line)
		}
	}
	if !strings.Contains(content, "short line") {
		t.Error("expected short line preserved")
	}
}

func TestViewLoadingBeforeWindowSize(t *testing.T) {
	m := newModel(nil, 0, nil)

	if got := m.View(); !strings.Contains(got, "Loading") {
		t.Errorf("expected loading placeholder, got %q", got)
	}
}

func TestViewQuitting(t *testing.T) {
	m := testModel()
	m.mode = ModeQuitting

	if got := m.View(); !strings.Contains(got, "Shutting down") {
		t.Errorf("expected shutdown message, got %q", got)
	}
}
