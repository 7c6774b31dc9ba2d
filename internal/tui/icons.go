package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Status icons shown in the fleet table and status bar.
const (
	IconRunning  = "🟢"
	IconStopped  = "🔴"
	IconNotFound = "⚫"
	IconUnknown  = "🟡"
	IconCheck    = "✔"
	IconCross    = "❌"
	IconWarning  = "⚠"
	IconScroll   = "📜"
	IconInfo     = "ℹ"
)

// SafeIcon wraps an icon with trailing spacing sized to its display
// width, so a two-cell emoji doesn't swallow the character after it.
func SafeIcon(icon string) string {
	w := runewidth.StringWidth(icon)
	spaces := 1
	if w >= 2 {
		spaces = 2
	}
	return fmt.Sprintf("%s%s", icon, strings.Repeat(" ", spaces))
}
