package main

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/washaway/status"
)

const hudKeys = "[b]ack [n]ext [c]lear [m]usic [q]uit"

// formatHUD renders the one-line status bar from the session metrics
func formatHUD(reg *status.Registry, title string, images int) string {
	var sb strings.Builder

	music := "■"
	if reg.Bools.Get(status.KeyPlaying).Load() {
		music = "▶"
	}
	if title != "" {
		fmt.Fprintf(&sb, "%s %s | ", music, title)
	}

	index := reg.Ints.Get(status.KeyIndex).Load()
	fmt.Fprintf(&sb, "%d/%d | %3.0f%% | %s",
		index+1, images,
		reg.Floats.Get(status.KeyCoverage).Get()*100,
		reg.Strings.Get(status.KeyState).Load(),
	)
	if reg.Bools.Get(status.KeyLocked).Load() {
		sb.WriteString(" (locked)")
	}
	sb.WriteString(" | ")
	sb.WriteString(hudKeys)
	return sb.String()
}
