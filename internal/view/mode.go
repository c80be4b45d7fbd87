package view

import (
	"fmt"
	"strings"
)

// Mode selects how a snapshot is rendered.
type Mode int

const (
	ModeSummary Mode = iota
	ModeChart
	ModeRaw
)

func (m Mode) String() string {
	switch m {
	case ModeSummary:
		return "summary"
	case ModeChart:
		return "chart"
	case ModeRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summary":
		return ModeSummary, nil
	case "chart":
		return ModeChart, nil
	case "raw":
		return ModeRaw, nil
	default:
		return ModeSummary, fmt.Errorf("view mode must be summary, chart or raw, got %q", s)
	}
}
