// internal/platform/ui/helpers.go
package ui

import (
	"fmt"
	"path/filepath"
	"time"
)

// formatDuration formatea una duración de manera legible
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}

// absPath retorna la ruta absoluta, o p si no se puede resolver
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// waitLabel describe una espera de pacing
func waitLabel(kind string) string {
	if kind == "target" {
		return "next target"
	}
	return "next resource type"
}
