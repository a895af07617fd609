package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSON writes the snapshot as indented JSON.
func (s Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes the body catalog as a text table.
func WriteSummaryTable(w io.Writer, s Snapshot) {
	fmt.Fprintf(w, "Orrery @ tick %d  warp ×%g  mode %s\n", s.Ticks, s.Warp, s.Mode)
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(s.Bodies) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	fmt.Fprintf(w, "%-10s %6s %8s %8s %8s %-12s %s\n",
		"Body", "Radius", "Distance", "Speed", "Angle", "Surface", "Age")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	for _, b := range s.Bodies {
		fmt.Fprintf(w, "%-10s %6.1f %8.1f %8.4f %8.3f %-12s %s\n",
			truncateStr(b.Name, 10),
			b.Radius,
			b.OrbitalDistance,
			b.OrbitalSpeed,
			b.OrbitalAngle,
			b.Material,
			b.Age,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d bodies, %d asteroids, %d comets\n", len(s.Bodies), s.Asteroids, s.Comets)
	fmt.Fprintf(w, "Frame time: avg %.2fms  max %.2fms\n", s.AvgFrame, s.MaxFrame)
}

func truncateStr(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
