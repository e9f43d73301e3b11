// Package hud formats the overlay line shared by the window hosts.
package hud

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/dotswarm/internal/metrics"
	"github.com/san-kum/dotswarm/internal/sim"
)

// Attach registers the metrics the overlay reports.
func Attach(s *sim.Simulator) {
	s.AddMetric(metrics.NewMeanSpeed())
	s.AddMetric(metrics.NewEscaped())
}

// Text returns the overlay for s at the measured frame rate, followed by
// every registered metric in name order.
func Text(s *sim.Simulator, fps int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d particles  %s  %d FPS", s.Len(), s.Backend().Name(), fps)

	values := s.Metrics()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\n%s %.2f", name, values[name])
	}
	return b.String()
}
