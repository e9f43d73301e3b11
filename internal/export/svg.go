package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/dotswarm/internal/colorize"
	"github.com/san-kum/dotswarm/internal/sim"
)

const background = "#0a0a0a"

// FrameSVG draws one frame of the swarm as colored dots on a dark field.
// Scale maps one world unit to that many SVG pixels. Particles outside the
// bounds are drawn where they are and clipped by the viewport.
func FrameSVG(particles []sim.Particle, b sim.Bounds, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	width := b.Width * scale
	height := b.Height * scale
	radius := scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g>
`, width, height, width, height, background))

	for _, p := range particles {
		c := colorize.ColorFor(p.DX, p.DY, 1)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, p.X*scale, p.Y*scale, radius, c.Hex()))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesSVG plots a metric series against frame number as a single path.
func SeriesSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
