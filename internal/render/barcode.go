// Package render produces the printable artifacts: the intake barcode and
// receipt card, wage slips, and spreadsheet exports.
package render

import (
	"fmt"
	"strings"
)

// Bar widths are derived from the digit value alone, so the same number
// always renders the same stripes. The pattern is decorative: scanners read
// the printed number, not the bars.
func barWidth(digit byte) float64 {
	return float64(digit-'0')*0.5 + 1
}

func spaceWidth(digit byte) float64 {
	return float64(9-(digit-'0'))*0.5 + 1
}

// barcodeBars lays out one (x, width) pair per digit.
func barcodeBars(number string) (bars [][2]float64, total float64) {
	x := 0.0
	for i := 0; i < len(number); i++ {
		d := number[i]
		if d < '0' || d > '9' {
			continue
		}
		w := barWidth(d)
		bars = append(bars, [2]float64{x, w})
		x += w + spaceWidth(d)
	}
	return bars, x
}

// BarcodeSVG renders the stripe pattern for a ten digit intake number with
// the number printed underneath.
func BarcodeSVG(number string) string {
	const barHeight = 50
	bars, total := barcodeBars(number)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.1f" height="%d" viewBox="0 0 %.1f %d">`,
		total, barHeight+16, total, barHeight+16)
	for _, bar := range bars {
		fmt.Fprintf(&b, `<rect x="%.1f" y="0" width="%.1f" height="%d" fill="#000"/>`, bar[0], bar[1], barHeight)
	}
	fmt.Fprintf(&b, `<text x="%.1f" y="%d" text-anchor="middle" font-family="monospace" font-size="12">%s</text>`,
		total/2, barHeight+13, number)
	b.WriteString(`</svg>`)
	return b.String()
}
