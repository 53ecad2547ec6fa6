package render

import "strings"

// wrapText breaks text into lines no wider than width as measured by measure.
// Newlines force a break and blank lines are dropped. A word wider than a
// whole line is split between runes.
func wrapText(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var cur string
		for _, w := range strings.Fields(para) {
			if measure(w) > width {
				if cur != "" {
					lines = append(lines, cur)
				}
				parts := splitWord(w, width, measure)
				lines = append(lines, parts[:len(parts)-1]...)
				cur = parts[len(parts)-1]
				continue
			}
			if cur == "" {
				cur = w
				continue
			}
			if cand := cur + " " + w; measure(cand) <= width {
				cur = cand
			} else {
				lines = append(lines, cur)
				cur = w
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}

func splitWord(w string, width float64, measure func(string) float64) []string {
	var parts []string
	var cur []rune
	for _, r := range w {
		if len(cur) > 0 && measure(string(cur)+string(r)) > width {
			parts = append(parts, string(cur))
			cur = []rune{r}
			continue
		}
		cur = append(cur, r)
	}
	return append(parts, string(cur))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
