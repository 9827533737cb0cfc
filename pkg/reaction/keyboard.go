package reaction

import "strconv"

// Control is one selectable reaction button.
type Control struct {
	Kind    Kind
	Label   string
	Payload string
}

// Render returns one control per kind in display order. Labels carry the
// vote count when it is non-zero; payloads are the kind identifiers.
func Render(s State) []Control {
	kinds := Kinds()
	controls := make([]Control, 0, len(kinds))
	for _, k := range kinds {
		label := k.Glyph()
		if n := s.Count(k); n > 0 {
			label += " " + strconv.Itoa(n)
		}
		controls = append(controls, Control{Kind: k, Label: label, Payload: k.ID()})
	}
	return controls
}

// Rows splits controls into rows of at most width buttons.
func Rows(controls []Control, width int) [][]Control {
	if width <= 0 {
		width = len(controls)
	}
	var rows [][]Control
	for start := 0; start < len(controls); start += width {
		end := start + width
		if end > len(controls) {
			end = len(controls)
		}
		rows = append(rows, controls[start:end])
	}
	return rows
}
