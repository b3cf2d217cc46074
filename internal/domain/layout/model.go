package layout

// Layout is the read-mostly view derived from one Blueprint snapshot: where
// each character sits, which finger types it, what it costs, and which hand a
// position belongs to. It is rebuilt in full whenever the Blueprint changes,
// never patched incrementally, so it is always consistent with exactly one
// snapshot.
type Layout struct {
	blueprint  Blueprint
	geometry   *Geometry
	charPos    map[string]Position
	charFinger map[string]Finger
	charCost   map[string]float64
	posIsLeft  map[Position]bool
	posChar    map[Position]string
}

// FromBlueprint derives a Layout from bp. A nil geometry selects the default
// board. Characters occurring at several cells keep the cheapest one; exact
// cost ties keep the first cell seen in row-major, layer-major order. Pure:
// identical Blueprints always yield identical Layouts.
func FromBlueprint(bp Blueprint, geo *Geometry) *Layout {
	if geo == nil {
		geo = DefaultGeometry()
	}
	l := &Layout{
		blueprint:  bp.Clone(),
		geometry:   geo,
		charPos:    make(map[string]Position),
		charFinger: make(map[string]Finger),
		charCost:   make(map[string]float64),
		posIsLeft:  make(map[Position]bool),
		posChar:    make(map[Position]string),
	}
	for r, row := range bp {
		for s, key := range row {
			for lay, ch := range key {
				pos := Position{Row: uint8(r), Slot: uint8(s), Layer: uint8(lay)}
				l.posIsLeft[pos] = geo.IsLeftHand(pos)
				if ch == "" {
					continue
				}
				l.posChar[pos] = ch
				cost := geo.PositionCost(pos)
				if known, seen := l.charCost[ch]; seen && cost >= known {
					continue
				}
				l.charPos[ch] = pos
				l.charCost[ch] = cost
				l.charFinger[ch] = geo.FingerAt(Position{Row: pos.Row, Slot: pos.Slot})
			}
		}
	}
	return l
}

// Blueprint returns an independent copy of the underlying snapshot.
func (l *Layout) Blueprint() Blueprint {
	return l.blueprint.Clone()
}

// Geometry returns the geometry the layout was derived with.
func (l *Layout) Geometry() *Geometry {
	return l.geometry
}

// PositionOf returns the assigned position of ch.
func (l *Layout) PositionOf(ch string) (Position, bool) {
	pos, ok := l.charPos[ch]
	return pos, ok
}

// FingerOf returns the finger typing ch, or FingerUnassigned when ch is not on
// the layout or its key has no finger assignment.
func (l *Layout) FingerOf(ch string) Finger {
	return l.charFinger[ch]
}

// CostOf returns the effective (position + layer) cost of ch's assigned cell.
func (l *Layout) CostOf(ch string) (float64, bool) {
	cost, ok := l.charCost[ch]
	return cost, ok
}

// IsLeft reports whether pos is typed by the left hand.
func (l *Layout) IsLeft(pos Position) bool {
	return l.posIsLeft[pos]
}

// CharAt returns the character assigned to pos, "" when empty.
func (l *Layout) CharAt(pos Position) string {
	return l.posChar[pos]
}

// Chars returns the number of distinct characters with an assignment.
func (l *Layout) Chars() int {
	return len(l.charPos)
}
