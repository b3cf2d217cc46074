package layout

// Finger identifies which of the ten fingers reaches a key.
type Finger int

const (
	// FingerUnassigned marks positions no finger is responsible for.
	FingerUnassigned Finger = iota
	PinkyLeft
	RingLeft
	MiddleLeft
	IndexLeft
	ThumbLeft
	ThumbRight
	IndexRight
	MiddleRight
	RingRight
	PinkyRight
)

var fingerNames = map[Finger]string{
	FingerUnassigned: "unassigned",
	PinkyLeft:        "pinky-left",
	RingLeft:         "ring-left",
	MiddleLeft:       "middle-left",
	IndexLeft:        "index-left",
	ThumbLeft:        "thumb-left",
	ThumbRight:       "thumb-right",
	IndexRight:       "index-right",
	MiddleRight:      "middle-right",
	RingRight:        "ring-right",
	PinkyRight:       "pinky-right",
}

func (f Finger) String() string {
	if name, ok := fingerNames[f]; ok {
		return name
	}
	return "unassigned"
}

// IsLeft reports whether the finger belongs to the left hand.
func (f Finger) IsLeft() bool {
	return f >= PinkyLeft && f <= ThumbLeft
}

// rowSlot keys the finger-assignment table; fingers are defined on layer 0.
type rowSlot struct {
	row  uint8
	slot uint8
}

// Geometry is the fixed physical description of the target keyboard: per-key
// base effort, per-layer surcharge, finger assignments, and the hand split.
// The default instance describes the reference ergo board; tests may build
// smaller ones.
type Geometry struct {
	// RowCosts is the baseline effort per (row, slot). Lower is easier;
	// home-row index keys score lowest.
	RowCosts [][]float64
	// LayerCosts is added per modifier layer and grows with depth.
	LayerCosts []float64
	// OverflowCost is used for positions outside the tables.
	OverflowCost float64
	// RightHandLowest holds, per row, the lowest slot index typed by the
	// right hand; lower slots belong to the left hand.
	RightHandLowest []uint8
	// Fingers assigns a finger to each (row, slot) on layer 0.
	Fingers map[rowSlot]Finger
}

// fingerPositions lists which layer-0 positions each finger covers on the
// reference board. Thumb rows overlap on (4,3); the later entry wins.
var fingerPositions = []struct {
	finger Finger
	slots  [][2]uint8
}{
	{PinkyLeft, [][2]uint8{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 0}, {2, 1}, {3, 0}, {3, 1}, {3, 2}, {4, 0}, {4, 1}}},
	{RingLeft, [][2]uint8{{0, 3}, {1, 2}, {2, 2}, {3, 3}}},
	{MiddleLeft, [][2]uint8{{0, 4}, {1, 3}, {2, 3}, {3, 4}}},
	{IndexLeft, [][2]uint8{{0, 5}, {0, 6}, {1, 4}, {2, 4}, {3, 5}, {1, 5}, {2, 5}, {3, 6}}},
	{ThumbLeft, [][2]uint8{{4, 2}, {4, 3}}},
	{ThumbRight, [][2]uint8{{4, 3}, {4, 4}}},
	{IndexRight, [][2]uint8{{0, 7}, {0, 8}, {1, 6}, {2, 6}, {3, 7}, {1, 7}, {2, 7}, {3, 8}}},
	{MiddleRight, [][2]uint8{{0, 9}, {1, 8}, {2, 8}, {3, 9}}},
	{RingRight, [][2]uint8{{0, 10}, {1, 9}, {2, 9}, {3, 10}}},
	{PinkyRight, [][2]uint8{{0, 11}, {0, 12}, {0, 13}, {1, 10}, {2, 10}, {3, 11}, {1, 11}, {2, 11}, {1, 12}, {2, 12}, {1, 13}, {2, 13}, {3, 12}, {4, 5}, {4, 6}, {4, 7}}},
}

// DefaultGeometry returns the reference board: five rows, NEO-style slot
// counts, hand split [7 6 6 7 3].
func DefaultGeometry() *Geometry {
	fingers := make(map[rowSlot]Finger)
	for _, group := range fingerPositions {
		for _, rs := range group.slots {
			fingers[rowSlot{rs[0], rs[1]}] = group.finger
		}
	}
	return &Geometry{
		RowCosts: [][]float64{
			{14, 12, 11, 10, 10, 11, 11.5, 11.5, 11, 10, 10, 11, 12, 14},
			{9, 5, 4, 3.5, 4, 4.5, 6.5, 6.5, 4.5, 4, 3.5, 4, 5, 9},
			{6, 2.4, 1.8, 1.4, 1.6, 2.8, 4, 4, 2.8, 1.6, 1.4, 1.8, 2.4, 6},
			{7, 5.5, 4.5, 4, 3.6, 4.6, 4.6, 3.6, 4, 4.5, 5.5, 7, 8},
			{5, 4, 3, 1, 1, 3, 4, 5},
		},
		LayerCosts:      []float64{0, 4, 7, 10, 14, 18},
		OverflowCost:    20,
		RightHandLowest: []uint8{7, 6, 6, 7, 3},
		Fingers:         fingers,
	}
}

// PositionCost returns the effort of reaching pos: base key cost plus the
// layer surcharge. Pure; identical inputs always yield identical values.
func (g *Geometry) PositionCost(pos Position) float64 {
	cost := g.OverflowCost
	if int(pos.Row) < len(g.RowCosts) && int(pos.Slot) < len(g.RowCosts[pos.Row]) {
		cost = g.RowCosts[pos.Row][pos.Slot]
	}
	if int(pos.Layer) < len(g.LayerCosts) {
		cost += g.LayerCosts[pos.Layer]
	} else if len(g.LayerCosts) > 0 {
		cost += g.LayerCosts[len(g.LayerCosts)-1]
	}
	return cost
}

// FingerAt returns the finger assigned to pos's key, or FingerUnassigned for
// uncovered slots.
func (g *Geometry) FingerAt(pos Position) Finger {
	return g.Fingers[rowSlot{pos.Row, pos.Slot}]
}

// IsLeftHand reports whether pos is typed by the left hand.
func (g *Geometry) IsLeftHand(pos Position) bool {
	if int(pos.Row) >= len(g.RightHandLowest) {
		return true
	}
	return pos.Slot < g.RightHandLowest[pos.Row]
}

// AssignFinger maps a (row, slot) to a finger; intended for tests building
// small geometries.
func (g *Geometry) AssignFinger(row, slot uint8, finger Finger) {
	if g.Fingers == nil {
		g.Fingers = make(map[rowSlot]Finger)
	}
	g.Fingers[rowSlot{row, slot}] = finger
}
