package constant

// Kind identifies a waste stream. The set is extensible: unknown values
// coming from the remote calendar are carried through unchanged and simply
// sort after the known ones.
type Kind string

const (
	// KindGeneral is general household waste (the black bin).
	KindGeneral Kind = "general"
	// KindRecycling is mixed recycling (the green bin).
	KindRecycling Kind = "recycling"
	// KindGarden is garden waste (the brown bin).
	KindGarden Kind = "garden"
	// KindFood is food waste.
	KindFood Kind = "food"
)

// AllKinds lists the known kinds in their declared display/sort order.
var AllKinds = []Kind{KindGeneral, KindRecycling, KindGarden, KindFood}

// displayNames maps each known kind to its user-facing name.
var displayNames = map[Kind]string{
	KindGeneral:   "General waste",
	KindRecycling: "Recycling",
	KindGarden:    "Garden waste",
	KindFood:      "Food waste",
}

// kindOrder is derived from AllKinds and used for tie-breaking when two
// collections fall on the same date.
var kindOrder = func() map[Kind]int {
	m := make(map[Kind]int, len(AllKinds))
	for i, k := range AllKinds {
		m[k] = i
	}
	return m
}()

// String returns the raw kind identifier.
func (k Kind) String() string {
	return string(k)
}

// DisplayName returns the user-facing name of the kind, falling back to the
// raw identifier for unknown streams.
func (k Kind) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return string(k)
}

// SortOrder returns the position of the kind in the declared ordering.
// Unknown kinds sort after all known ones, then lexically.
func (k Kind) SortOrder() int {
	if i, ok := kindOrder[k]; ok {
		return i
	}
	return len(AllKinds)
}

// Less reports whether k sorts before other under the declared ordering.
func (k Kind) Less(other Kind) bool {
	a, b := k.SortOrder(), other.SortOrder()
	if a != b {
		return a < b
	}
	return k < other
}
