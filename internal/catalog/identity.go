package catalog

// IdentityMapper translates between human-facing wizard labels (such as "T1"
// or "I2") and canonical table ids.  The mapping is many-to-one: historical
// labels may alias the same canonical id as a current label (PT1/PT2 from the
// retired patio zone point at the same tables as B1/B2).  The alias set is
// preserved as configuration rather than collapsed, so old links and stored
// wizard selections keep referring to the same physical table.
//
// Both lookups are pure O(1) reads over maps built once at construction.  A
// miss is a legitimate outcome, not an error: callers treat it as "no such
// table" and may fall back to interpreting the raw input as a canonical id.
type IdentityMapper struct {
	toID    map[string]uint64
	toLabel map[uint64]string
}

// NewIdentityMapper builds the bidirectional map.  labels maps every known
// wizard label (current and legacy) to its canonical id.  legacy names the
// labels excluded from reverse lookups, making the id→label direction
// deterministic when several labels share an id.
func NewIdentityMapper(labels map[string]uint64, legacy []string) *IdentityMapper {
	isLegacy := make(map[string]struct{}, len(legacy))
	for _, l := range legacy {
		isLegacy[l] = struct{}{}
	}
	m := &IdentityMapper{
		toID:    make(map[string]uint64, len(labels)),
		toLabel: make(map[uint64]string, len(labels)),
	}
	for label, id := range labels {
		m.toID[label] = id
		if _, skip := isLegacy[label]; skip {
			continue
		}
		// Prefer the lexicographically smallest current label should the
		// configuration ever map two current labels to one id.
		if existing, ok := m.toLabel[id]; !ok || label < existing {
			m.toLabel[id] = label
		}
	}
	// Ids reachable only through legacy labels still need a reverse entry;
	// again the smallest label wins so the result is deterministic.
	fallback := make(map[uint64]string)
	for label, id := range labels {
		if _, ok := m.toLabel[id]; ok {
			continue
		}
		if existing, ok := fallback[id]; !ok || label < existing {
			fallback[id] = label
		}
	}
	for id, label := range fallback {
		m.toLabel[id] = label
	}
	return m
}

// CanonicalID resolves a wizard label to its canonical table id.
func (m *IdentityMapper) CanonicalID(label string) (uint64, bool) {
	id, ok := m.toID[label]
	return id, ok
}

// Label resolves a canonical table id to its current wizard label.
func (m *IdentityMapper) Label(id uint64) (string, bool) {
	label, ok := m.toLabel[id]
	return label, ok
}
