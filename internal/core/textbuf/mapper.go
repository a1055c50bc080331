package textbuf

// OffsetMapper translates byte offsets recorded before a sequence of edit
// sets into offsets valid for the current buffer. Each recorded set is
// expressed in the coordinates of the buffer at the time it was applied, so
// mapping replays the sets in order.
type OffsetMapper struct {
	applied []EditSet
}

// Record notes an edit set that has been applied to the buffer.
func (m *OffsetMapper) Record(es EditSet) {
	if len(es) == 0 {
		return
	}
	m.applied = append(m.applied, es.sorted())
}

// Map returns the current offset for a phase-start offset, or false when the
// offset fell inside text that an edit replaced (a stale position).
func (m *OffsetMapper) Map(offset int) (int, bool) {
	for _, es := range m.applied {
		shift := 0
		stale := false
		for _, e := range es {
			if offset >= e.End {
				shift += len(e.Text) - (e.End - e.Start)
				continue
			}
			if offset >= e.Start {
				stale = true
			}
			break
		}
		if stale {
			return 0, false
		}
		offset += shift
	}
	return offset, true
}
