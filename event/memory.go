package event

// Memory collects records in order. It is the journal used by tests and by
// hosts that replay or inspect recent activity.
type Memory struct {
	records []Record
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

// Emit appends the record.
func (m *Memory) Emit(rec Record) {
	m.records = append(m.records, rec)
}

// Records returns a copy of all collected records.
func (m *Memory) Records() []Record {
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of collected records.
func (m *Memory) Len() int {
	return len(m.records)
}

// Last returns the most recent record, or false if none were emitted.
func (m *Memory) Last() (Record, bool) {
	if len(m.records) == 0 {
		return Record{}, false
	}
	return m.records[len(m.records)-1], true
}

// ByName returns all records with the given event name, oldest first.
func (m *Memory) ByName(name string) []Record {
	var out []Record
	for _, rec := range m.records {
		if rec.Name == name {
			out = append(out, rec)
		}
	}
	return out
}

// Reset drops all collected records.
func (m *Memory) Reset() {
	m.records = m.records[:0]
}
