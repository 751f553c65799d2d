package event

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryJournal(t *testing.T) {
	var m Memory
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}
	if _, ok := m.Last(); ok {
		t.Fatal("Last() on empty journal should report false")
	}

	m.Emit(Record{Seq: 1, Name: Transfer, Time: 10})
	m.Emit(Record{Seq: 2, Name: Approval, Time: 11})
	m.Emit(Record{Seq: 3, Name: Transfer, Time: 12})

	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if last, ok := m.Last(); !ok || last.Seq != 3 {
		t.Errorf("Last() = %+v/%v, want seq 3", last, ok)
	}
	if got := m.ByName(Transfer); len(got) != 2 {
		t.Errorf("ByName(Transfer) = %d records, want 2", len(got))
	}

	// Records returns a copy; appending to it must not touch the journal.
	recs := m.Records()
	_ = append(recs, Record{Seq: 99})
	if m.Len() != 3 {
		t.Errorf("Len() after external append = %d, want 3", m.Len())
	}

	m.Reset()
	if m.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", m.Len())
	}
}

func TestMultiFansOut(t *testing.T) {
	var a, b Memory
	multi := Multi{&a, &b}
	multi.Emit(Record{Seq: 1, Name: Paused})

	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("fan-out lengths = %d/%d, want 1/1", a.Len(), b.Len())
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf)

	w.Emit(Record{Seq: 1, Name: Transfer, Time: 5, Attributes: map[string]any{"amount": "100"}})
	w.Emit(Record{Seq: 2, Name: Paused, Time: 6})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("output lines = %d, want 2", got)
	}

	recs, err := ParseJSONL(&buf)
	if err != nil {
		t.Fatalf("ParseJSONL: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("parsed %d records, want 2", len(recs))
	}
	if recs[0].Name != Transfer || recs[0].Attributes["amount"] != "100" {
		t.Errorf("record 0 = %+v", recs[0])
	}
	if recs[1].Seq != 2 || recs[1].Name != Paused {
		t.Errorf("record 1 = %+v", recs[1])
	}
}

func TestParseJSONLRejectsGarbage(t *testing.T) {
	if _, err := ParseJSONL(strings.NewReader("{\"seq\":1}\nnot json\n")); err == nil {
		t.Error("ParseJSONL should fail on a malformed line")
	}
}
