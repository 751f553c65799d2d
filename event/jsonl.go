package event

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// JSONLWriter streams records as JSON Lines: one JSON object per record.
// Emit never blocks the caller on errors; check Err or Flush before relying
// on the output.
type JSONLWriter struct {
	w   *bufio.Writer
	err error
}

// NewJSONLWriter creates a writer that emits records to w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Emit writes the record as a single JSON line.
func (j *JSONLWriter) Emit(rec Record) {
	if j.err != nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		j.err = fmt.Errorf("marshal record %d: %w", rec.Seq, err)
		return
	}
	if _, err := j.w.Write(data); err != nil {
		j.err = err
		return
	}
	if err := j.w.WriteByte('\n'); err != nil {
		j.err = err
	}
}

// Flush writes buffered records to the underlying writer.
func (j *JSONLWriter) Flush() error {
	if j.err != nil {
		return j.err
	}
	return j.w.Flush()
}

// Err returns the first error encountered while emitting.
func (j *JSONLWriter) Err() error {
	return j.err
}

// ParseJSONL reads records back from a JSON Lines stream, skipping empty
// lines. Used to replay a journal written by JSONLWriter.
func ParseJSONL(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return records, nil
}
