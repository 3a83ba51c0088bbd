// Package event decodes the JSON Lines records emitted by worker
// processes into attempt records the aggregator can count.
package event

import (
	"encoding/json"
	"strings"
	"time"
)

// timeLayout is the producer's timestamp format: second resolution,
// naive UTC, no timezone suffix.
const timeLayout = "2006-01-02T15:04:05"

// unknown is substituted for missing or null category fields.
const unknown = "unknown"

// Record is one decoded attempt. InstanceID and BatchRegion are always
// non-empty ("unknown" when the producer omitted them). The remaining
// fields are part of the producer's contract but are not aggregated;
// they are decoded so callers can surface them if they care.
type Record struct {
	TS               string `json:"ts"`
	InstanceID       string `json:"instance_id"`
	Success          bool   `json:"success"`
	BatchRegion      string `json:"batch_region"`
	Attempt          int    `json:"attempt"`
	Reason           string `json:"reason"`
	ElapsedMS        int    `json:"elapsed_ms"`
	Proxy            bool   `json:"proxy"`
	RotatedOnFailure bool   `json:"rotated_on_failure"`
	URL              string `json:"url"`
}

// Decode parses one line as a record. The second return value is false
// for malformed input; decoding never fails loudly. Only JSON objects
// are accepted: scalars like `null` or `42` unmarshal into the struct
// without error but carry no record shape.
func Decode(line string) (Record, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] != '{' {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return Record{}, false
	}
	if rec.InstanceID == "" {
		rec.InstanceID = unknown
	}
	if rec.BatchRegion == "" {
		rec.BatchRegion = unknown
	}
	return rec, true
}

// Time resolves the record's timestamp, falling back to now when the
// producer wrote something unparsable.
func (r Record) Time(now time.Time) time.Time {
	if t, err := time.Parse(timeLayout, r.TS); err == nil {
		return t.UTC()
	}
	return now
}
