// Package sink appends output records to CSV destinations. The header row is
// written once, when the destination is new or empty; existing bytes are
// never rewritten.
package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/a3tai/lease-form-extractor/internal/lease"
)

// Sink appends one record to a CSV destination.
type Sink interface {
	Append(ctx context.Context, record *lease.OutputRecord) error
	Location() string
}

// encode renders record as one CSV row, preceded by the header row when
// withHeader is set.
func encode(record *lease.OutputRecord, withHeader bool) ([]byte, error) {
	var buf bytes.Buffer
	rows := []*lease.OutputRecord{record}

	var err error
	if withHeader {
		err = gocsv.Marshal(rows, &buf)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}
