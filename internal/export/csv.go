// Package export serializes filtered datasets for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/siber-nasional/cve-dashboard/internal/domain"
)

// Filename is the fixed download filename for the filtered dataset.
const Filename = "filtered_threat_data.csv"

// header matches the flat record shape, timestamp first.
var header = []string{
	"timestamp",
	"severity",
	"sector",
	"organization",
	"vulnerability",
	"source_asset",
	"target_asset",
	"score",
	"exploited",
	"ip_addresses",
}

// CSV serializes records to a CSV byte stream with a header row. Scores are
// written with the shortest exact representation so values round-trip.
func CSV(records []domain.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for i := range records {
		r := &records[i]
		row := []string{
			r.Timestamp.Format(time.RFC3339),
			r.Severity,
			r.Sector,
			r.Organization,
			r.Vulnerability,
			r.SourceAsset,
			r.TargetAsset,
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			strconv.FormatBool(r.Exploited),
			r.IPAddresses,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
