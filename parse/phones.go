package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/syneteks/billing-reports/records"
	"github.com/syneteks/billing-reports/tabular"
)

// Phones streams rows from the phone-inventory CSV.
type Phones struct {
	file         string
	it           tabular.RowIter
	idx          map[string]int
	skipped      int
	unrecognized int
}

// NewPhones opens the source's single table and validates its header.
func NewPhones(src tabular.Source) (*Phones, error) {
	it, err := src.Rows(src.Tables()[0])
	if err != nil {
		return nil, err
	}
	idx, err := readHeader(src.Name(), it)
	if err != nil {
		it.Close()
		return nil, err
	}
	if err := requireColumns(src.Name(), idx, "Phone Number", "Domain", "Treatment"); err != nil {
		it.Close()
		return nil, err
	}
	return &Phones{file: src.Name(), it: it, idx: idx}, nil
}

// Next returns the next phone record, or io.EOF. Rows with a treatment
// string the closed enumeration does not cover still flow through (as
// non-billable TreatmentUnrecognized) and are tallied for the run summary.
func (p *Phones) Next() (records.PhoneRecord, error) {
	for {
		row, err := p.it.Next()
		if err == io.EOF {
			return records.PhoneRecord{}, io.EOF
		}
		if err != nil {
			return records.PhoneRecord{}, fmt.Errorf("%s: read row: %w", p.file, err)
		}
		if len(row) == 0 {
			continue
		}
		number := cell(row, p.idx["phone number"])
		domain := cell(row, p.idx["domain"])
		if number == "" && domain == "" {
			continue
		}

		raw := cell(row, p.idx["treatment"])
		treatment, recognized := records.ParseTreatment(raw)
		if !recognized && raw != "" {
			p.unrecognized++
		}

		return records.PhoneRecord{
			Number:       number,
			Domain:       domain,
			Treatment:    treatment,
			RawTreatment: raw,
			Destination:  p.opt(row, "destination"),
			Notes:        p.opt(row, "notes"),
			Enabled:      parseEnabled(p.opt(row, "enable")),
		}, nil
	}
}

// opt reads a column that is allowed to be absent from the header.
func (p *Phones) opt(row tabular.Row, name string) string {
	i, ok := p.idx[name]
	if !ok {
		return ""
	}
	return cell(row, i)
}

func parseEnabled(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true", "1", "enabled", "on":
		return true
	}
	return false
}

// Skipped reports how many malformed rows were dropped so far.
func (p *Phones) Skipped() int { return p.skipped }

// Unrecognized reports how many rows carried a treatment outside the closed
// enumeration.
func (p *Phones) Unrecognized() int { return p.unrecognized }

func (p *Phones) Close() error { return p.it.Close() }
