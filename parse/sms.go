package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/syneteks/billing-reports/records"
	"github.com/syneteks/billing-reports/tabular"
)

// SMS streams message records from the SMS usage CSV.
type SMS struct {
	file    string
	it      tabular.RowIter
	idx     map[string]int
	skipped int
}

// NewSMS opens the source's single table and validates its header.
func NewSMS(src tabular.Source) (*SMS, error) {
	it, err := src.Rows(src.Tables()[0])
	if err != nil {
		return nil, err
	}
	idx, err := readHeader(src.Name(), it)
	if err != nil {
		it.Close()
		return nil, err
	}
	if err := requireColumns(src.Name(), idx, "Time", "Source", "Destination", "msgDirection", "Cost"); err != nil {
		it.Close()
		return nil, err
	}
	return &SMS{file: src.Name(), it: it, idx: idx}, nil
}

// Next returns the next well-formed SMS record, or io.EOF.
func (p *SMS) Next() (records.SmsRecord, error) {
	for {
		row, err := p.it.Next()
		if err == io.EOF {
			return records.SmsRecord{}, io.EOF
		}
		if err != nil {
			return records.SmsRecord{}, fmt.Errorf("%s: read row: %w", p.file, err)
		}
		if len(row) == 0 {
			continue
		}

		cost, ok := cellFloat(cell(row, p.idx["cost"]))
		if !ok {
			p.skipped++
			continue
		}

		dir := records.Outbound
		if strings.EqualFold(cell(row, p.idx["msgdirection"]), "incoming") {
			dir = records.Inbound
		}

		return records.SmsRecord{
			Time:        cell(row, p.idx["time"]),
			Source:      cell(row, p.idx["source"]),
			Destination: cell(row, p.idx["destination"]),
			Direction:   dir,
			Cost:        cost,
		}, nil
	}
}

// Skipped reports how many malformed rows were dropped so far.
func (p *SMS) Skipped() int { return p.skipped }

func (p *SMS) Close() error { return p.it.Close() }
