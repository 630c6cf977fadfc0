package parse

import (
	"fmt"
	"io"

	"github.com/syneteks/billing-reports/records"
	"github.com/syneteks/billing-reports/tabular"
)

// Vitelity's CDR export columns.
var vitelityColumns = []string{
	"BillingDate", "CallStartDate", "Source", "Destination",
	"Seconds", "CallerID", "Disposition", "Cost", "Peer",
}

// Vitelity streams call records from a Vitelity CDR CSV.
type Vitelity struct {
	file    string
	it      tabular.RowIter
	idx     map[string]int
	skipped int
}

// NewVitelity opens the source's single table and validates its header.
func NewVitelity(src tabular.Source) (*Vitelity, error) {
	it, err := src.Rows(src.Tables()[0])
	if err != nil {
		return nil, err
	}
	idx, err := readHeader(src.Name(), it)
	if err != nil {
		it.Close()
		return nil, err
	}
	if err := requireColumns(src.Name(), idx, vitelityColumns...); err != nil {
		it.Close()
		return nil, err
	}
	return &Vitelity{file: src.Name(), it: it, idx: idx}, nil
}

// Next returns the next well-formed call record, or io.EOF. Rows with
// unparsable numerics are skipped and tallied; zero-duration calls are
// dropped without a tally (they are not billable events). Iterator errors
// are fatal: a broken source aborts rather than silently truncating.
func (p *Vitelity) Next() (records.CallRecord, error) {
	for {
		row, err := p.it.Next()
		if err == io.EOF {
			return records.CallRecord{}, io.EOF
		}
		if err != nil {
			return records.CallRecord{}, fmt.Errorf("%s: read row: %w", p.file, err)
		}
		if len(row) == 0 {
			continue
		}

		seconds, ok := cellFloat(cell(row, p.idx["seconds"]))
		if !ok {
			p.skipped++
			continue
		}
		cost, ok := cellFloat(cell(row, p.idx["cost"]))
		if !ok {
			p.skipped++
			continue
		}
		if seconds <= 0 {
			continue
		}

		return records.CallRecord{
			BillingDate:  cell(row, p.idx["billingdate"]),
			StartTime:    cell(row, p.idx["callstartdate"]),
			Source:       cell(row, p.idx["source"]),
			Destination:  cell(row, p.idx["destination"]),
			Seconds:      seconds,
			CallerID:     cell(row, p.idx["callerid"]),
			Disposition:  cell(row, p.idx["disposition"]),
			ProviderCost: cost,
			Peer:         cell(row, p.idx["peer"]),
		}, nil
	}
}

// Skipped reports how many malformed rows were dropped so far.
func (p *Vitelity) Skipped() int { return p.skipped }

func (p *Vitelity) Close() error { return p.it.Close() }
