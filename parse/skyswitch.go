package parse

import (
	"fmt"
	"io"
	"regexp"

	"github.com/syneteks/billing-reports/records"
	"github.com/syneteks/billing-reports/tabular"
)

// The SkySwitch CDR lives in a master workbook tab named CDR<sheet-index>.
var cdrTabRE = regexp.MustCompile(`^CDR\d+$`)

// FindCDRTab locates the SkySwitch CDR tab in a source.
func FindCDRTab(src tabular.Source) (string, error) {
	for _, name := range src.Tables() {
		if cdrTabRE.MatchString(name) {
			return name, nil
		}
	}
	return "", &tabular.SourceNotFoundError{Source: src.Name(), Table: "CDR<index>"}
}

// SkySwitch streams call records from the master workbook's CDR tab. The tab
// carries the domain on each row, so records arrive with Customer set.
type SkySwitch struct {
	file    string
	it      tabular.RowIter
	idx     map[string]int
	destCol string
	skipped int
}

// NewSkySwitch finds the CDR tab and validates its header. The destination
// is taken from the "To" column, falling back to "Dialed" when "To" is
// absent or a particular cell is blank.
func NewSkySwitch(src tabular.Source) (*SkySwitch, error) {
	tab, err := FindCDRTab(src)
	if err != nil {
		return nil, err
	}
	it, err := src.Rows(tab)
	if err != nil {
		return nil, err
	}
	idx, err := readHeader(src.Name(), it)
	if err != nil {
		it.Close()
		return nil, err
	}
	if err := requireColumns(src.Name(), idx, "From", "Duration", "Domain"); err != nil {
		it.Close()
		return nil, err
	}
	destCol := "to"
	if _, ok := idx["to"]; !ok {
		if _, ok := idx["dialed"]; !ok {
			it.Close()
			return nil, &MalformedInputError{File: src.Name(), Column: "To"}
		}
		destCol = "dialed"
	}
	return &SkySwitch{file: src.Name(), it: it, idx: idx, destCol: destCol}, nil
}

// Next returns the next well-formed call record, or io.EOF.
func (p *SkySwitch) Next() (records.CallRecord, error) {
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

		seconds, ok := cellFloat(cell(row, p.idx["duration"]))
		if !ok {
			p.skipped++
			continue
		}
		if seconds <= 0 {
			continue
		}

		dest := cell(row, p.idx[p.destCol])
		if dest == "" {
			if i, ok := p.idx["dialed"]; ok {
				dest = cell(row, i)
			}
		}

		return records.CallRecord{
			Source:      cell(row, p.idx["from"]),
			Destination: dest,
			Seconds:     seconds,
			Customer:    records.CustomerName(cell(row, p.idx["domain"])),
		}, nil
	}
}

// Skipped reports how many malformed rows were dropped so far.
func (p *SkySwitch) Skipped() int { return p.skipped }

func (p *SkySwitch) Close() error { return p.it.Close() }
