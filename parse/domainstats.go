package parse

import (
	"fmt"
	"io"

	"github.com/syneteks/billing-reports/records"
	"github.com/syneteks/billing-reports/tabular"
)

// DomainStats streams rows from the domain-statistics workbook's first
// sheet. Feature columns beyond Domain and PBX Users are optional; absent
// ones read as zero.
type DomainStats struct {
	file    string
	it      tabular.RowIter
	idx     map[string]int
	skipped int
}

// NewDomainStats opens the source's first table and validates its header.
func NewDomainStats(src tabular.Source) (*DomainStats, error) {
	tables := src.Tables()
	if len(tables) == 0 {
		return nil, &tabular.SourceNotFoundError{Source: src.Name(), Table: "Sheet1"}
	}
	it, err := src.Rows(tables[0])
	if err != nil {
		return nil, err
	}
	idx, err := readHeader(src.Name(), it)
	if err != nil {
		it.Close()
		return nil, err
	}
	if err := requireColumns(src.Name(), idx, "Domain", "PBX Users"); err != nil {
		it.Close()
		return nil, err
	}
	return &DomainStats{file: src.Name(), it: it, idx: idx}, nil
}

// Next returns the next domain's stats, or io.EOF. The synthetic "Total"
// row the export appends is dropped.
func (p *DomainStats) Next() (records.DomainStat, error) {
	for {
		row, err := p.it.Next()
		if err == io.EOF {
			return records.DomainStat{}, io.EOF
		}
		if err != nil {
			return records.DomainStat{}, fmt.Errorf("%s: read row: %w", p.file, err)
		}
		domain := cell(row, p.idx["domain"])
		if domain == "" || domain == "Total" {
			continue
		}

		stat := records.DomainStat{Domain: domain}
		ok := true
		for _, f := range []struct {
			col  string
			dest *int
		}{
			{"pbx users", &stat.PBXUsers},
			{"call center", &stat.CallCenter},
			{"call recording", &stat.CallRecording},
			{"sip trunks", &stat.SIPTrunks},
			{"meeting rooms", &stat.MeetingRooms},
			{"vm transcription", &stat.VMTranscription},
			{"phone numbers", &stat.PhoneNumbers},
			{"teams connectors", &stat.TeamsConnectors},
			{"video connectors", &stat.VideoConnectors},
		} {
			i, present := p.idx[f.col]
			if !present {
				continue
			}
			n, valid := cellInt(cell(row, i))
			if !valid {
				ok = false
				break
			}
			*f.dest = n
		}
		if !ok {
			p.skipped++
			continue
		}
		return stat, nil
	}
}

// Skipped reports how many malformed rows were dropped so far.
func (p *DomainStats) Skipped() int { return p.skipped }

func (p *DomainStats) Close() error { return p.it.Close() }
