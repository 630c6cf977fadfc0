// Package report serializes aggregation results to the fixed CSV report
// set. Every report writes its header even with zero data rows, and rows are
// sorted lexicographically so reruns over identical inputs are
// byte-identical.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/syneteks/billing-reports/aggregate"
	"github.com/syneteks/billing-reports/records"
)

// File names of the report set.
const (
	FileCDRByCustomer    = "cdr_by_customer.csv"
	FileCombinedCDR      = "combined_cdr_by_customer.csv"
	FilePhoneCounts      = "phone_counts_by_customer.csv"
	FilePhoneExcluded    = "phone_excluded_invother.csv"
	FileCallerIDCounts   = "callerid_counts.csv"
	FileSeatCounts       = "seat_counts_by_customer.csv"
	FileSMSByCustomer    = "sms_by_customer.csv"
	FileAdamsUserSummary = "adams_county_user_summary.csv"
)

// Writer emits the report CSVs into one output directory, given explicitly
// at construction.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("report: create output dir %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("report: write %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("report: flush %s: %w", path, err)
	}
	return f.Close()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// money formats a currency value with 2 decimal places.
func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// count formats an integer column.
func count[N int | int64](n N) string { return strconv.FormatInt(int64(n), 10) }

// percent formats a ratio as a percentage, or N/A when there is none.
func percent(ratio float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return strconv.FormatFloat(ratio*100, 'f', 2, 64) + "%"
}

func statsRow(s *aggregate.CustomerStats, withProvider, withPhones bool) []string {
	ratio, ok := s.InterstateRatio()
	intraRatio := 0.0
	if ok {
		intraRatio = 1 - ratio
	}
	row := []string{
		s.Customer,
		count(s.TotalCalls),
		count(s.TotalMinutes),
		count(s.InterstateCalls),
		count(s.InterstateMinutes),
		count(s.IntrastateCalls),
		count(s.IntrastateMinutes),
		count(s.TollFreeMinutes),
		count(s.UnknownMinutes),
		percent(ratio, ok),
		percent(intraRatio, ok),
	}
	if withProvider {
		row = append(row, money(s.ProviderCost))
	}
	row = append(row, money(s.BilledCost))
	if withPhones {
		row = append(row, count(len(s.Phones)))
	}
	return row
}

var cdrHeader = []string{
	"Customer", "Total Calls", "Total Minutes",
	"Interstate Calls", "Interstate Minutes",
	"Intrastate Calls", "Intrastate Minutes",
	"Toll-Free Minutes", "Unknown Minutes",
	"Interstate %", "Intrastate %",
}

// CDRByCustomer writes the Vitelity per-customer cost breakdown.
func (w *Writer) CDRByCustomer(stats map[string]*aggregate.CustomerStats) error {
	header := append(append([]string{}, cdrHeader...), "Provider Cost", "Billed Cost", "Phone Numbers")
	rows := make([][]string, 0, len(stats))
	for _, customer := range sortedKeys(stats) {
		rows = append(rows, statsRow(stats[customer], true, true))
	}
	return w.writeCSV(FileCDRByCustomer, header, rows)
}

// CombinedCDR writes the SkySwitch + Vitelity union. Provider cost is left
// out: SkySwitch rows have none, so the column would mislead.
func (w *Writer) CombinedCDR(stats map[string]*aggregate.CustomerStats) error {
	header := append(append([]string{}, cdrHeader...), "Billed Cost")
	rows := make([][]string, 0, len(stats))
	for _, customer := range sortedKeys(stats) {
		rows = append(rows, statsRow(stats[customer], false, false))
	}
	return w.writeCSV(FileCombinedCDR, header, rows)
}

// PhoneCounts writes both sides of the billable partition per customer.
func (w *Writer) PhoneCounts(counts *aggregate.PhoneCounts) error {
	header := []string{"Customer", "Billable Phones", "Non-Billable Phones"}
	customers := counts.Customers()
	rows := make([][]string, 0, len(customers))
	for _, customer := range sortedKeys(customers) {
		rows = append(rows, []string{
			customer,
			count(counts.Billable[customer]),
			count(counts.NonBillable[customer]),
		})
	}
	return w.writeCSV(FilePhoneCounts, header, rows)
}

// PhoneExcluded writes the non-billable inventory rows (the InvOther set).
func (w *Writer) PhoneExcluded(excluded []records.PhoneRecord) error {
	header := []string{"Phone Number", "Domain", "Treatment", "Destination", "Notes", "Enable"}
	sorted := append([]records.PhoneRecord{}, excluded...)
	slices.SortFunc(sorted, func(a, b records.PhoneRecord) int {
		if a.Domain != b.Domain {
			if a.Domain < b.Domain {
				return -1
			}
			return 1
		}
		if a.Number < b.Number {
			return -1
		}
		if a.Number > b.Number {
			return 1
		}
		return 0
	})
	rows := make([][]string, 0, len(sorted))
	for _, rec := range sorted {
		enable := "no"
		if rec.Enabled {
			enable = "yes"
		}
		rows = append(rows, []string{
			rec.Number, rec.Domain, rec.RawTreatment, rec.Destination, rec.Notes, enable,
		})
	}
	return w.writeCSV(FilePhoneExcluded, header, rows)
}

// CallerIDCounts writes the per-destination call tally.
func (w *Writer) CallerIDCounts(tally *aggregate.CallerID) error {
	header := []string{"Phone Number", "Call Count"}
	rows := make([][]string, 0, len(tally.Counts))
	for _, number := range sortedKeys(tally.Counts) {
		rows = append(rows, []string{number, count(tally.Counts[number])})
	}
	return w.writeCSV(FileCallerIDCounts, header, rows)
}

// SeatCounts writes the per-customer PBX feature counts.
func (w *Writer) SeatCounts(stats []records.DomainStat) error {
	header := []string{
		"Customer", "PBX Users (Seats)", "Call Center", "Call Recording",
		"SIP Trunks", "Meeting Rooms", "VM Transcription", "Phone Numbers",
		"Teams Connectors", "Video Connectors",
	}
	byCustomer := make(map[string]records.DomainStat, len(stats))
	for _, s := range stats {
		byCustomer[s.Customer()] = s
	}
	rows := make([][]string, 0, len(byCustomer))
	for _, customer := range sortedKeys(byCustomer) {
		s := byCustomer[customer]
		rows = append(rows, []string{
			customer,
			count(s.PBXUsers), count(s.CallCenter), count(s.CallRecording),
			count(s.SIPTrunks), count(s.MeetingRooms), count(s.VMTranscription),
			count(s.PhoneNumbers), count(s.TeamsConnectors), count(s.VideoConnectors),
		})
	}
	return w.writeCSV(FileSeatCounts, header, rows)
}

// SMSByCustomer writes the per-customer message usage.
func (w *Writer) SMSByCustomer(stats map[string]*aggregate.SMSStats) error {
	header := []string{"Customer", "Total Messages", "Inbound", "Outbound", "Provider Cost", "Billed Cost"}
	rows := make([][]string, 0, len(stats))
	for _, customer := range sortedKeys(stats) {
		s := stats[customer]
		rows = append(rows, []string{
			customer,
			count(s.Total), count(s.Inbound), count(s.Outbound),
			money(s.ProviderCost), money(s.BilledCost),
		})
	}
	return w.writeCSV(FileSMSByCustomer, header, rows)
}

// AdamsUserSummary writes the Department x UserType pivot with grand totals
// and the two derived line counts.
func (w *Writer) AdamsUserSummary(pivot *aggregate.UserPivot) error {
	header := append([]string{"Department"}, aggregate.UserTypes...)
	header = append(header, "Grand Total")

	rows := make([][]string, 0, len(pivot.Depts)+4)
	for _, dept := range sortedKeys(pivot.Depts) {
		row := []string{dept}
		total := 0
		for _, ut := range aggregate.UserTypes {
			n := pivot.Depts[dept][ut]
			total += n
			if n == 0 {
				row = append(row, "")
			} else {
				row = append(row, count(n))
			}
		}
		rows = append(rows, append(row, count(total)))
	}

	totals := pivot.Totals()
	totalRow := []string{"Grand Total"}
	overall := 0
	for _, ut := range aggregate.UserTypes {
		totalRow = append(totalRow, count(totals[ut]))
		overall += totals[ut]
	}
	rows = append(rows, append(totalRow, count(overall)))

	blank := make([]string, len(header))
	rows = append(rows,
		blank,
		[]string{"Lines Calculation", "", "", "", "", "", count(pivot.Lines())},
		[]string{"High Value for Month Users", "", "", "", "", "", count(pivot.ActiveUsers())},
	)
	return w.writeCSV(FileAdamsUserSummary, header, rows)
}
