// Package pipeline drives one full report run: parse, classify, aggregate,
// write, in a single sequential pass per input file.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/syneteks/billing-reports/aggregate"
	"github.com/syneteks/billing-reports/config"
	"github.com/syneteks/billing-reports/logging"
	"github.com/syneteks/billing-reports/npa"
	"github.com/syneteks/billing-reports/parse"
	"github.com/syneteks/billing-reports/records"
	"github.com/syneteks/billing-reports/report"
	"github.com/syneteks/billing-reports/tabular"
)

// Inputs are the file paths for one run. Optional paths may be empty; the
// dependent reports are then omitted.
type Inputs struct {
	VitelityCDR    string // required
	PhoneInventory string // required
	OutputDir      string // optional, falls back to config
	SMSFile        string // optional
	DomainStats    string // optional
	MasterWorkbook string // optional
}

// MissingRequiredInputError reports an absent mandatory input. The run
// aborts before any processing.
type MissingRequiredInputError struct {
	Role string
	Path string
}

func (e *MissingRequiredInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("required input %s not provided", e.Role)
	}
	return fmt.Sprintf("required input %s not found: %s", e.Role, e.Path)
}

// SkippedReport names a report that was not produced, and why.
type SkippedReport struct {
	Name   string
	Reason string
}

// Summary is what one run did.
type Summary struct {
	RunID     string
	OutputDir string

	Written []string
	Skipped []SkippedReport

	// RowSkips tallies malformed rows dropped per input file.
	RowSkips map[string]int
	// UnrecognizedTreatments counts inventory rows whose treatment fell
	// outside the closed enumeration.
	UnrecognizedTreatments int

	TotalCalls   int
	TotalMinutes int64

	InterstateRatio float64
	HasRatio        bool
}

func requireFile(role, path string) error {
	if path == "" {
		return &MissingRequiredInputError{Role: role}
	}
	if _, err := os.Stat(path); err != nil {
		return &MissingRequiredInputError{Role: role, Path: path}
	}
	return nil
}

// Run executes one full batch over the given inputs.
func Run(cfg *config.Config, in Inputs, log *logging.Logger) (*Summary, error) {
	sum := &Summary{
		RunID:    uuid.NewString(),
		RowSkips: make(map[string]int),
	}
	log.Info("run %s starting", sum.RunID)

	if err := requireFile("Vitelity CDR", in.VitelityCDR); err != nil {
		return nil, err
	}
	if err := requireFile("phone inventory", in.PhoneInventory); err != nil {
		return nil, err
	}

	outDir := in.OutputDir
	if outDir == "" {
		outDir = cfg.DefaultOutputDir
	}
	writer, err := report.NewWriter(outDir)
	if err != nil {
		return nil, err
	}
	sum.OutputDir = writer.Dir()

	table, err := loadTable(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Debug("area-code table: %d entries", table.Len())

	phones, index, err := loadPhones(in.PhoneInventory, sum, log)
	if err != nil {
		return nil, err
	}

	counts := aggregate.NewPhoneCounts()
	for _, rec := range phones {
		counts.Add(rec)
	}
	if err := writer.PhoneCounts(counts); err != nil {
		return nil, err
	}
	sum.Written = append(sum.Written, report.FilePhoneCounts)
	if err := writer.PhoneExcluded(counts.Excluded); err != nil {
		return nil, err
	}
	sum.Written = append(sum.Written, report.FilePhoneExcluded)

	// The combined aggregator sees both CDR sources; Vitelity feeds it in
	// the same pass that builds its own report.
	voice := aggregate.NewVoice(index, cfg.VoiceRatePerMinute)
	combined := aggregate.NewVoice(index, cfg.VoiceRatePerMinute)
	callerID := aggregate.NewCallerID()

	if err := consumeVitelity(in.VitelityCDR, table, voice, combined, callerID, sum, log); err != nil {
		return nil, err
	}
	if err := writer.CDRByCustomer(voice.ByCustomer()); err != nil {
		return nil, err
	}
	sum.Written = append(sum.Written, report.FileCDRByCustomer)
	if err := writer.CallerIDCounts(callerID); err != nil {
		return nil, err
	}
	sum.Written = append(sum.Written, report.FileCallerIDCounts)

	if err := runSMS(in.SMSFile, index, cfg, writer, sum, log); err != nil {
		return nil, err
	}
	if err := runDomainStats(in.DomainStats, writer, sum, log); err != nil {
		return nil, err
	}
	if err := runMaster(in.MasterWorkbook, table, combined, writer, sum, log); err != nil {
		return nil, err
	}

	totals := voice.Totals()
	if combinedWritten(sum) {
		totals = combined.Totals()
	}
	sum.TotalCalls = totals.TotalCalls
	sum.TotalMinutes = totals.TotalMinutes
	sum.InterstateRatio, sum.HasRatio = totals.InterstateRatio()

	log.Info("run %s complete: %d reports written, %d skipped", sum.RunID, len(sum.Written), len(sum.Skipped))
	return sum, nil
}

func combinedWritten(sum *Summary) bool {
	for _, name := range sum.Written {
		if name == report.FileCombinedCDR {
			return true
		}
	}
	return false
}

func loadTable(cfg *config.Config, log *logging.Logger) (*npa.Table, error) {
	if cfg.NPASQLitePath != "" {
		log.Info("loading area-code table from %s", cfg.NPASQLitePath)
		return npa.LoadSQLite(cfg.NPASQLitePath)
	}
	return npa.LoadEmbedded()
}

func loadPhones(path string, sum *Summary, log *logging.Logger) ([]records.PhoneRecord, aggregate.PhoneIndex, error) {
	src, err := tabular.OpenCSV(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := parse.NewPhones(src)
	if err != nil {
		return nil, nil, err
	}
	defer p.Close()

	var phones []records.PhoneRecord
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		phones = append(phones, rec)
	}
	sum.RowSkips[path] += p.Skipped()
	sum.UnrecognizedTreatments = p.Unrecognized()
	if p.Unrecognized() > 0 {
		log.Warn("%s: %d rows with unrecognized treatment, counted as non-billable", path, p.Unrecognized())
	}

	index := aggregate.BuildPhoneIndex(phones)
	log.Info("loaded %d phone records, %d mapped numbers", len(phones), len(index))
	return phones, index, nil
}

func consumeVitelity(path string, table *npa.Table, voice, combined *aggregate.Voice, callerID *aggregate.CallerID, sum *Summary, log *logging.Logger) error {
	src, err := tabular.OpenCSV(path)
	if err != nil {
		return err
	}
	p, err := parse.NewVitelity(src)
	if err != nil {
		return err
	}
	defer p.Close()

	n := 0
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		rec.Classification = table.Classify(rec.Source, rec.Destination)
		voice.Add(rec)
		combined.Add(rec)
		callerID.Add(rec)
		n++
	}
	sum.RowSkips[path] += p.Skipped()
	log.Info("processed %d Vitelity calls (%d rows skipped)", n, p.Skipped())
	return nil
}

func runSMS(path string, index aggregate.PhoneIndex, cfg *config.Config, writer *report.Writer, sum *Summary, log *logging.Logger) error {
	if path == "" {
		sum.Skipped = append(sum.Skipped, SkippedReport{report.FileSMSByCustomer, "no SMS file provided"})
		return nil
	}
	src, err := tabular.OpenCSV(path)
	if err != nil {
		log.Warn("SMS file unreadable, skipping report: %v", err)
		sum.Skipped = append(sum.Skipped, SkippedReport{report.FileSMSByCustomer, err.Error()})
		return nil
	}
	p, err := parse.NewSMS(src)
	if err != nil {
		log.Warn("SMS file rejected, skipping report: %v", err)
		sum.Skipped = append(sum.Skipped, SkippedReport{report.FileSMSByCustomer, err.Error()})
		return nil
	}
	defer p.Close()

	agg := aggregate.NewSMS(index, cfg.SMSRatePerMessage)
	n := 0
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		agg.Add(rec)
		n++
	}
	sum.RowSkips[path] += p.Skipped()
	log.Info("processed %d SMS messages (%d rows skipped)", n, p.Skipped())

	if err := writer.SMSByCustomer(agg.ByCustomer()); err != nil {
		return err
	}
	sum.Written = append(sum.Written, report.FileSMSByCustomer)
	return nil
}

func runDomainStats(path string, writer *report.Writer, sum *Summary, log *logging.Logger) error {
	if path == "" {
		sum.Skipped = append(sum.Skipped, SkippedReport{report.FileSeatCounts, "no domain statistics file provided"})
		return nil
	}
	src, err := tabular.OpenWorkbook(path)
	if err != nil {
		log.Warn("domain statistics unreadable, skipping report: %v", err)
		sum.Skipped = append(sum.Skipped, SkippedReport{report.FileSeatCounts, err.Error()})
		return nil
	}
	defer src.Close()

	p, err := parse.NewDomainStats(src)
	if err != nil {
		log.Warn("domain statistics rejected, skipping report: %v", err)
		sum.Skipped = append(sum.Skipped, SkippedReport{report.FileSeatCounts, err.Error()})
		return nil
	}
	defer p.Close()

	var stats []records.DomainStat
	for {
		stat, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		stats = append(stats, stat)
	}
	sum.RowSkips[path] += p.Skipped()
	log.Info("loaded statistics for %d domains", len(stats))

	if err := writer.SeatCounts(stats); err != nil {
		return err
	}
	sum.Written = append(sum.Written, report.FileSeatCounts)
	return nil
}

func runMaster(path string, table *npa.Table, combined *aggregate.Voice, writer *report.Writer, sum *Summary, log *logging.Logger) error {
	if path == "" {
		sum.Skipped = append(sum.Skipped,
			SkippedReport{report.FileCombinedCDR, "no master workbook provided"},
			SkippedReport{report.FileAdamsUserSummary, "no master workbook provided"},
		)
		return nil
	}
	src, err := tabular.OpenWorkbook(path)
	if err != nil {
		log.Warn("master workbook unreadable, skipping dependent reports: %v", err)
		sum.Skipped = append(sum.Skipped,
			SkippedReport{report.FileCombinedCDR, err.Error()},
			SkippedReport{report.FileAdamsUserSummary, err.Error()},
		)
		return nil
	}
	defer src.Close()

	if err := runSkySwitch(src, table, combined, writer, sum, log); err != nil {
		return err
	}
	return runUserExport(src, writer, sum, log)
}

func runSkySwitch(src tabular.Source, table *npa.Table, combined *aggregate.Voice, writer *report.Writer, sum *Summary, log *logging.Logger) error {
	p, err := parse.NewSkySwitch(src)
	if err != nil {
		log.Warn("master workbook CDR tab unusable, skipping combined report: %v", err)
		sum.Skipped = append(sum.Skipped, SkippedReport{report.FileCombinedCDR, err.Error()})
		return nil
	}
	defer p.Close()

	n := 0
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		rec.Classification = table.Classify(rec.Source, rec.Destination)
		combined.Add(rec)
		n++
	}
	sum.RowSkips[src.Name()] += p.Skipped()
	log.Info("processed %d SkySwitch calls (%d rows skipped)", n, p.Skipped())

	if err := writer.CombinedCDR(combined.ByCustomer()); err != nil {
		return err
	}
	sum.Written = append(sum.Written, report.FileCombinedCDR)
	return nil
}

func runUserExport(src tabular.Source, writer *report.Writer, sum *Summary, log *logging.Logger) error {
	p, err := parse.NewUserExport(src)
	if err != nil {
		log.Warn("master workbook has no user-export tab, skipping department summary: %v", err)
		sum.Skipped = append(sum.Skipped, SkippedReport{report.FileAdamsUserSummary, err.Error()})
		return nil
	}
	defer p.Close()

	pivot := aggregate.NewUserPivot()
	for {
		row, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		pivot.Add(row)
	}
	sum.RowSkips[src.Name()] += p.Skipped()

	if err := writer.AdamsUserSummary(pivot); err != nil {
		return err
	}
	sum.Written = append(sum.Written, report.FileAdamsUserSummary)
	return nil
}
