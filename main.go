package main

import (
	"fmt"
	"os"

	"github.com/syneteks/billing-reports/aggregate"
	"github.com/syneteks/billing-reports/config"
	"github.com/syneteks/billing-reports/logging"
	"github.com/syneteks/billing-reports/pipeline"
)

const usage = `usage: billing-reports <vitelity_cdr.csv> <phonenumbers.csv> [output_dir] [sms.csv] [domain_stats.xlsx] [master.xlsx]

Generates the monthly billing report set from carrier CDR exports and the
phone-number inventory. The first two inputs are required; pass "" to skip
an optional positional argument while supplying a later one.`

func main() {
	log := logging.New()

	args := os.Args[1:]
	if len(args) < 2 || len(args) > 6 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	in := pipeline.Inputs{
		VitelityCDR:    arg(0),
		PhoneInventory: arg(1),
		OutputDir:      arg(2),
		SMSFile:        arg(3),
		DomainStats:    arg(4),
		MasterWorkbook: arg(5),
	}

	cfg := config.Load()
	sum, err := pipeline.Run(cfg, in, log)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("wrote %d reports to %s", len(sum.Written), sum.OutputDir)
	for _, s := range sum.Skipped {
		log.Warn("skipped %s: %s", s.Name, s.Reason)
	}
	for file, n := range sum.RowSkips {
		if n > 0 {
			log.Warn("%s: %d malformed rows dropped", file, n)
		}
	}
	if sum.UnrecognizedTreatments > 0 {
		log.Warn("%d inventory rows had unrecognized treatments", sum.UnrecognizedTreatments)
	}

	log.Info("%d calls, %d billed minutes", sum.TotalCalls, sum.TotalMinutes)
	if sum.HasRatio {
		delta := (sum.InterstateRatio - aggregate.SafeHarborInterstate) * 100
		log.Info("interstate ratio %.2f%% (%+.2f points vs the %.1f%% safe harbor)",
			sum.InterstateRatio*100, delta, aggregate.SafeHarborInterstate*100)
	} else {
		log.Info("interstate ratio N/A: no jurisdictional minutes")
	}
}
