// Package aggregate groups classified records by customer and computes the
// rollups the reports are built from.
package aggregate

import (
	"math"

	"github.com/syneteks/billing-reports/npa"
	"github.com/syneteks/billing-reports/records"
)

// SafeHarborInterstate is the FCC Safe Harbor benchmark: 64.9% interstate /
// 35.1% intrastate.
const SafeHarborInterstate = 0.649

// Unmapped is the bucket for calls whose endpoints resolve to no known
// customer. They are counted, not dropped.
const Unmapped = "Unmapped"

// BilledMinutes applies the billing convention: partial minutes round up.
func BilledMinutes(seconds float64) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Ceil(seconds / 60))
}

// PhoneIndex resolves a normalized phone number to its customer.
type PhoneIndex map[string]string

// BuildPhoneIndex maps every inventoried number to its customer.
func BuildPhoneIndex(phones []records.PhoneRecord) PhoneIndex {
	idx := make(PhoneIndex, len(phones))
	for _, p := range phones {
		n := npa.Normalize(p.Number)
		if n == "" || p.Domain == "" {
			continue
		}
		idx[n] = p.Customer()
	}
	return idx
}

// Customer resolves a call's customer: source number first, then
// destination, then the Unmapped bucket.
func (idx PhoneIndex) Customer(source, destination string) string {
	if c, ok := idx[npa.Normalize(source)]; ok {
		return c
	}
	if c, ok := idx[npa.Normalize(destination)]; ok {
		return c
	}
	return Unmapped
}

// CustomerStats accumulates one customer's voice traffic. Minutes are billed
// minutes (per-call ceiling), so the cost columns and the jurisdiction split
// agree with what is invoiced.
type CustomerStats struct {
	Customer string

	TotalCalls   int
	TotalMinutes int64

	InterstateCalls   int
	InterstateMinutes int64
	IntrastateCalls   int
	IntrastateMinutes int64
	TollFreeCalls     int
	TollFreeMinutes   int64
	UnknownCalls      int
	UnknownMinutes    int64

	ProviderCost float64
	BilledCost   float64

	// Phones holds the distinct inventoried numbers seen on this
	// customer's calls.
	Phones map[string]struct{}
}

// InterstateRatio is interstate over jurisdictional (interstate +
// intrastate) minutes. Toll-free and unknown minutes count on neither side.
// ok is false when there are no jurisdictional minutes at all.
func (s *CustomerStats) InterstateRatio() (ratio float64, ok bool) {
	jurisdictional := s.InterstateMinutes + s.IntrastateMinutes
	if jurisdictional == 0 {
		return 0, false
	}
	return float64(s.InterstateMinutes) / float64(jurisdictional), true
}

// Voice accumulates classified call records into per-customer stats.
type Voice struct {
	index      PhoneIndex
	ratePerMin float64
	byCustomer map[string]*CustomerStats
}

// NewVoice creates an aggregator billing at ratePerMin dollars per minute.
func NewVoice(index PhoneIndex, ratePerMin float64) *Voice {
	return &Voice{
		index:      index,
		ratePerMin: ratePerMin,
		byCustomer: make(map[string]*CustomerStats),
	}
}

// Add rolls one classified call into its customer's stats. Records carrying
// their own customer (SkySwitch) keep it; everything else resolves through
// the phone index.
func (v *Voice) Add(rec records.CallRecord) {
	customer := rec.Customer
	if customer == "" || customer == "Unknown" {
		customer = v.index.Customer(rec.Source, rec.Destination)
	}

	s, ok := v.byCustomer[customer]
	if !ok {
		s = &CustomerStats{Customer: customer, Phones: make(map[string]struct{})}
		v.byCustomer[customer] = s
	}

	minutes := BilledMinutes(rec.Seconds)
	s.TotalCalls++
	s.TotalMinutes += minutes
	s.ProviderCost += rec.ProviderCost
	s.BilledCost += float64(minutes) * v.ratePerMin

	switch rec.Classification {
	case npa.Interstate:
		s.InterstateCalls++
		s.InterstateMinutes += minutes
	case npa.Intrastate:
		s.IntrastateCalls++
		s.IntrastateMinutes += minutes
	case npa.TollFree:
		s.TollFreeCalls++
		s.TollFreeMinutes += minutes
	default:
		s.UnknownCalls++
		s.UnknownMinutes += minutes
	}

	for _, number := range []string{rec.Source, rec.Destination} {
		n := npa.Normalize(number)
		if _, known := v.index[n]; known {
			s.Phones[n] = struct{}{}
		}
	}
}

// ByCustomer exposes the accumulated stats keyed by customer.
func (v *Voice) ByCustomer() map[string]*CustomerStats { return v.byCustomer }

// Totals sums every customer's stats into one row.
func (v *Voice) Totals() CustomerStats {
	var t CustomerStats
	for _, s := range v.byCustomer {
		t.TotalCalls += s.TotalCalls
		t.TotalMinutes += s.TotalMinutes
		t.InterstateCalls += s.InterstateCalls
		t.InterstateMinutes += s.InterstateMinutes
		t.IntrastateCalls += s.IntrastateCalls
		t.IntrastateMinutes += s.IntrastateMinutes
		t.TollFreeCalls += s.TollFreeCalls
		t.TollFreeMinutes += s.TollFreeMinutes
		t.UnknownCalls += s.UnknownCalls
		t.UnknownMinutes += s.UnknownMinutes
		t.ProviderCost += s.ProviderCost
		t.BilledCost += s.BilledCost
	}
	return t
}
