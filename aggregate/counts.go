package aggregate

import (
	"github.com/syneteks/billing-reports/npa"
	"github.com/syneteks/billing-reports/records"
)

// PhoneCounts partitions the phone inventory into billable and non-billable
// counts per customer. Every record lands on exactly one side.
type PhoneCounts struct {
	Billable    map[string]int
	NonBillable map[string]int
	// Excluded keeps the non-billable records themselves for the
	// InvOther report.
	Excluded []records.PhoneRecord
}

// NewPhoneCounts returns an empty partition.
func NewPhoneCounts() *PhoneCounts {
	return &PhoneCounts{
		Billable:    make(map[string]int),
		NonBillable: make(map[string]int),
	}
}

// Add routes one inventory record through the treatment partition.
func (c *PhoneCounts) Add(rec records.PhoneRecord) {
	customer := rec.Customer()
	if rec.Treatment.Billable() {
		c.Billable[customer]++
		return
	}
	c.NonBillable[customer]++
	c.Excluded = append(c.Excluded, rec)
}

// Customers lists every customer seen on either side of the partition.
func (c *PhoneCounts) Customers() map[string]struct{} {
	all := make(map[string]struct{}, len(c.Billable)+len(c.NonBillable))
	for k := range c.Billable {
		all[k] = struct{}{}
	}
	for k := range c.NonBillable {
		all[k] = struct{}{}
	}
	return all
}

// CallerID tallies calls per normalized destination number.
type CallerID struct {
	Counts map[string]int
}

// NewCallerID returns an empty tally.
func NewCallerID() *CallerID {
	return &CallerID{Counts: make(map[string]int)}
}

// Add counts one call against its destination.
func (c *CallerID) Add(rec records.CallRecord) {
	dest := npa.Normalize(rec.Destination)
	if dest == "" {
		return
	}
	c.Counts[dest]++
}

// SMSStats accumulates one customer's messaging traffic.
type SMSStats struct {
	Total        int
	Inbound      int
	Outbound     int
	ProviderCost float64
	BilledCost   float64
}

// SMS accumulates message records per customer, plus an overall total.
type SMS struct {
	index      PhoneIndex
	ratePerMsg float64
	byCustomer map[string]*SMSStats
	overall    SMSStats
}

// NewSMS creates an aggregator billing at ratePerMsg dollars per message.
func NewSMS(index PhoneIndex, ratePerMsg float64) *SMS {
	return &SMS{
		index:      index,
		ratePerMsg: ratePerMsg,
		byCustomer: make(map[string]*SMSStats),
	}
}

// Add rolls one message into its customer's stats and the overall stats.
func (a *SMS) Add(rec records.SmsRecord) {
	customer := a.index.Customer(rec.Source, rec.Destination)
	s, ok := a.byCustomer[customer]
	if !ok {
		s = &SMSStats{}
		a.byCustomer[customer] = s
	}
	for _, st := range []*SMSStats{s, &a.overall} {
		st.Total++
		st.ProviderCost += rec.Cost
		st.BilledCost += a.ratePerMsg
		if rec.Direction == records.Inbound {
			st.Inbound++
		} else {
			st.Outbound++
		}
	}
}

// ByCustomer exposes the accumulated stats keyed by customer.
func (a *SMS) ByCustomer() map[string]*SMSStats { return a.byCustomer }

// Overall returns the totals across every customer.
func (a *SMS) Overall() SMSStats { return a.overall }
