package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syneteks/billing-reports/npa"
	"github.com/syneteks/billing-reports/parse"
	"github.com/syneteks/billing-reports/records"
)

const rate = 0.005

func testIndex() PhoneIndex {
	return BuildPhoneIndex([]records.PhoneRecord{
		{Number: "2125551234", Domain: "acme.20001.service", Treatment: records.TreatmentUser},
		{Number: "13105551234", Domain: "beta.20002.service", Treatment: records.TreatmentUser},
	})
}

func TestBilledMinutes(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int64
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{60, 1},
		{61, 2}, // partial minutes round up
		{120, 2},
		{121, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BilledMinutes(tt.seconds), "BilledMinutes(%v)", tt.seconds)
	}
}

func TestPhoneIndexResolution(t *testing.T) {
	idx := testIndex()
	assert.Equal(t, "acme", idx.Customer("2125551234", "9995550000"))
	assert.Equal(t, "beta", idx.Customer("9995550000", "3105551234"))
	assert.Equal(t, "acme", idx.Customer("2125551234", "3105551234"), "source wins over destination")
	assert.Equal(t, Unmapped, idx.Customer("9995550000", "9995550001"))
}

func TestVoiceCostCeiling(t *testing.T) {
	v := NewVoice(testIndex(), rate)
	v.Add(records.CallRecord{
		Source: "2125551234", Destination: "2135551234",
		Seconds: 61, ProviderCost: 0.10, Classification: npa.Interstate,
	})

	s := v.ByCustomer()["acme"]
	require.NotNil(t, s)
	assert.Equal(t, int64(2), s.TotalMinutes)
	assert.Equal(t, int64(2), s.InterstateMinutes)
	assert.InDelta(t, 0.01, s.BilledCost, 1e-9) // 2 min * $0.005
	assert.InDelta(t, 0.10, s.ProviderCost, 1e-9)
}

func TestVoiceClassBuckets(t *testing.T) {
	v := NewVoice(testIndex(), rate)
	add := func(class npa.Class, seconds float64) {
		v.Add(records.CallRecord{
			Source: "2125551234", Destination: "2135551234",
			Seconds: seconds, Classification: class,
		})
	}
	add(npa.Interstate, 60)
	add(npa.Intrastate, 120)
	add(npa.TollFree, 60)
	add(npa.Unknown, 60)

	s := v.ByCustomer()["acme"]
	require.NotNil(t, s)
	assert.Equal(t, 4, s.TotalCalls)
	assert.Equal(t, int64(1), s.InterstateMinutes)
	assert.Equal(t, int64(2), s.IntrastateMinutes)
	assert.Equal(t, int64(1), s.TollFreeMinutes)
	assert.Equal(t, int64(1), s.UnknownMinutes)

	ratio, ok := s.InterstateRatio()
	require.True(t, ok)
	assert.InDelta(t, 1.0/3.0, ratio, 1e-9, "toll-free and unknown excluded")
}

func TestInterstateRatioNA(t *testing.T) {
	v := NewVoice(testIndex(), rate)
	v.Add(records.CallRecord{
		Source: "2125551234", Destination: "8005551234",
		Seconds: 600, Classification: npa.TollFree,
	})

	s := v.ByCustomer()["acme"]
	require.NotNil(t, s)
	_, ok := s.InterstateRatio()
	assert.False(t, ok, "toll-free-only traffic has no ratio")
}

func TestVoiceUnmappedBucket(t *testing.T) {
	v := NewVoice(testIndex(), rate)
	v.Add(records.CallRecord{
		Source: "7185550000", Destination: "7185550001",
		Seconds: 60, Classification: npa.Intrastate,
	})
	s := v.ByCustomer()[Unmapped]
	require.NotNil(t, s)
	assert.Equal(t, 1, s.TotalCalls)
}

func TestVoiceRecordCustomerWins(t *testing.T) {
	v := NewVoice(testIndex(), rate)
	v.Add(records.CallRecord{
		Source: "2125551234", Destination: "3105551234",
		Seconds: 60, Classification: npa.Interstate,
		Customer: "gamma",
	})
	assert.Contains(t, v.ByCustomer(), "gamma")
	assert.NotContains(t, v.ByCustomer(), "acme")
}

// Two sources feeding one aggregator sum per customer, no overwrite.
func TestCombinedSourcesSum(t *testing.T) {
	v := NewVoice(testIndex(), rate)
	v.Add(records.CallRecord{ // Vitelity-shaped: resolved via index
		Source: "2125551234", Destination: "2135551234",
		Seconds: 60, Classification: npa.Interstate,
	})
	v.Add(records.CallRecord{ // SkySwitch-shaped: carries its customer
		Source: "2125559999", Destination: "2135559999",
		Seconds: 120, Classification: npa.Interstate,
		Customer: "acme",
	})

	s := v.ByCustomer()["acme"]
	require.NotNil(t, s)
	assert.Equal(t, 2, s.TotalCalls)
	assert.Equal(t, int64(3), s.TotalMinutes)
}

func TestVoiceTotals(t *testing.T) {
	v := NewVoice(testIndex(), rate)
	v.Add(records.CallRecord{Source: "2125551234", Destination: "2135551234", Seconds: 60, Classification: npa.Interstate})
	v.Add(records.CallRecord{Source: "3105551234", Destination: "3105559999", Seconds: 60, Classification: npa.Intrastate})

	totals := v.Totals()
	assert.Equal(t, 2, totals.TotalCalls)
	assert.Equal(t, int64(2), totals.TotalMinutes)
	assert.Equal(t, int64(1), totals.InterstateMinutes)
	assert.Equal(t, int64(1), totals.IntrastateMinutes)
}

func TestPhoneCountsPartition(t *testing.T) {
	c := NewPhoneCounts()
	recs := []records.PhoneRecord{
		{Number: "1", Domain: "acme.x", Treatment: records.TreatmentUser},
		{Number: "2", Domain: "acme.x", Treatment: records.TreatmentVoicemail},
		{Number: "3", Domain: "acme.x", Treatment: records.TreatmentFaxVariant},
		{Number: "4", Domain: "acme.x", Treatment: records.TreatmentUnrecognized},
		{Number: "5", Domain: "beta.x", Treatment: records.TreatmentOnHold},
	}
	for _, r := range recs {
		c.Add(r)
	}

	assert.Equal(t, 2, c.Billable["acme"])
	assert.Equal(t, 2, c.NonBillable["acme"])
	assert.Equal(t, 1, c.NonBillable["beta"])
	assert.Len(t, c.Excluded, 3)

	// Partition totality: both sides sum to the record count per domain.
	for customer := range c.Customers() {
		total := 0
		for _, r := range recs {
			if r.Customer() == customer {
				total++
			}
		}
		assert.Equal(t, total, c.Billable[customer]+c.NonBillable[customer], customer)
	}
}

func TestCallerIDTally(t *testing.T) {
	c := NewCallerID()
	c.Add(records.CallRecord{Destination: "12125551234"})
	c.Add(records.CallRecord{Destination: "2125551234"}) // same number, normalized
	c.Add(records.CallRecord{Destination: "3105551234"})
	c.Add(records.CallRecord{Destination: ""})

	assert.Equal(t, 2, c.Counts["2125551234"])
	assert.Equal(t, 1, c.Counts["3105551234"])
	assert.Len(t, c.Counts, 2)
}

func TestSMSAggregation(t *testing.T) {
	a := NewSMS(testIndex(), rate)
	a.Add(records.SmsRecord{Source: "2125551234", Destination: "9995550000", Direction: records.Outbound, Cost: 0.004})
	a.Add(records.SmsRecord{Source: "9995550000", Destination: "2125551234", Direction: records.Inbound, Cost: 0.004})
	a.Add(records.SmsRecord{Source: "9995550000", Destination: "9995550001", Direction: records.Outbound, Cost: 0.004})

	acme := a.ByCustomer()["acme"]
	require.NotNil(t, acme)
	assert.Equal(t, 2, acme.Total)
	assert.Equal(t, 1, acme.Inbound)
	assert.Equal(t, 1, acme.Outbound)
	assert.InDelta(t, 0.01, acme.BilledCost, 1e-9)

	require.NotNil(t, a.ByCustomer()[Unmapped])

	overall := a.Overall()
	assert.Equal(t, 3, overall.Total)
	assert.InDelta(t, 0.012, overall.ProviderCost, 1e-9)
	assert.InDelta(t, 0.015, overall.BilledCost, 1e-9)
}

func TestUserPivot(t *testing.T) {
	p := NewUserPivot()
	for _, row := range []parse.UserExportRow{
		{Department: "Sheriff", UserType: "u"},
		{Department: "Sheriff", UserType: "u"},
		{Department: "Sheriff", UserType: "VM Only"},
		{Department: "Clerk", UserType: "nu"},
		{Department: "Clerk", UserType: "nb"},
		{Department: "Clerk", UserType: "faxata"},
	} {
		p.Add(row)
	}

	assert.Equal(t, 2, p.Depts["Sheriff"]["u"])
	assert.Equal(t, 1, p.Depts["Sheriff"]["vm only"])

	totals := p.Totals()
	assert.Equal(t, 2, totals["u"])
	assert.Equal(t, 1, totals["nu"])

	assert.Equal(t, 3, p.Lines())       // u + vm only
	assert.Equal(t, 4, p.ActiveUsers()) // u + nu + vm only
}
