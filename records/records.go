// Package records holds the normalized in-memory record types the parsers
// produce and the aggregator consumes.
package records

import (
	"strings"

	"github.com/syneteks/billing-reports/npa"
)

// CallRecord is one call from either CDR source, normalized.
type CallRecord struct {
	BillingDate  string
	StartTime    string
	Source       string
	Destination  string
	Seconds      float64
	CallerID     string
	Disposition  string
	ProviderCost float64
	Peer         string

	// Classification is set once by the classifier before aggregation.
	Classification npa.Class
	// Customer is the owning customer when the source carries it directly
	// (SkySwitch rows do); empty for Vitelity rows, which are resolved
	// against the phone inventory.
	Customer string
}

// Direction of an SMS message.
type Direction int

const (
	Outbound Direction = iota
	Inbound
)

func (d Direction) String() string {
	if d == Inbound {
		return "inbound"
	}
	return "outbound"
}

// SmsRecord is one SMS log row, normalized.
type SmsRecord struct {
	Time        string
	Source      string
	Destination string
	Direction   Direction
	Cost        float64
}

// PhoneRecord is one phone-inventory row.
type PhoneRecord struct {
	Number       string
	Domain       string
	Treatment    Treatment
	RawTreatment string
	Destination  string
	Notes        string
	Enabled      bool
}

// Customer derives the customer key from the record's domain.
func (p PhoneRecord) Customer() string { return CustomerName(p.Domain) }

// DomainStat is one row of the domain-statistics workbook.
type DomainStat struct {
	Domain          string
	PBXUsers        int
	CallCenter      int
	CallRecording   int
	SIPTrunks       int
	MeetingRooms    int
	VMTranscription int
	PhoneNumbers    int
	TeamsConnectors int
	VideoConnectors int
}

// Customer derives the customer key from the stat's domain.
func (d DomainStat) Customer() string { return CustomerName(d.Domain) }

// CustomerName extracts the customer key from a PBX domain:
// "AdamsCoIL.20507.service" -> "AdamsCoIL".
func CustomerName(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return "Unknown"
	}
	if i := strings.IndexByte(domain, '.'); i >= 0 {
		return domain[:i]
	}
	return domain
}
