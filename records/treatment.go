package records

import "strings"

// Treatment is the functional role assigned to a phone number. The set is
// closed: every value is routed to exactly one side of the billable
// partition below, and anything the inventory carries that we do not
// recognize becomes TreatmentUnrecognized (non-billable, flagged upstream).
type Treatment int

const (
	TreatmentUser Treatment = iota
	TreatmentVoicemail
	TreatmentCallQueue
	TreatmentConference
	TreatmentAvailableNumber
	TreatmentFaxVariant
	TreatmentOnHold
	TreatmentOffNet
	TreatmentUnrecognized

	treatmentCount
)

func (t Treatment) String() string {
	switch t {
	case TreatmentUser:
		return "User"
	case TreatmentVoicemail:
		return "Voicemail"
	case TreatmentCallQueue:
		return "CallQueue"
	case TreatmentConference:
		return "Conference"
	case TreatmentAvailableNumber:
		return "AvailableNumber"
	case TreatmentFaxVariant:
		return "FaxVariant"
	case TreatmentOnHold:
		return "OnHold"
	case TreatmentOffNet:
		return "OffNet"
	default:
		return "Unrecognized"
	}
}

// billablePartition routes every Treatment to one side. Fax machines,
// on-hold music, off-net and unassigned numbers are not billed as seats.
// Adding a Treatment constant without a row here fails TestPartitionIsTotal.
var billablePartition = map[Treatment]bool{
	TreatmentUser:            true,
	TreatmentVoicemail:       true,
	TreatmentCallQueue:       true,
	TreatmentConference:      true,
	TreatmentAvailableNumber: false,
	TreatmentFaxVariant:      false,
	TreatmentOnHold:          false,
	TreatmentOffNet:          false,
	TreatmentUnrecognized:    false,
}

// Billable reports which side of the partition the treatment falls on.
func (t Treatment) Billable() bool { return billablePartition[t] }

// treatmentAliases maps the inventory's raw treatment strings (lowercased)
// to Treatment values.
var treatmentAliases = map[string]Treatment{
	"user":             TreatmentUser,
	"voicemail":        TreatmentVoicemail,
	"vvoicemail":       TreatmentVoicemail,
	"call queue":       TreatmentCallQueue,
	"callqueue":        TreatmentCallQueue,
	"vcallqueue":       TreatmentCallQueue,
	"conference":       TreatmentConference,
	"vconference":      TreatmentConference,
	"available number": TreatmentAvailableNumber,
	"faxsfata":         TreatmentFaxVariant,
	"vfaxsfata":        TreatmentFaxVariant,
	"ifax":             TreatmentFaxVariant,
	"vfax":             TreatmentFaxVariant,
	"von-hold":         TreatmentOnHold,
	"voffnet":          TreatmentOffNet,
}

// ParseTreatment maps a raw inventory treatment string to a Treatment.
// Unlisted fax and hold variants are still caught by keyword. The second
// return is false when the string was not recognized at all.
func ParseTreatment(raw string) (Treatment, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := treatmentAliases[s]; ok {
		return t, true
	}
	if strings.Contains(s, "fax") {
		return TreatmentFaxVariant, true
	}
	if strings.Contains(s, "hold") {
		return TreatmentOnHold, true
	}
	return TreatmentUnrecognized, false
}

// Treatments returns every Treatment value, for exhaustiveness checks.
func Treatments() []Treatment {
	all := make([]Treatment, 0, treatmentCount)
	for t := Treatment(0); t < treatmentCount; t++ {
		all = append(all, t)
	}
	return all
}
