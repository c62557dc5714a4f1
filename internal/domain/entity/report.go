package entity

// Term category codes used on the tax-filing export
const (
	TermShort = "C"
	TermLong  = "F"
)

// ReportLine is one tax-filing line item: a single disposal chunk formatted
// for the export. Quantities and dollar figures carry fixed 8-decimal-place
// formatting; dates are calendar dates.
type ReportLine struct {
	SecurityDescription string
	Quantity            string
	DateAcquired        string
	DateSold            string
	Proceeds            string
	CostBasis           string
	Term                string
}

// NewReportLine formats a disposal chunk into a report line
func NewReportLine(chunk DisposalChunk) ReportLine {
	term := TermLong
	if chunk.ShortTerm {
		term = TermShort
	}
	return ReportLine{
		SecurityDescription: "CRYPTO " + chunk.AssetName,
		Quantity:            chunk.AllocatedAmount.StringFixed(8),
		DateAcquired:        chunk.AcquiredOn.Format("2006-01-02"),
		DateSold:            chunk.DisposedOn.Format("2006-01-02"),
		Proceeds:            chunk.Proceeds().StringFixed(8),
		CostBasis:           chunk.Cost().StringFixed(8),
		Term:                term,
	}
}
