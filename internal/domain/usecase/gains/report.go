package gains

import (
	"encoding/csv"
	"strings"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// reportHeader is the fixed header row of the tax-filing export
var reportHeader = []string{
	"Security Description",
	"Quantity",
	"Date Acquired",
	"Date Sold",
	"Proceeds",
	"Cost Basis",
	"Term",
}

// BuildReportCSV serializes report lines into the tax-filing CSV document,
// one row per disposal chunk, preserving the processing order of the pass
// that produced them.
func (s *Service) BuildReportCSV(lines []entity.ReportLine) (string, error) {
	var out strings.Builder
	writer := csv.NewWriter(&out)

	if err := writer.Write(reportHeader); err != nil {
		return "", err
	}
	for _, line := range lines {
		record := []string{
			line.SecurityDescription,
			line.Quantity,
			line.DateAcquired,
			line.DateSold,
			line.Proceeds,
			line.CostBasis,
			line.Term,
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return out.String(), nil
}
