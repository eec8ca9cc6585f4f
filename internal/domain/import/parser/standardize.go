package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/reflexops/fleetadmin/internal/domain/import/normalizer"
)

// StandardizedRecord is one data row after header mapping and value coercion.
// Canonical fields are typed; unknown columns survive in Extra.
type StandardizedRecord struct {
	Name             string
	PhoneNumber      string
	CarPlate         string
	InstallationDate string // YYYY-MM-DD, empty when the column was absent
	DurationMonths   int
	HasDuration      bool
	ErgNumber        string
	SubscriptionEnd  string // derived when installation date and duration are both set
	Extra            map[string]string
}

// StandardizedRow pairs a record with the coercion error that stopped it, if
// any. A failed row still occupies its slot so row numbering stays stable.
type StandardizedRow struct {
	Record StandardizedRecord
	Err    error
}

// StandardizeRows zips normalized columns with each data row and coerces the
// cell values. Rows shorter than the header list just omit the trailing
// fields. Exactly one StandardizedRow is produced per input row, in order.
func StandardizeRows(columns []string, rows [][]string) []StandardizedRow {
	out := make([]StandardizedRow, len(rows))
	for i, row := range rows {
		out[i] = standardizeRow(columns, row)
	}
	return out
}

func standardizeRow(columns []string, row []string) StandardizedRow {
	record := StandardizedRecord{}

	for i, column := range columns {
		if column == "" || i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}

		switch column {
		case FieldName:
			record.Name = cell
		case FieldPhoneNumber:
			record.PhoneNumber = normalizer.NormalizePhone(cell)
		case FieldCarPlate:
			record.CarPlate = normalizer.NormalizePlate(cell)
		case FieldInstallationDate:
			date, err := normalizer.CoerceDate(cell)
			if err != nil {
				return StandardizedRow{Err: fmt.Errorf("invalid installation date %q: %w", cell, err)}
			}
			record.InstallationDate = date.Format(normalizer.DateLayout)
		case FieldDuration:
			if months, ok := normalizer.ParseDurationMonths(cell); ok {
				record.DurationMonths = months
				record.HasDuration = true
			}
		case FieldErgNumber:
			record.ErgNumber = cell
		default:
			if record.Extra == nil {
				record.Extra = make(map[string]string)
			}
			record.Extra[column] = cell
		}
	}

	deriveSubscriptionEnd(&record)
	return StandardizedRow{Record: record}
}

// deriveSubscriptionEnd computes installation date + duration months. A zero
// duration counts as absent, matching the downstream 12-month default.
func deriveSubscriptionEnd(record *StandardizedRecord) {
	if record.InstallationDate == "" || !record.HasDuration || record.DurationMonths == 0 {
		return
	}
	start, err := time.Parse(normalizer.DateLayout, record.InstallationDate)
	if err != nil {
		return
	}
	end := normalizer.AddMonths(start, record.DurationMonths)
	record.SubscriptionEnd = end.Format(normalizer.DateLayout)
}
