package parser

import "strings"

// Canonical field names the pipeline understands. Headers that match none of
// the accepted spellings pass through under their normalized text.
const (
	FieldName             = "name"
	FieldPhoneNumber      = "phone_number"
	FieldCarPlate         = "car_plate"
	FieldInstallationDate = "installation_date"
	FieldDuration         = "duration"
	FieldErgNumber        = "erg_number"
)

// headerVariants lists the accepted spellings for each canonical field.
var headerVariants = map[string][]string{
	FieldName:             {"name", "client name", "customer name", "full name", "client", "customer"},
	FieldPhoneNumber:      {"phone", "phone number", "contact", "mobile", "tel", "telephone", "phone no", "contact no"},
	FieldCarPlate:         {"plate", "car plate", "number plate", "vehicle plate", "registration", "reg no", "reg number", "vehicle reg"},
	FieldInstallationDate: {"installation", "install date", "date installed", "fitted on", "installation date"},
	FieldDuration:         {"duration", "period", "months", "subscription period", "contract period"},
	FieldErgNumber:        {"erg", "erg no", "erg number", "tracking id", "device id", "tracker id"},
}

// canonicalOrder keeps lookup deterministic: the first matching canonical
// field wins.
var canonicalOrder = []string{
	FieldName,
	FieldPhoneNumber,
	FieldCarPlate,
	FieldInstallationDate,
	FieldDuration,
	FieldErgNumber,
}

// NormalizeHeaders maps raw header cells to canonical field names. Unknown
// headers come back lower-cased and trimmed; empty header cells come back as
// the empty string, which marks the column as skipped.
func NormalizeHeaders(headers []string) []string {
	columns := make([]string, len(headers))
	for i, header := range headers {
		normalized := strings.ToLower(strings.TrimSpace(header))
		if normalized == "" {
			continue
		}
		columns[i] = canonicalField(normalized)
	}
	return columns
}

func canonicalField(normalized string) string {
	for _, field := range canonicalOrder {
		for _, variant := range headerVariants[field] {
			if normalized == variant {
				return field
			}
		}
	}
	return normalized
}
