package normalizer

import "strings"

// DefaultBank is used when the filename prefix matches no known institution.
const DefaultBank = "Individual"

// bankPrefixes maps a filename prefix to the institution a file was exported
// by. Prefix is the part of the filename before the first underscore or dot.
var bankPrefixes = map[string]string{
	"smep":        "SMEP Bank",
	"tai":         "TAI SACCO",
	"boa":         "Bank of Africa",
	"family":      "Family Bank",
	"equity":      "Equity Bank",
	"coop":        "Co-operative Bank",
	"individual":  "Individual",
	"caritas":     "Caritas",
	"unaitas":     "Unaitas",
	"springboard": "Springboard",
	"reflex":      "Reflex Technologies",
}

// BankFromFilename derives the institution name from an uploaded file's name.
// Unknown prefixes classify as Individual; the function never fails.
func BankFromFilename(filename string) string {
	prefix := strings.ToLower(filename)
	if idx := strings.Index(prefix, "_"); idx >= 0 {
		prefix = prefix[:idx]
	}
	if idx := strings.Index(prefix, "."); idx >= 0 {
		prefix = prefix[:idx]
	}

	if bank, ok := bankPrefixes[prefix]; ok {
		return bank
	}
	return DefaultBank
}
