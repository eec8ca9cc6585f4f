package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []string
	}{
		{
			name:    "canonical spellings",
			headers: []string{"Name", "Phone Number", "Car Plate", "Installation Date", "Duration", "ERG Number"},
			want:    []string{FieldName, FieldPhoneNumber, FieldCarPlate, FieldInstallationDate, FieldDuration, FieldErgNumber},
		},
		{
			name:    "alternate spellings",
			headers: []string{"Customer Name", "Mobile", "Reg No", "Fitted On", "Contract Period", "Tracker ID"},
			want:    []string{FieldName, FieldPhoneNumber, FieldCarPlate, FieldInstallationDate, FieldDuration, FieldErgNumber},
		},
		{
			name:    "case and whitespace insensitive",
			headers: []string{"  NAME ", "PHONE", " reg number"},
			want:    []string{FieldName, FieldPhoneNumber, FieldCarPlate},
		},
		{
			name:    "unknown headers pass through lowercased",
			headers: []string{"Name", "Branch Office", "Notes"},
			want:    []string{FieldName, "branch office", "notes"},
		},
		{
			name:    "empty cells mark skipped columns",
			headers: []string{"Name", "", "  ", "Phone"},
			want:    []string{FieldName, "", "", FieldPhoneNumber},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeaders(tt.headers))
		})
	}
}
