package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBankFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"smep_march_2024.xlsx", "SMEP Bank"},
		{"SMEP_clients.csv", "SMEP Bank"},
		{"tai.xlsx", "TAI SACCO"},
		{"boa_q1.xlsx", "Bank of Africa"},
		{"family_new_clients.csv", "Family Bank"},
		{"equity_batch.xlsx", "Equity Bank"},
		{"coop_uploads.csv", "Co-operative Bank"},
		{"caritas_jan.xlsx", "Caritas"},
		{"unaitas.csv", "Unaitas"},
		{"springboard_fleet.xlsx", "Springboard"},
		{"reflex_internal.xlsx", "Reflex Technologies"},
		{"individual_walkins.csv", "Individual"},
		{"unknown_clients.csv", "Individual"},
		{"march_smep.xlsx", "Individual"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, BankFromFilename(tt.filename))
		})
	}
}
