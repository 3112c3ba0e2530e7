package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr bool
	}{
		{"select", "SELECT * FROM scan_reports ORDER BY scan_date DESC", false},
		{"column named like a keyword", "SELECT updated_at FROM scan_reports", false},
		{"lowercase select", "  select id from scan_reports", false},
		{"insert", "INSERT INTO scan_reports (patient_name) VALUES ('x')", true},
		{"stacked drop", "SELECT 1; DROP TABLE scan_reports", true},
		{"delete", "DELETE FROM scan_reports", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(New(tt.sql))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContains(t *testing.T) {
	assert.Equal(t, "%Jane%", Contains("Jane"))
	assert.Equal(t, "%%", Contains(""))
	assert.Equal(t, `%100\% Real\_Name%`, Contains("100% Real_Name"))
	assert.Equal(t, `%a\\b%`, Contains(`a\b`))
}
