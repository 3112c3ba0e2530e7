package models

import (
	"testing"

	"scan_report_srv/internal/domain/report"

	"github.com/stretchr/testify/assert"
)

func TestFromInputAndHasFile(t *testing.T) {
	rep := FromInput(report.Input{PatientName: "Jane Doe", ScanDate: "2024-03-01"})
	assert.Zero(t, rep.ID)
	assert.Equal(t, "Jane Doe", rep.PatientName)
	assert.False(t, rep.HasFile())

	rep.FileURL = "uploaded_scans/abc.png"
	assert.True(t, rep.HasFile())
}
