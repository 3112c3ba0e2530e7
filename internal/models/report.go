package models

import "scan_report_srv/internal/domain/report"

// ScanReport represents a stored imaging report
type ScanReport struct {
	ID              uint   `json:"id" gorm:"column:id;primaryKey"`
	PatientName     string `json:"patient_name" gorm:"column:patient_name;not null"`
	Age             int    `json:"age" gorm:"column:age"`
	Gender          string `json:"gender" gorm:"column:gender"`
	ScanType        string `json:"scan_type" gorm:"column:scan_type"`
	ScanSummary     string `json:"scan_summary" gorm:"column:scan_summary"`
	ScanDate        string `json:"scan_date" gorm:"column:scan_date"`
	RadiologistName string `json:"radiologist_name" gorm:"column:radiologist_name"`
	FileURL         string `json:"file_url" gorm:"column:file_url"`
}

// TableName specifies the table name for the ScanReport model
func (ScanReport) TableName() string {
	return "scan_reports"
}

// HasFile returns true if an attachment is stored for the report
func (r *ScanReport) HasFile() bool {
	return r.FileURL != ""
}

// FromInput builds a report that has not been assigned an id yet
func FromInput(in report.Input) ScanReport {
	return ScanReport{
		PatientName:     in.PatientName,
		Age:             in.Age,
		Gender:          in.Gender,
		ScanType:        in.ScanType,
		ScanSummary:     in.ScanSummary,
		ScanDate:        in.ScanDate,
		RadiologistName: in.RadiologistName,
		FileURL:         in.FileURL,
	}
}

// Columns lists the table columns in declaration order
var Columns = []string{
	"id",
	"patient_name",
	"age",
	"gender",
	"scan_type",
	"scan_summary",
	"scan_date",
	"radiologist_name",
	"file_url",
}
