package report

import "strings"

// Варианты, которые интерфейс предлагает пользователю. Хранилище принимает любой текст.
var (
	GenderOptions   = []string{"Male", "Female", "Other"}
	ScanTypeOptions = []string{"X-ray", "MRI", "CT Scan", "Ultrasound", "Other"}
)

// Input содержит данные нового отчета о снимке, все поля кроме id.
type Input struct {
	PatientName     string
	Age             int
	Gender          string
	ScanType        string
	ScanSummary     string
	ScanDate        string
	RadiologistName string
	FileURL         string
}

// Validate проверяет обязательные поля перед записью в хранилище.
func (in Input) Validate() error {
	if strings.TrimSpace(in.PatientName) == "" {
		return &Error{Op: "validate", Kind: KindConstraint, Err: ErrPatientNameRequired}
	}
	return nil
}
