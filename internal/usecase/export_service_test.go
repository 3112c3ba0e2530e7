package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"scan_report_srv/internal/domain/query"
	"scan_report_srv/internal/domain/report"
	"scan_report_srv/internal/usecase/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, q query.Query) (repository.ResultSet, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(repository.ResultSet), args.Error(1)
}

type stubExporter struct {
	ext string
	got repository.ResultSet
}

func (e *stubExporter) Export(rs repository.ResultSet) ([]byte, error) {
	e.got = rs
	return []byte("doc"), nil
}

func (e *stubExporter) ContentType() string   { return "application/x-test" }
func (e *stubExporter) FileExtension() string { return e.ext }

func TestExport(t *testing.T) {
	exec := new(MockExecutor)
	rs := repository.ResultSet{Columns: []string{"id"}, Rows: [][]any{{int64(1)}}}
	exec.On("Execute", mock.Anything, query.New(exportQuery)).Return(rs, nil)

	csv := &stubExporter{ext: ".csv"}
	svc := NewExportService(exec, csv, &stubExporter{ext: ".xlsx"})
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }

	doc, err := svc.Export(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "scan_reports_20240301_103000.csv", doc.Filename)
	assert.Equal(t, "application/x-test", doc.ContentType)
	assert.Equal(t, []byte("doc"), doc.Content)
	assert.Equal(t, rs, csv.got)
	exec.AssertExpectations(t)
}

func TestExportUnknownFormat(t *testing.T) {
	exec := new(MockExecutor)
	svc := NewExportService(exec, &stubExporter{}, &stubExporter{})

	_, err := svc.Export(context.Background(), "pdf")
	require.Error(t, err)
	assert.True(t, report.Is(err, report.KindConstraint))
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestExportPropagatesExecutorError(t *testing.T) {
	exec := new(MockExecutor)
	dbErr := report.E("execute", report.KindConnection, errors.New("connection refused"))
	exec.On("Execute", mock.Anything, mock.Anything).Return(repository.ResultSet{}, dbErr)

	svc := NewExportService(exec, &stubExporter{}, &stubExporter{})
	_, err := svc.Export(context.Background(), FormatXLSX)
	assert.True(t, report.Is(err, report.KindConnection))
}
