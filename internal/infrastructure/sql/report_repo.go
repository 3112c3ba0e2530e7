package sql

import (
	"context"
	"fmt"
	"strings"

	"scan_report_srv/internal/database"
	"scan_report_srv/internal/domain/query"
	"scan_report_srv/internal/domain/report"
	"scan_report_srv/internal/models"
	"scan_report_srv/internal/usecase/repository"

	"github.com/sirupsen/logrus"
)

// ordering compares scan_date as text; ISO dates sort chronologically
const orderBy = ` ORDER BY scan_date DESC, id DESC`

var insertColumns = models.Columns[1:]

// ReportRepository stores scan reports. Every call opens its own connection
// and releases it before returning.
type ReportRepository struct {
	provider *database.Provider
	logger   *logrus.Logger
}

// NewReportRepository creates a repository on top of the connection provider.
func NewReportRepository(provider *database.Provider, logger *logrus.Logger) *ReportRepository {
	return &ReportRepository{provider: provider, logger: logger}
}

// Insert stores a new report and returns it with the id assigned by the backend.
func (r *ReportRepository) Insert(ctx context.Context, in report.Input) (models.ScanReport, error) {
	rep := models.FromInput(in)

	err := r.withConn(ctx, "insert", func(conn *database.Conn) error {
		d := conn.Dialect()
		stmt := fmt.Sprintf(`INSERT INTO scan_reports (%s) VALUES (%s) RETURNING id`,
			strings.Join(insertColumns, ", "), database.Placeholders(d, len(insertColumns)))

		var id int64
		err := conn.SQL().QueryRowContext(ctx, stmt,
			rep.PatientName,
			rep.Age,
			rep.Gender,
			rep.ScanType,
			rep.ScanSummary,
			rep.ScanDate,
			rep.RadiologistName,
			rep.FileURL,
		).Scan(&id)
		if err != nil {
			return err
		}
		rep.ID = uint(id)
		return nil
	})
	if err != nil {
		return models.ScanReport{}, err
	}
	return rep, nil
}

// ListAll returns every report, newest scan date first.
func (r *ReportRepository) ListAll(ctx context.Context) ([]models.ScanReport, error) {
	q := query.New(selectReports() + orderBy)
	return r.find(ctx, "list", func(database.Dialect) query.Query { return q })
}

// Search returns reports whose patient name contains name.
func (r *ReportRepository) Search(ctx context.Context, name string) ([]models.ScanReport, error) {
	return r.find(ctx, "search", func(d database.Dialect) query.Query {
		return query.New(
			selectReports()+` WHERE `+database.LikeClause(d, "patient_name", 1)+orderBy,
			query.Contains(name),
		)
	})
}

// Execute runs a read-only query and returns the raw result set.
func (r *ReportRepository) Execute(ctx context.Context, q query.Query) (repository.ResultSet, error) {
	if err := query.Validate(q); err != nil {
		return repository.ResultSet{}, report.E("execute", report.KindConstraint, err)
	}

	var rs repository.ResultSet
	err := r.withConn(ctx, "execute", func(conn *database.Conn) error {
		var err error
		rs, err = DB{conn.SQL()}.Execute(ctx, q.SQL, q.Params...)
		return err
	})
	return rs, err
}

func (r *ReportRepository) find(ctx context.Context, op string, build func(database.Dialect) query.Query) ([]models.ScanReport, error) {
	reports := make([]models.ScanReport, 0)

	err := r.withConn(ctx, op, func(conn *database.Conn) error {
		q := build(conn.Dialect())
		rows, err := conn.SQL().QueryContext(ctx, q.SQL, q.Params...)
		if err != nil {
			return err
		}
		defer rows.Close()

		db := conn.Gorm().WithContext(ctx)
		for rows.Next() {
			var rep models.ScanReport
			if err := db.ScanRows(rows, &rep); err != nil {
				return err
			}
			reports = append(reports, rep)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// withConn opens a connection, runs fn and closes the connection on every path.
func (r *ReportRepository) withConn(ctx context.Context, op string, fn func(conn *database.Conn) error) error {
	logger := r.logger.WithField("operation", op)

	conn, err := r.provider.Open(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to open database connection")
		return report.E(op, report.KindConnection, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close database connection")
		}
	}()

	if err := fn(conn); err != nil {
		kind := conn.Dialect().Classify(err)
		logger.WithError(err).WithField("kind", kind.String()).Error("Database operation failed")
		return report.E(op, kind, err)
	}
	return nil
}

func selectReports() string {
	return `SELECT ` + strings.Join(models.Columns, ", ") + ` FROM scan_reports`
}
