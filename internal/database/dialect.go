package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"scan_report_srv/internal/domain/report"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialect captures everything that differs between the supported backends.
// A dialect is chosen once when the connection string is parsed.
type Dialect interface {
	// Name returns the backend name used in logs
	Name() string
	// Placeholder returns the bind token for the n-th parameter, starting at 1
	Placeholder(n int) string
	// LikeOperator returns the operator used for substring search
	LikeOperator() string
	// CreateTableSQL returns the DDL for the scan_reports table
	CreateTableSQL() string
	// Dialector returns the gorm dialector for the given target
	Dialector(target string) gorm.Dialector
	// Classify maps a driver error to an error kind
	Classify(err error) report.Kind
}

const columnsDDL = `
	patient_name TEXT NOT NULL,
	age INTEGER,
	gender TEXT,
	scan_type TEXT,
	scan_summary TEXT,
	scan_date TEXT,
	radiologist_name TEXT,
	file_url TEXT
)`

const createIndexSQL = `CREATE INDEX IF NOT EXISTS idx_scan_reports_scan_date ON scan_reports (scan_date)`

// SQLite is the embedded file-backed backend
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Placeholder(int) string { return "?" }

// LikeOperator: LIKE in SQLite is already case-insensitive for ASCII
func (SQLite) LikeOperator() string { return "LIKE" }

func (SQLite) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS scan_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,` + columnsDDL
}

func (SQLite) Dialector(target string) gorm.Dialector {
	return sqlite.Open(target)
}

func (SQLite) Classify(err error) report.Kind {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrConstraint:
			return report.KindConstraint
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrBusy, sqlite3.ErrLocked:
			return report.KindConnection
		}
	}
	return classifyCommon(err)
}

// Postgres is the networked backend, accessed through lib/pq
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// LikeOperator uses ILIKE to match SQLite's case folding. SQLite folds ASCII
// letters only while ILIKE folds any letter, so non-ASCII names still differ.
func (Postgres) LikeOperator() string { return "ILIKE" }

func (Postgres) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS scan_reports (
	id SERIAL PRIMARY KEY,` + columnsDDL
}

func (Postgres) Dialector(target string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        target,
	})
}

func (Postgres) Classify(err error) report.Kind {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23":
			return report.KindConstraint
		case "08":
			return report.KindConnection
		case "57":
			// admin_shutdown, crash_shutdown, cannot_connect_now
			if pqErr.Code == "57P01" || pqErr.Code == "57P02" || pqErr.Code == "57P03" {
				return report.KindConnection
			}
		}
	}
	return classifyCommon(err)
}

func classifyCommon(err error) report.Kind {
	if errors.Is(err, driver.ErrBadConn) {
		return report.KindConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return report.KindConnection
	}
	return report.KindBackend
}

// LikeClause returns "<column> <like> <placeholder n> ESCAPE '\'" for patterns
// built with query.Contains
func LikeClause(d Dialect, column string, n int) string {
	return fmt.Sprintf(`%s %s %s ESCAPE '\'`, column, d.LikeOperator(), d.Placeholder(n))
}

// Placeholders returns n bind tokens separated by commas
func Placeholders(d Dialect, n int) string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = d.Placeholder(i + 1)
	}
	return strings.Join(tokens, ", ")
}
