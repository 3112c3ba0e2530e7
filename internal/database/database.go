package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"scan_report_srv/internal/domain/report"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:///"

// Config holds the database configuration
type Config struct {
	DSN   string
	Debug bool
}

// ParseDSN resolves a connection string to a dialect and the target the
// dialect's driver understands. Recognized forms are sqlite:///<path> and
// postgres://<user>:<pass>@<host>:<port>/<db>.
func ParseDSN(dsn string) (Dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, "", report.E("parse dsn", report.KindConfiguration, fmt.Errorf("connection string is empty"))
	}

	if strings.HasPrefix(dsn, sqlitePrefix) {
		path := strings.TrimPrefix(dsn, sqlitePrefix)
		if path == "" {
			return nil, "", report.E("parse dsn", report.KindConfiguration, fmt.Errorf("sqlite path is empty"))
		}
		return SQLite{}, path, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return nil, "", report.E("parse dsn", report.KindConfiguration, fmt.Errorf("malformed connection string"))
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		if u.Hostname() == "" {
			return nil, "", report.E("parse dsn", report.KindConfiguration, fmt.Errorf("postgres host is empty"))
		}
		if strings.Trim(u.Path, "/") == "" {
			return nil, "", report.E("parse dsn", report.KindConfiguration, fmt.Errorf("postgres database name is empty"))
		}
		return Postgres{}, dsn, nil
	default:
		return nil, "", report.E("parse dsn", report.KindConfiguration, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
}

// Provider hands out short-lived connections to the configured backend
type Provider struct {
	dialect Dialect
	target  string
	debug   bool
	logger  *logrus.Logger
}

// NewProvider validates the connection string and creates a provider
func NewProvider(cfg Config, log *logrus.Logger) (*Provider, error) {
	dialect, target, err := ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	log.WithField("backend", dialect.Name()).Info("Database backend selected")

	return &Provider{
		dialect: dialect,
		target:  target,
		debug:   cfg.Debug,
		logger:  log,
	}, nil
}

// Dialect returns the dialect of the configured backend
func (p *Provider) Dialect() Dialect {
	return p.dialect
}

// Open establishes a new connection. The caller must Close it.
func (p *Provider) Open(ctx context.Context) (*Conn, error) {
	if _, ok := p.dialect.(SQLite); ok {
		if err := ensureParentDir(p.target); err != nil {
			return nil, report.E("open", report.KindConnection, err)
		}
	}

	logLevel := logger.Error
	if p.debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(p.dialect.Dialector(p.target), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, report.E("open", report.KindConnection, fmt.Errorf("failed to connect to database: %w", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, report.E("open", report.KindConnection, fmt.Errorf("failed to get database instance: %w", err))
	}

	// one connection per operation, no pooling between operations
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, report.E("open", report.KindConnection, fmt.Errorf("failed to ping database: %w", err))
	}

	return &Conn{db: db, sqlDB: sqlDB, dialect: p.dialect}, nil
}

// EnsureSchema opens a connection, creates the table if needed and closes it
func (p *Provider) EnsureSchema(ctx context.Context) error {
	conn, err := p.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := EnsureSchema(ctx, conn); err != nil {
		return err
	}

	p.logger.WithField("backend", p.dialect.Name()).Info("Database schema is ready")
	return nil
}

// Conn is a single live connection bound to a dialect
type Conn struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	dialect Dialect
}

// Gorm returns the gorm handle of the connection
func (c *Conn) Gorm() *gorm.DB { return c.db }

// SQL returns the database/sql handle of the connection
func (c *Conn) SQL() *sql.DB { return c.sqlDB }

// Dialect returns the dialect the connection speaks
func (c *Conn) Dialect() Dialect { return c.dialect }

// Close releases the connection
func (c *Conn) Close() error {
	return c.sqlDB.Close()
}

// EnsureSchema creates the scan_reports table if it does not exist.
// Existing tables are left untouched.
func EnsureSchema(ctx context.Context, conn *Conn) error {
	db := conn.Gorm().WithContext(ctx)

	if err := db.Exec(conn.Dialect().CreateTableSQL()).Error; err != nil {
		return report.E("ensure schema", conn.Dialect().Classify(err), fmt.Errorf("failed to create table: %w", err))
	}
	if err := db.Exec(createIndexSQL).Error; err != nil {
		return report.E("ensure schema", conn.Dialect().Classify(err), fmt.Errorf("failed to create index: %w", err))
	}
	return nil
}

func ensureParentDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}
