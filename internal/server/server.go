package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"scan_report_srv/internal/config"
	"scan_report_srv/internal/domain/report"
	"scan_report_srv/internal/models"
	"scan_report_srv/internal/service"
	"scan_report_srv/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// AllowedExtensions lists attachment types accepted by the upload form
var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

// ReportExporter renders all reports into a downloadable document
type ReportExporter interface {
	Export(ctx context.Context, format string) (usecase.Document, error)
}

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	service service.ReportService
	exports ReportExporter
	logger  *logrus.Logger
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// createReportRequest is accepted both as JSON and as a multipart form
type createReportRequest struct {
	PatientName     string `json:"patient_name" form:"patient_name" validate:"required"`
	Age             int    `json:"age" form:"age" validate:"gte=0,lte=120"`
	Gender          string `json:"gender" form:"gender"`
	ScanType        string `json:"scan_type" form:"scan_type"`
	ScanSummary     string `json:"scan_summary" form:"scan_summary"`
	ScanDate        string `json:"scan_date" form:"scan_date" validate:"omitempty,datetime=2006-01-02"`
	RadiologistName string `json:"radiologist_name" form:"radiologist_name"`
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, reports service.ReportService, exports ReportExporter, logger *logrus.Logger) *Server {
	e := echo.New()
	e.Debug = cfg.IsDevelopment()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("20M"))

	if cfg.IsDevelopment() {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Format: "${time_rfc3339} ${method} ${uri} ${status} ${latency_human} ${error}\n",
		}))
	} else {
		e.Use(middleware.Logger())
	}

	server := &Server{
		echo:    e,
		service: reports,
		exports: exports,
		logger:  logger,
	}

	server.setupRoutes()
	return server
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.WithField("address", address).Info("Starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes configures the server routes
func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.healthCheck)

	// API routes
	api := s.echo.Group("/api/v1")
	{
		reports := api.Group("/reports")
		{
			reports.POST("", s.createReport)
			reports.GET("", s.listReports)
			reports.GET("/search", s.searchReports)
			reports.GET("/export", s.exportReports)
			reports.GET("/options", s.options)
		}
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "scan-report-service",
	})
}

// createReport handles report submission with an optional attachment
func (s *Server) createReport(c echo.Context) error {
	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		s.logger.WithError(err).Error("Failed to bind request")
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": validationMessage(err),
		})
	}

	if req.ScanDate == "" {
		req.ScanDate = time.Now().Format(dateLayout)
	}

	attachment, cleanup, err := s.attachment(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}
	defer cleanup()

	in := report.Input{
		PatientName:     req.PatientName,
		Age:             req.Age,
		Gender:          req.Gender,
		ScanType:        req.ScanType,
		ScanSummary:     req.ScanSummary,
		ScanDate:        req.ScanDate,
		RadiologistName: req.RadiologistName,
	}

	created, err := s.service.Submit(c.Request().Context(), in, attachment)
	if err != nil {
		return s.fail(c, err, "Failed to save report")
	}

	if created.HasFile() {
		created.FileURL = s.service.ResolveFileURL(created.FileURL)
	}
	return c.JSON(http.StatusCreated, created)
}

// attachment extracts the optional "file" field of a multipart request
func (s *Server) attachment(c echo.Context) (*service.Attachment, func(), error) {
	noop := func() {}

	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		return nil, noop, nil
	}

	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("invalid file upload")
	}

	if !allowedExtension(fh.Filename) {
		return nil, noop, fmt.Errorf("file type not allowed, expected one of %s", strings.Join(AllowedExtensions, ", "))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("invalid file upload")
	}

	return &service.Attachment{Name: fh.Filename, Content: f}, func() { f.Close() }, nil
}

// listReports handles listing reports
func (s *Server) listReports(c echo.Context) error {
	reports, err := s.service.List(c.Request().Context())
	if err != nil {
		return s.fail(c, err, "Failed to list reports")
	}

	reports = s.resolve(reports)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// searchReports handles searching reports by patient name
func (s *Server) searchReports(c echo.Context) error {
	name := c.QueryParam("name")
	if strings.TrimSpace(name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Query parameter 'name' is required",
		})
	}

	reports, err := s.service.Search(c.Request().Context(), name)
	if err != nil {
		return s.fail(c, err, "Failed to search reports")
	}

	reports = s.resolve(reports)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
		"query":   name,
	})
}

// exportReports streams all reports as CSV or XLSX
func (s *Server) exportReports(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = usecase.FormatCSV
	}

	doc, err := s.exports.Export(c.Request().Context(), format)
	if err != nil {
		return s.fail(c, err, "Failed to export reports")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Content)
}

// options returns suggestions for the submission form
func (s *Server) options(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"genders":            report.GenderOptions,
		"scan_types":         report.ScanTypeOptions,
		"allowed_extensions": AllowedExtensions,
	})
}

func (s *Server) resolve(reports []models.ScanReport) []models.ScanReport {
	for i := range reports {
		if reports[i].HasFile() {
			reports[i].FileURL = s.service.ResolveFileURL(reports[i].FileURL)
		}
	}
	return reports
}

// fail maps an error kind to a status code and a generic message
func (s *Server) fail(c echo.Context, err error, msg string) error {
	kind := report.KindOf(err)
	s.logger.WithError(err).WithFields(logrus.Fields{
		"kind": kind.String(),
		"path": c.Path(),
	}).Error(msg)

	status := statusFor(kind)
	switch {
	case errors.Is(err, report.ErrPatientNameRequired):
		msg = "patient_name is required"
	case kind == report.KindConstraint:
		msg = "Report violates a data constraint"
	case kind == report.KindStorage:
		msg = "File storage is unavailable"
	case kind == report.KindConnection:
		msg = "Database is unavailable"
	}

	return c.JSON(status, map[string]string{
		"error": msg,
	})
}

func statusFor(kind report.Kind) int {
	switch kind {
	case report.KindConstraint:
		return http.StatusBadRequest
	case report.KindStorage:
		return http.StatusBadGateway
	case report.KindConnection:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func allowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "PatientName":
		return "patient_name is required"
	case "Age":
		return "age must be between 0 and 120"
	case "ScanDate":
		return "scan_date must be in YYYY-MM-DD format"
	}
	return fmt.Sprintf("invalid field %s", fe.Field())
}
