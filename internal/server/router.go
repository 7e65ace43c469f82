package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/f-audit/faudit/internal/audit"
)

const (
	reportRoutePath             = "/"
	uploadRoutePath             = "/upload"
	healthRoutePath             = "/healthz"
	staticRoutePath             = "/static"
	uploadFormFieldName         = "archive"
	uploadedArchiveFileName     = "export.zip"
	htmlContentType             = "text/html; charset=utf-8"
	errorMessageRenderFailure   = "report page rendering failed"
	errorMessageUploadMissing   = "no archive file in upload"
	errorMessageUploadSave      = "could not store the uploaded archive"
	healthStatusKey             = "status"
	healthStatusOK              = "ok"
	logMessageRenderFailure     = "report render failure"
	logMessageUploadMissing     = "upload without archive file"
	logMessageUploadSaveFailure = "uploaded archive save failure"
	logMessageAuditFailure      = "archive audit failure"
	logFieldUploadFileName      = "file_name"
	ginModeRelease              = "release"
)

// AuditService encapsulates the logic required to audit an archive and render
// the report page.
type AuditService interface {
	RunAudit(archivePath string) (audit.Report, error)
	RenderReportPage(pageData audit.ReportPageData) (string, error)
}

// SchemaAuditService implements AuditService over one export schema by
// delegating to the audit package.
type SchemaAuditService struct {
	Schema audit.Schema
}

// RunAudit executes the full pipeline on the archive at archivePath.
func (service SchemaAuditService) RunAudit(archivePath string) (audit.Report, error) {
	return audit.RunAudit(archivePath, service.Schema)
}

// RenderReportPage renders the viewer HTML for the page data.
func (service SchemaAuditService) RenderReportPage(pageData audit.ReportPageData) (string, error) {
	return audit.RenderReportPage(pageData)
}

// RouterConfig configures the HTTP routing for the report viewer.
type RouterConfig struct {
	Service AuditService
	Logger  *zap.Logger
}

// NewRouter constructs a Gin engine configured with the viewer handlers.
func NewRouter(configuration RouterConfig) (*gin.Engine, error) {
	service := configuration.Service
	if service == nil {
		service = SchemaAuditService{Schema: audit.DefaultSchema()}
	}
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(ginModeRelease)
	engine := gin.New()
	engine.Use(gin.Recovery())

	handler := reportHandler{
		service: service,
		logger:  logger,
	}

	staticAssets, assetsErr := audit.StaticAssets()
	if assetsErr != nil {
		return nil, assetsErr
	}

	engine.GET(reportRoutePath, handler.serveUploadForm)
	engine.POST(uploadRoutePath, handler.serveUploadedReport)
	engine.GET(healthRoutePath, handler.healthStatus)
	engine.StaticFS(staticRoutePath, http.FS(staticAssets))

	return engine, nil
}

type reportHandler struct {
	service AuditService
	logger  *zap.Logger
}

func (handler reportHandler) serveUploadForm(ginContext *gin.Context) {
	handler.renderPage(ginContext, audit.ReportPageData{})
}

func (handler reportHandler) serveUploadedReport(ginContext *gin.Context) {
	uploadedFile, formErr := ginContext.FormFile(uploadFormFieldName)
	if formErr != nil {
		handler.logger.Warn(logMessageUploadMissing, zap.Error(formErr))
		handler.renderPage(ginContext, audit.ReportPageData{Errors: []string{errorMessageUploadMissing}})
		return
	}

	tempDir, tempErr := os.MkdirTemp("", "faudit-upload-")
	if tempErr != nil {
		handler.logger.Error(logMessageUploadSaveFailure, zap.Error(tempErr))
		handler.renderPage(ginContext, audit.ReportPageData{Errors: []string{errorMessageUploadSave}})
		return
	}
	defer os.RemoveAll(tempDir)

	archivePath := filepath.Join(tempDir, uploadedArchiveFileName)
	if saveErr := ginContext.SaveUploadedFile(uploadedFile, archivePath); saveErr != nil {
		handler.logger.Error(logMessageUploadSaveFailure, zap.Error(saveErr))
		handler.renderPage(ginContext, audit.ReportPageData{Errors: []string{errorMessageUploadSave}})
		return
	}

	upload := &audit.UploadSummary{FileName: uploadedFile.Filename}
	report, auditErr := handler.service.RunAudit(archivePath)
	if auditErr != nil {
		handler.logger.Warn(logMessageAuditFailure,
			zap.String(logFieldUploadFileName, uploadedFile.Filename),
			zap.Error(auditErr),
		)
		handler.renderPage(ginContext, audit.ReportPageData{Upload: upload, Errors: []string{auditErr.Error()}})
		return
	}

	handler.renderPage(ginContext, audit.ReportPageData{Report: &report, Upload: upload})
}

func (handler reportHandler) renderPage(ginContext *gin.Context, pageData audit.ReportPageData) {
	pageHTML, renderErr := handler.service.RenderReportPage(pageData)
	if renderErr != nil {
		handler.logger.Error(logMessageRenderFailure, zap.Error(renderErr))
		ginContext.String(http.StatusInternalServerError, errorMessageRenderFailure)
		return
	}
	ginContext.Data(http.StatusOK, htmlContentType, []byte(pageHTML))
}

func (handler reportHandler) healthStatus(ginContext *gin.Context) {
	ginContext.JSON(http.StatusOK, map[string]string{healthStatusKey: healthStatusOK})
}
