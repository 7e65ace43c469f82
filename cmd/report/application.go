package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/f-audit/faudit/internal/audit"
)

// ReportConfiguration carries the resolved CLI options for one run.
type ReportConfiguration struct {
	ArchivePath string
	OutputPath  string
	JSONOutput  bool
}

// ReportDependencies allows tests to substitute every side-effecting
// collaborator of the application.
type ReportDependencies struct {
	RunAudit        func(string, audit.Schema) (audit.Report, error)
	RenderText      func(audit.Report) string
	RenderJSON      func(audit.Report) (string, error)
	WriteOutputFile func(string, string) error
	Stdout          io.Writer
}

// ReportApplication runs the audit pipeline and emits the report.
type ReportApplication struct {
	dependencies ReportDependencies
}

func NewReportApplication() ReportApplication {
	return NewReportApplicationWithDependencies(newDefaultReportDependencies())
}

func NewReportApplicationWithDependencies(dependencies ReportDependencies) ReportApplication {
	defaultDependencies := newDefaultReportDependencies()

	if dependencies.RunAudit == nil {
		dependencies.RunAudit = defaultDependencies.RunAudit
	}
	if dependencies.RenderText == nil {
		dependencies.RenderText = defaultDependencies.RenderText
	}
	if dependencies.RenderJSON == nil {
		dependencies.RenderJSON = defaultDependencies.RenderJSON
	}
	if dependencies.WriteOutputFile == nil {
		dependencies.WriteOutputFile = defaultDependencies.WriteOutputFile
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = defaultDependencies.Stdout
	}

	return ReportApplication{dependencies: dependencies}
}

func (application ReportApplication) Run(_ context.Context, configuration ReportConfiguration) error {
	report, auditError := application.dependencies.RunAudit(configuration.ArchivePath, audit.DefaultSchema())
	if auditError != nil {
		return fmt.Errorf(auditErrorFormat, configuration.ArchivePath, auditError)
	}

	var output string
	if configuration.JSONOutput {
		rendered, renderError := application.dependencies.RenderJSON(report)
		if renderError != nil {
			return fmt.Errorf(renderErrorFormat, renderError)
		}
		output = rendered + "\n"
	} else {
		output = application.dependencies.RenderText(report)
	}

	if configuration.OutputPath == "" {
		_, writeError := fmt.Fprint(application.dependencies.Stdout, output)
		return writeError
	}

	if writeError := application.dependencies.WriteOutputFile(configuration.OutputPath, output); writeError != nil {
		return writeError
	}
	fmt.Fprintf(application.dependencies.Stdout, writeSuccessMessageFormat+"\n", configuration.OutputPath)
	return nil
}

func newDefaultReportDependencies() ReportDependencies {
	return ReportDependencies{
		RunAudit:        audit.RunAudit,
		RenderText:      audit.RenderTextReport,
		RenderJSON:      audit.RenderJSONReport,
		WriteOutputFile: defaultWriteOutputFile,
		Stdout:          os.Stdout,
	}
}

func defaultWriteOutputFile(outputPath string, contents string) error {
	file, createError := os.Create(outputPath)
	if createError != nil {
		return fmt.Errorf(createFileErrorFormat, outputPath, createError)
	}
	defer file.Close()

	if _, writeError := file.WriteString(contents); writeError != nil {
		return fmt.Errorf(writeFileErrorFormat, outputPath, writeError)
	}
	return nil
}
