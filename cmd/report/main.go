package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/f-audit/faudit/internal/audit"
)

const (
	flagZipName               = "zip"
	flagZipDescription        = "Path to the export archive zip"
	flagOutName               = "out"
	flagOutDescription        = "Output file path (default: stdout)"
	flagJSONName              = "json"
	flagJSONDescription       = "Emit the report as JSON"
	missingZipErrorMessage    = "error: --zip is required"
	auditErrorFormat          = "audit %s: %w"
	renderErrorFormat         = "render: %v"
	createFileErrorFormat     = "create %s: %v"
	writeFileErrorFormat      = "write %s: %v"
	writeSuccessMessageFormat = "Wrote %s"

	stageArchiveMessage       = "the archive could not be read; check the path and file integrity"
	stageMissingDataMessage   = "the archive holds no recognizable followers/following lists; request a fresh export"
	stageNormalizationMessage = "a located list yielded no usable accounts; the export format may have changed"
)

func main() {
	var zipPath string
	var outputPath string
	var jsonOutput bool

	flag.StringVar(&zipPath, flagZipName, "", flagZipDescription)
	flag.StringVar(&outputPath, flagOutName, "", flagOutDescription)
	flag.BoolVar(&jsonOutput, flagJSONName, false, flagJSONDescription)
	flag.Parse()

	if zipPath == "" {
		fmt.Fprintln(os.Stderr, missingZipErrorMessage)
		os.Exit(2)
	}

	application := NewReportApplication()
	runError := application.Run(context.Background(), ReportConfiguration{
		ArchivePath: zipPath,
		OutputPath:  outputPath,
		JSONOutput:  jsonOutput,
	})
	if runError != nil {
		fmt.Fprintln(os.Stderr, runError)
		if guidance := stageGuidance(runError); guidance != "" {
			fmt.Fprintln(os.Stderr, guidance)
		}
		os.Exit(1)
	}
}

func stageGuidance(runError error) string {
	switch {
	case errors.Is(runError, audit.ErrArchive):
		return stageArchiveMessage
	case errors.Is(runError, audit.ErrMissingData):
		return stageMissingDataMessage
	case errors.Is(runError, audit.ErrNormalization):
		return stageNormalizationMessage
	default:
		return ""
	}
}
