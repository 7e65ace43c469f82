package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

const (
	textNonePlaceholder       = "  None"
	textFanMarker             = "  + "
	textNonFollowerMarker     = "  * "
	textMutualMarker          = "  = "
	textCountsLineFormat      = "Followers: %d | Following: %d | Mutual: %d"
	textSkippedLineFormat     = "Skipped records: %d followers, %d following"
	textFansHeader            = "Fans (follow you, not followed back):"
	textNonFollowersHeader    = "Not following back (you follow them):"
	textMutualHeader          = "Mutual:"
	reportMarshalErrorFormat  = "marshal report: %w"
	templateParseErrorFormat  = "template parse: %w"
	templateRenderErrorFormat = "template execute: %w"
)

// ReportPageData captures the state needed to render the viewer page.
type ReportPageData struct {
	Report *Report
	Upload *UploadSummary
	Errors []string
}

// RenderTextReport formats the report as the plain-text summary written to
// stdout or an export file.
func RenderTextReport(report Report) string {
	var lines []string
	lines = append(lines, fmt.Sprintf(textCountsLineFormat, report.FollowerCount, report.FollowingCount, len(report.Mutual)))
	if report.SkippedFollowers > 0 || report.SkippedFollowing > 0 {
		lines = append(lines, fmt.Sprintf(textSkippedLineFormat, report.SkippedFollowers, report.SkippedFollowing))
	}

	lines = append(lines, "", textFansHeader)
	lines = append(lines, recordLines(report.Fans, textFanMarker)...)
	lines = append(lines, "", textNonFollowersHeader)
	lines = append(lines, recordLines(report.NonFollowers, textNonFollowerMarker)...)
	lines = append(lines, "", textMutualHeader)
	lines = append(lines, recordLines(report.Mutual, textMutualMarker)...)

	return strings.Join(lines, "\n") + "\n"
}

func recordLines(records []AccountRecord, marker string) []string {
	if len(records) == 0 {
		return []string{textNonePlaceholder}
	}
	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, marker+resolveIdentityLabel(record))
	}
	return lines
}

// RenderJSONReport serializes the report for machine consumers.
func RenderJSONReport(report Report) (string, error) {
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf(reportMarshalErrorFormat, err)
	}
	return string(encoded), nil
}

// RenderReportPage assembles the viewer HTML from the embedded template and
// stylesheet.
func RenderReportPage(pageData ReportPageData) (string, error) {
	cssText, err := embeddedText(embeddedBaseCSSPath)
	if err != nil {
		return "", err
	}
	viewModel := newReportPageViewModel(pageData, cssText)
	tmpl, err := parseTemplates(embeddedFS, templateReportFile)
	if err != nil {
		return "", fmt.Errorf(templateParseErrorFormat, err)
	}
	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, templateReportName, viewModel); err != nil {
		return "", fmt.Errorf(templateRenderErrorFormat, err)
	}
	return buffer.String(), nil
}

type reportPageViewModel struct {
	Title     string
	HasReport bool

	UploadFileName string
	Errors         []string

	Counts struct {
		Followers    int
		Following    int
		Fans         int
		NonFollowers int
		Mutual       int
		Skipped      int
	}

	Fans         []AccountRecord
	NonFollowers []AccountRecord
	Mutual       []AccountRecord

	CSS template.CSS
}

func newReportPageViewModel(pageData ReportPageData, cssText string) reportPageViewModel {
	viewModel := reportPageViewModel{
		Title: pageTitleText,
		CSS:   template.CSS(cssText),
	}
	if len(pageData.Errors) > 0 {
		viewModel.Errors = append(viewModel.Errors, pageData.Errors...)
	}
	if pageData.Upload != nil {
		viewModel.UploadFileName = pageData.Upload.FileName
	}
	if pageData.Report == nil {
		return viewModel
	}

	report := *pageData.Report
	viewModel.HasReport = true
	viewModel.Fans = report.Fans
	viewModel.NonFollowers = report.NonFollowers
	viewModel.Mutual = report.Mutual
	viewModel.Counts.Followers = report.FollowerCount
	viewModel.Counts.Following = report.FollowingCount
	viewModel.Counts.Fans = len(report.Fans)
	viewModel.Counts.NonFollowers = len(report.NonFollowers)
	viewModel.Counts.Mutual = len(report.Mutual)
	viewModel.Counts.Skipped = report.SkippedFollowers + report.SkippedFollowing
	return viewModel
}
