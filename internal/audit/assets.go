package audit

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed web/static/* web/templates/*
var embeddedFS embed.FS

const (
	templateBaseName        = "base"
	templateReportFile      = "web/templates/report.tmpl"
	templateReportName      = "report.tmpl"
	embeddedBaseCSSPath     = "web/static/base.css"
	instagramProfileBaseURL = "https://www.instagram.com/"
	accountHandlePrefix     = "@"
	displayHandleFormat     = "%s (%s%s)"
	pageTitleText           = "Follower Audit"
	unknownLabelText        = "Unknown"
	embedReadErrorFormat    = "embed read %s: %w"
)

func embeddedText(path string) (string, error) {
	content, err := fs.ReadFile(embeddedFS, path)
	if err != nil {
		return "", fmt.Errorf(embedReadErrorFormat, path, err)
	}
	return string(content), nil
}

// StaticAssets exposes the embedded static asset filesystem.
func StaticAssets() (fs.FS, error) {
	return fs.Sub(embeddedFS, "web/static")
}

func parseTemplates(fileSystem fs.FS, files ...string) (*template.Template, error) {
	templateWithFuncs := template.New(templateBaseName).Funcs(template.FuncMap{
		"label":      resolveIdentityLabel,
		"handle":     resolveHandleLabel,
		"profileURL": resolveProfileURL,
	})
	parsedTemplate, err := templateWithFuncs.ParseFS(fileSystem, files...)
	if err != nil {
		return nil, err
	}
	return parsedTemplate, nil
}
