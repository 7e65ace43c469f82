package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	reportcmd "github.com/f-audit/faudit/cmd/report"
	"github.com/f-audit/faudit/internal/audit"
)

func stubReport() audit.Report {
	return audit.Report{
		Fans:           []audit.AccountRecord{{Handle: "alice"}},
		NonFollowers:   []audit.AccountRecord{{Handle: "dave"}},
		Mutual:         []audit.AccountRecord{{Handle: "bob"}},
		FollowerCount:  2,
		FollowingCount: 2,
	}
}

func TestReportApplicationWritesTextToStdout(t *testing.T) {
	var stdout bytes.Buffer
	application := reportcmd.NewReportApplicationWithDependencies(reportcmd.ReportDependencies{
		RunAudit: func(string, audit.Schema) (audit.Report, error) {
			return stubReport(), nil
		},
		Stdout: &stdout,
	})

	runErr := application.Run(context.Background(), reportcmd.ReportConfiguration{ArchivePath: "export.zip"})
	if runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}
	for _, snippet := range []string{"@alice", "@dave", "@bob", "Followers: 2 | Following: 2"} {
		if !strings.Contains(stdout.String(), snippet) {
			t.Fatalf("expected stdout to contain %q, got:\n%s", snippet, stdout.String())
		}
	}
}

func TestReportApplicationWritesJSON(t *testing.T) {
	var stdout bytes.Buffer
	application := reportcmd.NewReportApplicationWithDependencies(reportcmd.ReportDependencies{
		RunAudit: func(string, audit.Schema) (audit.Report, error) {
			return stubReport(), nil
		},
		Stdout: &stdout,
	})

	runErr := application.Run(context.Background(), reportcmd.ReportConfiguration{ArchivePath: "export.zip", JSONOutput: true})
	if runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}

	var decoded audit.Report
	if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("decode stdout JSON: %v", err)
	}
	if decoded.FollowerCount != 2 || len(decoded.Fans) != 1 {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
}

func TestReportApplicationWritesOutputFile(t *testing.T) {
	var stdout bytes.Buffer
	writtenFiles := map[string]string{}
	application := reportcmd.NewReportApplicationWithDependencies(reportcmd.ReportDependencies{
		RunAudit: func(string, audit.Schema) (audit.Report, error) {
			return stubReport(), nil
		},
		WriteOutputFile: func(path string, contents string) error {
			writtenFiles[path] = contents
			return nil
		},
		Stdout: &stdout,
	})

	runErr := application.Run(context.Background(), reportcmd.ReportConfiguration{ArchivePath: "export.zip", OutputPath: "report.txt"})
	if runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}
	if !strings.Contains(writtenFiles["report.txt"], "@alice") {
		t.Fatalf("expected report contents written to file, got %v", writtenFiles)
	}
	if !strings.Contains(stdout.String(), "Wrote report.txt") {
		t.Fatalf("expected confirmation message, got:\n%s", stdout.String())
	}
}

func TestReportApplicationPreservesErrorCategory(t *testing.T) {
	application := reportcmd.NewReportApplicationWithDependencies(reportcmd.ReportDependencies{
		RunAudit: func(string, audit.Schema) (audit.Report, error) {
			return audit.Report{}, fmt.Errorf("%w: no followers list", audit.ErrMissingData)
		},
		Stdout: &bytes.Buffer{},
	})

	runErr := application.Run(context.Background(), reportcmd.ReportConfiguration{ArchivePath: "export.zip"})
	if runErr == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(runErr, audit.ErrMissingData) {
		t.Fatalf("expected ErrMissingData category, got %v", runErr)
	}
}
