package snapshot_test

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/f-audit/faudit/internal/snapshot"
)

func TestListAccounts(t *testing.T) {
	dataDir := t.TempDir()
	for _, fileName := range []string{
		"instagram-alice-2024-01-05-abc123.zip",
		"instagram-alice-2024-02-05-def456.zip",
		"instagram-two-part-name-2024-01-05-xyz789.zip",
		"instagram-broken.zip",
		"notes.txt",
	} {
		writeEmptyArchive(t, filepath.Join(dataDir, fileName))
	}

	accounts, err := snapshot.ListAccounts(dataDir)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	expectedAccounts := []string{"alice", "two-part-name"}
	if len(accounts) != len(expectedAccounts) {
		t.Fatalf("accounts = %v, want %v", accounts, expectedAccounts)
	}
	for index, account := range accounts {
		if account != expectedAccounts[index] {
			t.Fatalf("accounts[%d] = %s, want %s", index, account, expectedAccounts[index])
		}
	}
}

func TestListSnapshotsSortedByDate(t *testing.T) {
	dataDir := t.TempDir()
	for _, fileName := range []string{
		"instagram-alice-2024-03-01-ccc.zip",
		"instagram-alice-2024-01-01-aaa.zip",
		"instagram-alice-2024-02-01-bbb.zip",
		"instagram-other-2024-01-01-ddd.zip",
	} {
		writeEmptyArchive(t, filepath.Join(dataDir, fileName))
	}

	snapshots, err := snapshot.ListSnapshots(dataDir, "alice")
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("snapshot count = %d, want 3", len(snapshots))
	}
	for index := 1; index < len(snapshots); index++ {
		if snapshots[index].Date.Before(snapshots[index-1].Date) {
			t.Fatalf("snapshots out of order: %v", snapshots)
		}
	}
}

func TestFindSnapshot(t *testing.T) {
	dataDir := t.TempDir()
	writeEmptyArchive(t, filepath.Join(dataDir, "instagram-alice-2024-01-05-abc.zip"))

	found, err := snapshot.FindSnapshot(dataDir, "alice", date(t, "2024-01-05"))
	if err != nil {
		t.Fatalf("FindSnapshot: %v", err)
	}
	if found.Account != "alice" {
		t.Fatalf("unexpected snapshot: %+v", found)
	}

	_, err = snapshot.FindSnapshot(dataDir, "alice", date(t, "2024-01-06"))
	if !errors.Is(err, snapshot.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %s: %v", value, err)
	}
	return parsed
}

func writeEmptyArchive(t *testing.T, path string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive %s: %v", path, err)
	}
	defer file.Close()
	writer := zip.NewWriter(file)
	if err := writer.Close(); err != nil {
		t.Fatalf("close archive writer: %v", err)
	}
}
