package audit_test

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/f-audit/faudit/internal/audit"
)

const (
	followersEntryPath = "connections/followers_and_following/followers_1.json"
	followingEntryPath = "connections/followers_and_following/following.json"
)

func TestReadExportZip(t *testing.T) {
	testCases := []struct {
		name                     string
		files                    map[string]string
		expectedError            error
		expectedFollowerRecords  int
		expectedFollowingRecords int
	}{
		{
			name: "nested payloads",
			files: map[string]string{
				followersEntryPath: `[{"string_list_data":[{"value":"alice","timestamp":1}]}]`,
				followingEntryPath: `{"relationships_following":[{"title":"bob","string_list_data":[{"value":"bob","timestamp":2}]}]}`,
			},
			expectedFollowerRecords:  1,
			expectedFollowingRecords: 1,
		},
		{
			name: "paginated followers concatenated in listing order",
			files: map[string]string{
				"followers_1.json": `[{"string_list_data":[{"value":"alice"}]}]`,
				"followers_2.json": `[{"string_list_data":[{"value":"bob"}]}]`,
				"following.json":   `{"relationships_following":[]}`,
			},
			expectedFollowerRecords:  2,
			expectedFollowingRecords: 0,
		},
		{
			name: "flat payloads at archive root",
			files: map[string]string{
				"followers.json": `[{"username":"alice"}]`,
				"following.json": `[{"username":"dave"}]`,
			},
			expectedFollowerRecords:  1,
			expectedFollowingRecords: 1,
		},
		{
			name: "missing followers list",
			files: map[string]string{
				followingEntryPath: `{"relationships_following":[{"string_list_data":[{"value":"dave"}]}]}`,
			},
			expectedError: audit.ErrMissingData,
		},
		{
			name: "missing following list",
			files: map[string]string{
				followersEntryPath: `[{"string_list_data":[{"value":"alice"}]}]`,
			},
			expectedError: audit.ErrMissingData,
		},
		{
			name: "matching entry with undecodable payload does not count",
			files: map[string]string{
				followersEntryPath: `this is not JSON`,
				followingEntryPath: `[{"username":"dave"}]`,
			},
			expectedError: audit.ErrMissingData,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			archivePath := createArchive(t, testCase.files)

			followerRecords, followingRecords, err := audit.ReadExportZip(archivePath, audit.DefaultSchema())
			if testCase.expectedError != nil {
				if !errors.Is(err, testCase.expectedError) {
					t.Fatalf("expected %v, got %v", testCase.expectedError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ReadExportZip returned error: %v", err)
			}
			if len(followerRecords) != testCase.expectedFollowerRecords {
				t.Fatalf("follower records = %d, want %d", len(followerRecords), testCase.expectedFollowerRecords)
			}
			if len(followingRecords) != testCase.expectedFollowingRecords {
				t.Fatalf("following records = %d, want %d", len(followingRecords), testCase.expectedFollowingRecords)
			}
		})
	}
}

func TestReadExportZipRejectsNonArchive(t *testing.T) {
	tempDir := t.TempDir()
	notAZipPath := filepath.Join(tempDir, "not-a-zip.zip")
	if err := os.WriteFile(notAZipPath, []byte("arbitrary bytes, not a zip"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, _, err := audit.ReadExportZip(notAZipPath, audit.DefaultSchema())
	if !errors.Is(err, audit.ErrArchive) {
		t.Fatalf("expected ErrArchive, got %v", err)
	}
}

func TestReadExportZipRejectsMissingFile(t *testing.T) {
	_, _, err := audit.ReadExportZip(filepath.Join(t.TempDir(), "absent.zip"), audit.DefaultSchema())
	if !errors.Is(err, audit.ErrArchive) {
		t.Fatalf("expected ErrArchive, got %v", err)
	}
}

func createArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "archive.zip")

	file, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create temp archive: %v", err)
	}
	defer file.Close()

	writer := zip.NewWriter(file)
	for name, content := range files {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatalf("create archive entry: %v", err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("write archive entry: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close archive writer: %v", err)
	}
	return archivePath
}
