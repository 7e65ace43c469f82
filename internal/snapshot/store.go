// Package snapshot discovers dated export archives in a user-managed data
// directory and compares the follower graph between two snapshot dates.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	archivePrefix      = "instagram-"
	archiveExtension   = ".zip"
	snapshotDateLayout = "2006-01-02"

	// instagram-<account>-YYYY-MM-DD-<suffix>.zip splits into at least six
	// hyphenated parts: prefix, account (possibly hyphenated), three date
	// parts, and the export suffix.
	minimumArchiveNameParts = 6
)

// ErrSnapshotNotFound marks a requested account/date pair with no archive.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is one dated export archive belonging to an account.
type Snapshot struct {
	Account string
	Date    time.Time
	Path    string
}

// ListAccounts returns the distinct account names found among well-formed
// archive names in the data directory, sorted ascending.
func ListAccounts(dataDir string) ([]string, error) {
	snapshots, err := scanDirectory(dataDir)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	accounts := []string{}
	for _, snapshot := range snapshots {
		if !seen[snapshot.Account] {
			seen[snapshot.Account] = true
			accounts = append(accounts, snapshot.Account)
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}

// ListSnapshots returns the account's snapshots sorted by date ascending.
func ListSnapshots(dataDir string, account string) ([]Snapshot, error) {
	allSnapshots, err := scanDirectory(dataDir)
	if err != nil {
		return nil, err
	}
	snapshots := []Snapshot{}
	for _, snapshot := range allSnapshots {
		if snapshot.Account == account {
			snapshots = append(snapshots, snapshot)
		}
	}
	sort.Slice(snapshots, func(firstIndex, secondIndex int) bool {
		return snapshots[firstIndex].Date.Before(snapshots[secondIndex].Date)
	})
	return snapshots, nil
}

// FindSnapshot locates the account's snapshot for an exact date.
func FindSnapshot(dataDir string, account string, date time.Time) (Snapshot, error) {
	snapshots, err := ListSnapshots(dataDir, account)
	if err != nil {
		return Snapshot{}, err
	}
	for _, snapshot := range snapshots {
		if snapshot.Date.Equal(date) {
			return snapshot, nil
		}
	}
	return Snapshot{}, fmt.Errorf("%w: %s on %s", ErrSnapshotNotFound, account, date.Format(snapshotDateLayout))
}

func scanDirectory(dataDir string) ([]Snapshot, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", dataDir, err)
	}
	snapshots := []Snapshot{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		snapshot, wellFormed := parseArchiveName(entry.Name())
		if !wellFormed {
			continue
		}
		snapshot.Path = filepath.Join(dataDir, entry.Name())
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// parseArchiveName extracts the account and date from an archive file name.
// The account may itself contain hyphens, so the date is anchored to the
// fixed-width tail of the name.
func parseArchiveName(fileName string) (Snapshot, bool) {
	lowerName := strings.ToLower(fileName)
	if !strings.HasPrefix(lowerName, archivePrefix) || !strings.HasSuffix(lowerName, archiveExtension) {
		return Snapshot{}, false
	}
	stem := fileName[:len(fileName)-len(archiveExtension)]
	parts := strings.Split(stem, "-")
	if len(parts) < minimumArchiveNameParts {
		return Snapshot{}, false
	}
	account := strings.Join(parts[1:len(parts)-4], "-")
	if account == "" {
		return Snapshot{}, false
	}
	dateText := strings.Join(parts[len(parts)-4:len(parts)-1], "-")
	date, parseErr := time.Parse(snapshotDateLayout, dateText)
	if parseErr != nil {
		return Snapshot{}, false
	}
	return Snapshot{Account: account, Date: date}, true
}
