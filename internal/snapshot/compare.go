package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/f-audit/faudit/internal/audit"
)

const (
	exportDirectoryName    = "export"
	exportFileNameFormat   = "%s_%s_to_%s.txt"
	comparisonHeaderFormat = "Account: %s"
	comparisonRangeFormat  = "Comparing %s -> %s"
	comparisonCountsFormat = "Followers then: %d | Followers now: %d | Net change: %+d"
	gainedSectionHeader    = "Followers gained:"
	lostSectionHeader      = "Followers lost:"
	notFollowedBackHeader  = "Following but not followed back (latest snapshot):"
	nonePlaceholder        = "  None"
)

// Comparison holds the follower-graph changes between two snapshots of one
// account, plus the not-followed-back list of the later snapshot.
type Comparison struct {
	Account string
	From    time.Time
	To      time.Time

	Gained          []audit.AccountRecord
	Lost            []audit.AccountRecord
	NotFollowedBack []audit.AccountRecord

	FollowersThen int
	FollowersNow  int
}

// Compare loads the two dated snapshots of the account and diffs their
// follower sets. The supplied dates may arrive in either order. The two
// archive reads run concurrently.
func Compare(ctx context.Context, dataDir string, account string, dateA time.Time, dateB time.Time, schema audit.Schema) (Comparison, error) {
	earlierDate, laterDate := dateA, dateB
	if laterDate.Before(earlierDate) {
		earlierDate, laterDate = laterDate, earlierDate
	}

	earlierSnapshot, err := FindSnapshot(dataDir, account, earlierDate)
	if err != nil {
		return Comparison{}, err
	}
	laterSnapshot, err := FindSnapshot(dataDir, account, laterDate)
	if err != nil {
		return Comparison{}, err
	}

	var earlierFollowers audit.RelationshipSet
	var laterFollowers audit.RelationshipSet
	var laterFollowing audit.RelationshipSet

	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		var loadErr error
		earlierFollowers, _, loadErr = loadSnapshotSets(earlierSnapshot.Path, schema)
		return loadErr
	})
	group.Go(func() error {
		var loadErr error
		laterFollowers, laterFollowing, loadErr = loadSnapshotSets(laterSnapshot.Path, schema)
		return loadErr
	})
	if waitErr := group.Wait(); waitErr != nil {
		return Comparison{}, waitErr
	}

	return Comparison{
		Account:         account,
		From:            earlierDate,
		To:              laterDate,
		Gained:          subtractSets(laterFollowers.Records, earlierFollowers.Records),
		Lost:            subtractSets(earlierFollowers.Records, laterFollowers.Records),
		NotFollowedBack: subtractSets(laterFollowing.Records, laterFollowers.Records),
		FollowersThen:   len(earlierFollowers.Records),
		FollowersNow:    len(laterFollowers.Records),
	}, nil
}

func loadSnapshotSets(zipPath string, schema audit.Schema) (audit.RelationshipSet, audit.RelationshipSet, error) {
	rawFollowers, rawFollowing, locateErr := audit.ReadExportZip(zipPath, schema)
	if locateErr != nil {
		return audit.RelationshipSet{}, audit.RelationshipSet{}, locateErr
	}
	followers, followersErr := audit.NormalizeRecords(rawFollowers, schema)
	if followersErr != nil {
		return audit.RelationshipSet{}, audit.RelationshipSet{}, followersErr
	}
	following, followingErr := audit.NormalizeRecords(rawFollowing, schema)
	if followingErr != nil {
		return audit.RelationshipSet{}, audit.RelationshipSet{}, followingErr
	}
	return followers, following, nil
}

func subtractSets(minuend map[string]audit.AccountRecord, subtrahend map[string]audit.AccountRecord) []audit.AccountRecord {
	difference := []audit.AccountRecord{}
	for handle, record := range minuend {
		if _, present := subtrahend[handle]; !present {
			difference = append(difference, record)
		}
	}
	sort.Slice(difference, func(firstIndex, secondIndex int) bool {
		return difference[firstIndex].Handle < difference[secondIndex].Handle
	})
	return difference
}

// RenderText formats the comparison as the plain-text summary.
func RenderText(comparison Comparison) string {
	lines := []string{
		fmt.Sprintf(comparisonHeaderFormat, comparison.Account),
		fmt.Sprintf(comparisonRangeFormat, comparison.From.Format(snapshotDateLayout), comparison.To.Format(snapshotDateLayout)),
		fmt.Sprintf(comparisonCountsFormat, comparison.FollowersThen, comparison.FollowersNow, comparison.FollowersNow-comparison.FollowersThen),
	}
	lines = append(lines, "", gainedSectionHeader)
	lines = append(lines, recordLines(comparison.Gained, "  + ")...)
	lines = append(lines, "", lostSectionHeader)
	lines = append(lines, recordLines(comparison.Lost, "  - ")...)
	lines = append(lines, "", notFollowedBackHeader)
	lines = append(lines, recordLines(comparison.NotFollowedBack, "  * ")...)
	return strings.Join(lines, "\n") + "\n"
}

func recordLines(records []audit.AccountRecord, marker string) []string {
	if len(records) == 0 {
		return []string{nonePlaceholder}
	}
	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, marker+record.Handle)
	}
	return lines
}

// ExportText writes the rendered comparison into <dataDir>/export and returns
// the written file path.
func ExportText(dataDir string, comparison Comparison) (string, error) {
	exportDir := filepath.Join(dataDir, exportDirectoryName)
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	fileName := fmt.Sprintf(exportFileNameFormat,
		comparison.Account,
		comparison.From.Format(snapshotDateLayout),
		comparison.To.Format(snapshotDateLayout),
	)
	exportPath := filepath.Join(exportDir, fileName)
	if err := os.WriteFile(exportPath, []byte(RenderText(comparison)), 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return exportPath, nil
}
