package audit

import (
	"fmt"
	"sort"
)

// BuildReport derives the fans, non-followers, and mutual sets from the two
// relationship sets. Membership is decided by normalized handle alone; for
// mutual accounts the follower-side metadata is the one carried into the
// report. Each derived list is sorted by handle for reproducible output.
func BuildReport(followers RelationshipSet, following RelationshipSet) Report {
	fans := map[string]AccountRecord{}
	nonFollowers := map[string]AccountRecord{}
	mutual := map[string]AccountRecord{}

	for handle, record := range followers.Records {
		if _, followsBack := following.Records[handle]; followsBack {
			mutual[handle] = record
		} else {
			fans[handle] = record
		}
	}
	for handle, record := range following.Records {
		if _, followedBy := followers.Records[handle]; !followedBy {
			nonFollowers[handle] = record
		}
	}

	return Report{
		Fans:             toSortedRecords(fans),
		NonFollowers:     toSortedRecords(nonFollowers),
		Mutual:           toSortedRecords(mutual),
		FollowerCount:    len(followers.Records),
		FollowingCount:   len(following.Records),
		SkippedFollowers: followers.Skipped,
		SkippedFollowing: following.Skipped,
	}
}

func toSortedRecords(recordsByHandle map[string]AccountRecord) []AccountRecord {
	sortedRecords := make([]AccountRecord, 0, len(recordsByHandle))
	for _, record := range recordsByHandle {
		sortedRecords = append(sortedRecords, record)
	}
	sort.Slice(sortedRecords, func(firstIndex, secondIndex int) bool {
		return sortedRecords[firstIndex].Handle < sortedRecords[secondIndex].Handle
	})
	return sortedRecords
}

// RunAudit executes the full pipeline over one archive: locate the payloads,
// normalize both lists, and reconcile them into a report.
func RunAudit(zipPath string, schema Schema) (Report, error) {
	rawFollowers, rawFollowing, locateErr := ReadExportZip(zipPath, schema)
	if locateErr != nil {
		return Report{}, locateErr
	}
	followers, followersErr := NormalizeRecords(rawFollowers, schema)
	if followersErr != nil {
		return Report{}, fmt.Errorf("%s list: %w", followersPayloadLabel, followersErr)
	}
	following, followingErr := NormalizeRecords(rawFollowing, schema)
	if followingErr != nil {
		return Report{}, fmt.Errorf("%s list: %w", followingPayloadLabel, followingErr)
	}
	return BuildReport(followers, following), nil
}
