package audit

// RawRecord is one undecoded entry from a followers or following payload.
type RawRecord map[string]any

// AccountRecord is the canonical identity for a single account. Handle is the
// normalized comparison key; the remaining fields are presentation metadata.
type AccountRecord struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	ProfileURL  string `json:"profile_url,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"`
}

// RelationshipSet holds the identities of one list keyed by normalized handle,
// along with the number of raw records that could not be normalized.
type RelationshipSet struct {
	Records map[string]AccountRecord
	Skipped int
}

// Report contains the derived relationship sets for one export archive.
type Report struct {
	Fans         []AccountRecord `json:"fans"`
	NonFollowers []AccountRecord `json:"non_followers"`
	Mutual       []AccountRecord `json:"mutual"`

	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`

	SkippedFollowers int `json:"skipped_followers,omitempty"`
	SkippedFollowing int `json:"skipped_following,omitempty"`
}

// UploadSummary describes an archive received by the viewer for auditing.
type UploadSummary struct {
	FileName string
}
