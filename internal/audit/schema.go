package audit

import "regexp"

const (
	defaultFollowerEntryPattern  = `^followers(_\d+)?\.json$`
	defaultFollowingEntryPattern = `^following(_\d+)?\.json$`
	profileLinkHandlePattern     = `instagram\.com/([A-Za-z0-9_.]+)`
)

var reProfileLinkHandle = regexp.MustCompile(profileLinkHandlePattern)

// Schema enumerates every export-format assumption the pipeline makes: which
// archive entries carry each payload, how object-wrapped payloads unwrap, and
// which record fields map onto each logical identity field. Callers may
// override any part to track export-format drift without code changes.
type Schema struct {
	// FollowerEntryPatterns and FollowingEntryPatterns are matched, in order,
	// against the lowercased base name of each archive entry at any depth.
	FollowerEntryPatterns  []*regexp.Regexp
	FollowingEntryPatterns []*regexp.Regexp

	// WrapperKeys are tried in order when a payload document is a JSON object
	// rather than a bare array.
	WrapperKeys []string

	// NestedListKeys name per-record arrays whose elements carry the actual
	// identity fields (the outer record contributes only a display name).
	NestedListKeys []string

	// Field synonyms per logical field, tried in priority order.
	HandleFields      []string
	DisplayNameFields []string
	LinkFields        []string
	TimestampFields   []string
}

// DefaultSchema returns the field and entry-name variants observed across
// Instagram export format versions.
func DefaultSchema() Schema {
	return Schema{
		FollowerEntryPatterns:  []*regexp.Regexp{regexp.MustCompile(defaultFollowerEntryPattern)},
		FollowingEntryPatterns: []*regexp.Regexp{regexp.MustCompile(defaultFollowingEntryPattern)},
		WrapperKeys: []string{
			"relationships_followers",
			"relationships_following",
			"followers",
			"following",
		},
		NestedListKeys:    []string{"string_list_data"},
		HandleFields:      []string{"value", "username", "handle", "title"},
		DisplayNameFields: []string{"title", "name", "full_name"},
		LinkFields:        []string{"href", "url"},
		TimestampFields:   []string{"timestamp"},
	}
}

func matchesAnyPattern(patterns []*regexp.Regexp, name string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}
