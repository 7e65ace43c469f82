package audit

import "errors"

// Fatal error categories surfaced by the pipeline. Callers dispatch on these
// with errors.Is; wrapped messages carry the archive or payload specifics.
var (
	// ErrArchive marks an archive that is missing, unreadable, or corrupt.
	ErrArchive = errors.New("export archive unreadable")

	// ErrMissingData marks an archive that opened cleanly but contained no
	// entry matching a required payload under any known naming variant.
	ErrMissingData = errors.New("export payload not found")

	// ErrNormalization marks a payload whose records produced zero usable
	// identities, signaling a schema mismatch rather than an absent payload.
	ErrNormalization = errors.New("no usable identities in payload")
)
