package audit

import (
	"fmt"
	"strings"
)

// resolveIdentityLabel returns a display label built from the display name and
// handle, falling back to whichever is present.
func resolveIdentityLabel(record AccountRecord) string {
	trimmedDisplayName := strings.TrimSpace(record.DisplayName)
	trimmedHandle := strings.TrimSpace(record.Handle)
	switch {
	case trimmedDisplayName != "" && trimmedHandle != "":
		return fmt.Sprintf(displayHandleFormat, trimmedDisplayName, accountHandlePrefix, trimmedHandle)
	case trimmedDisplayName != "":
		return trimmedDisplayName
	case trimmedHandle != "":
		return accountHandlePrefix + trimmedHandle
	default:
		return unknownLabelText
	}
}

// resolveHandleLabel formats a handle with the @ prefix when present.
func resolveHandleLabel(record AccountRecord) string {
	trimmedHandle := strings.TrimSpace(record.Handle)
	if trimmedHandle == "" {
		return ""
	}
	return accountHandlePrefix + trimmedHandle
}

// resolveProfileURL prefers the link recorded in the export and falls back to
// the canonical profile URL for the handle.
func resolveProfileURL(record AccountRecord) string {
	if strings.TrimSpace(record.ProfileURL) != "" {
		return record.ProfileURL
	}
	trimmedHandle := strings.TrimSpace(record.Handle)
	if trimmedHandle == "" {
		return ""
	}
	return instagramProfileBaseURL + trimmedHandle
}
