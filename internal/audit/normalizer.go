package audit

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeRecords converts raw payload records into a RelationshipSet keyed
// by normalized handle. Records lacking any recognizable handle are skipped
// and tallied. Duplicate handles collapse deterministically: the record with
// the later timestamp wins, and with absent or equal timestamps the record
// appearing later in file order wins.
func NormalizeRecords(rawRecords []RawRecord, schema Schema) (RelationshipSet, error) {
	relationshipSet := RelationshipSet{Records: map[string]AccountRecord{}}

	for _, rawRecord := range rawRecords {
		candidates := flattenRecord(rawRecord, schema)
		if len(candidates) == 0 {
			relationshipSet.Skipped++
			continue
		}
		for _, candidate := range candidates {
			record, recognized := normalizeCandidate(candidate, schema)
			if !recognized {
				relationshipSet.Skipped++
				continue
			}
			existing, alreadyPresent := relationshipSet.Records[record.Handle]
			if alreadyPresent && record.Timestamp < existing.Timestamp {
				continue
			}
			relationshipSet.Records[record.Handle] = record
		}
	}

	if len(relationshipSet.Records) == 0 && len(rawRecords) > 0 {
		return RelationshipSet{}, fmt.Errorf("%w: %d records, %d skipped", ErrNormalization, len(rawRecords), relationshipSet.Skipped)
	}
	return relationshipSet, nil
}

type rawCandidate struct {
	fields          map[string]any
	fallbackDisplay string
}

// flattenRecord expands a record whose identity lives inside a nested list
// (Instagram's string_list_data shape) into one candidate per inner entry.
// The outer record's display-name field carries over as a fallback. Records
// without a nested list are consumed directly.
func flattenRecord(rawRecord RawRecord, schema Schema) []rawCandidate {
	outerDisplay := firstStringValue(rawRecord, schema.DisplayNameFields)

	for _, nestedKey := range schema.NestedListKeys {
		nestedList, isList := rawRecord[nestedKey].([]any)
		if !isList {
			continue
		}
		candidates := make([]rawCandidate, 0, len(nestedList))
		for _, element := range nestedList {
			if fields, isObject := element.(map[string]any); isObject {
				candidates = append(candidates, rawCandidate{fields: fields, fallbackDisplay: outerDisplay})
			}
		}
		return candidates
	}
	return []rawCandidate{{fields: rawRecord}}
}

func normalizeCandidate(candidate rawCandidate, schema Schema) (AccountRecord, bool) {
	handle := firstStringValue(candidate.fields, schema.HandleFields)
	profileLink := firstStringValue(candidate.fields, schema.LinkFields)
	if handle == "" && profileLink != "" {
		if match := reProfileLinkHandle.FindStringSubmatch(profileLink); len(match) == 2 {
			handle = match[1]
		}
	}
	handle = strings.ToLower(strings.TrimSpace(handle))
	if handle == "" {
		return AccountRecord{}, false
	}

	displayName := firstStringValue(candidate.fields, schema.DisplayNameFields)
	if displayName == "" {
		displayName = candidate.fallbackDisplay
	}
	if strings.ToLower(strings.TrimSpace(displayName)) == handle {
		displayName = ""
	}

	return AccountRecord{
		Handle:      handle,
		DisplayName: strings.TrimSpace(displayName),
		ProfileURL:  profileLink,
		Timestamp:   firstTimestampValue(candidate.fields, schema.TimestampFields),
	}, true
}

func firstStringValue(fields map[string]any, keys []string) string {
	for _, key := range keys {
		if value, exists := fields[key]; exists {
			if text, isString := value.(string); isString && strings.TrimSpace(text) != "" {
				return text
			}
		}
	}
	return ""
}

func firstTimestampValue(fields map[string]any, keys []string) int64 {
	for _, key := range keys {
		value, exists := fields[key]
		if !exists {
			continue
		}
		switch typed := value.(type) {
		case float64:
			return int64(typed)
		case string:
			if parsed, parseErr := strconv.ParseInt(strings.TrimSpace(typed), 10, 64); parseErr == nil {
				return parsed
			}
		}
	}
	return 0
}
