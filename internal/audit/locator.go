package audit

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	followersPayloadLabel = "followers"
	followingPayloadLabel = "following"
)

// ReadExportZip opens the archive at zipPath and returns the raw follower and
// following records. Matching entries are read in archive-listing order and
// concatenated, so paginated payloads (followers_1.json, followers_2.json)
// arrive as a single sequence. Nothing is extracted to disk.
func ReadExportZip(zipPath string, schema Schema) ([]RawRecord, []RawRecord, error) {
	zipReader, openErr := zip.OpenReader(zipPath)
	if openErr != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrArchive, zipPath, openErr)
	}
	defer zipReader.Close()

	var followerRecords []RawRecord
	var followingRecords []RawRecord
	followerEntries := 0
	followingEntries := 0

	for _, file := range zipReader.File {
		lowerBase := strings.ToLower(filepath.Base(file.Name))
		isFollowerEntry := matchesAnyPattern(schema.FollowerEntryPatterns, lowerBase)
		isFollowingEntry := !isFollowerEntry && matchesAnyPattern(schema.FollowingEntryPatterns, lowerBase)
		if !isFollowerEntry && !isFollowingEntry {
			continue
		}

		records, decodeErr := readEntryRecords(file, schema)
		if decodeErr != nil {
			// An entry with a matching name but an undecodable payload does
			// not count as a located payload.
			continue
		}
		if isFollowerEntry {
			followerEntries++
			followerRecords = append(followerRecords, records...)
		} else {
			followingEntries++
			followingRecords = append(followingRecords, records...)
		}
	}

	if followerEntries == 0 {
		return nil, nil, fmt.Errorf("%w: no %s list in %s", ErrMissingData, followersPayloadLabel, zipPath)
	}
	if followingEntries == 0 {
		return nil, nil, fmt.Errorf("%w: no %s list in %s", ErrMissingData, followingPayloadLabel, zipPath)
	}
	return followerRecords, followingRecords, nil
}

func readEntryRecords(file *zip.File, schema Schema) ([]RawRecord, error) {
	reader, openErr := file.Open()
	if openErr != nil {
		return nil, openErr
	}
	data, readErr := io.ReadAll(reader)
	reader.Close()
	if readErr != nil {
		return nil, readErr
	}
	return decodePayload(data, schema)
}

// decodePayload accepts either a bare JSON array of records or an object
// wrapping such an array under one of the schema's wrapper keys.
func decodePayload(data []byte, schema Schema) ([]RawRecord, error) {
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, err
	}
	switch value := document.(type) {
	case []any:
		return toRawRecords(value), nil
	case map[string]any:
		for _, wrapperKey := range schema.WrapperKeys {
			if list, isList := value[wrapperKey].([]any); isList {
				return toRawRecords(list), nil
			}
		}
		return nil, fmt.Errorf("object payload without a known wrapper key")
	default:
		return nil, fmt.Errorf("payload is neither an array nor an object")
	}
}

func toRawRecords(list []any) []RawRecord {
	records := make([]RawRecord, 0, len(list))
	for _, element := range list {
		if object, isObject := element.(map[string]any); isObject {
			records = append(records, RawRecord(object))
		}
	}
	return records
}
