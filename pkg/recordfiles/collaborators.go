package recordfiles

import (
	"context"
	"encoding/json"
	"fmt"
)

// Default collaborator implementations. Real deployments inject their
// own permission policy, vocabulary service and UI serializer; these
// cover development servers and tests.

// AccessRestricted marks a record whose files require explicit rights.
const AccessRestricted = "restricted"

// RecordAccessPolicy is a PermissionChecker granting file reads on any
// record not marked restricted.
type RecordAccessPolicy struct{}

func (RecordAccessPolicy) CanReadFiles(ctx context.Context, record *Record) bool {
	return record != nil && record.Access != AccessRestricted
}

// StaticVocabulary is a VocabularyService backed by fixed lookup
// tables: vocabulary key -> serialized dict -> title.
type StaticVocabulary map[string]map[string]string

func (v StaticVocabulary) TitleByDict(vocabularyKey string, dict map[string]string) (string, bool) {
	entries, ok := v[vocabularyKey]
	if !ok {
		return "", false
	}
	title, ok := entries[vocabularyDictKey(dict)]
	return title, ok
}

// Set registers a title under the given vocabulary and dict.
func (v StaticVocabulary) Set(vocabularyKey string, dict map[string]string, title string) {
	entries, ok := v[vocabularyKey]
	if !ok {
		entries = make(map[string]string)
		v[vocabularyKey] = entries
	}
	entries[vocabularyDictKey(dict)] = title
}

func vocabularyDictKey(dict map[string]string) string {
	// json.Marshal sorts map keys, giving a canonical form.
	b, err := json.Marshal(dict)
	if err != nil {
		return fmt.Sprintf("%v", dict)
	}
	return string(b)
}

// BasicUISerializer is a UISerializer rendering the record through its
// JSON representation.
type BasicUISerializer struct{}

func (BasicUISerializer) SerializeRecord(record *Record) (map[string]interface{}, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}
	return out, nil
}
