package recordfiles

import (
	"context"
	"html/template"
	"log/slog"
)

// TemplateHooks bundles the collaborators the template transforms need.
// Hooks are pure functions of their inputs plus these collaborators;
// they hold no state of their own and are registered with the host
// rendering engine once, at process startup.
type TemplateHooks struct {
	Service      Service
	Previewer    Previewer
	Vocabularies VocabularyService
	Serializer   UISerializer
	Logger       *slog.Logger
}

// FuncMap returns the named template transforms for registration with
// the host rendering engine. The names match what the record landing
// templates reference.
func (h TemplateHooks) FuncMap() template.FuncMap {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return template.FuncMap{
		"make_files_preview_compatible": func(files map[string]*RecordFile) []map[string]interface{} {
			return PreviewCompatible(NormalizeFiles(files))
		},
		"select_preview_file": func(files []FileEntry, defaultPreview string) *FileEntry {
			entry, ok := SelectPreviewFile(h.Previewer, files, defaultPreview)
			if !ok {
				return nil
			}
			return &entry
		},
		"to_previewer_files": func(record *Record) []FileEntry {
			return h.Service.PreviewFiles(record)
		},
		"can_list_files": func(record *Record) bool {
			return h.Service.CanListFiles(context.Background(), record)
		},
		"pid_url": func(identifier string) string {
			return h.pidURL(logger, identifier, "", "https")
		},
		"pid_url_scheme": func(identifier, scheme, urlScheme string) string {
			return h.pidURL(logger, identifier, Scheme(scheme), urlScheme)
		},
		"doi_identifier": DOIIdentifier,
		"vocabulary_title": func(dict map[string]string, vocabularyKey string) string {
			return h.vocabularyTitle(dict, vocabularyKey)
		},
		"vocabulary_title_alt": func(dictValue, vocabularyKey, altKey string) string {
			return h.vocabularyTitle(map[string]string{altKey: dictValue}, vocabularyKey)
		},
		"serialize_ui": func(record *Record) map[string]interface{} {
			if h.Serializer == nil {
				return map[string]interface{}{}
			}
			serialized, err := h.Serializer.SerializeRecord(record)
			if err != nil {
				logger.Warn("UI serialization failed", "record_id", record.ID, "err", err)
				return map[string]interface{}{}
			}
			return serialized
		},
	}
}

// pidURL converts a persistent identifier into a link. Scheme
// anomalies degrade to an empty string with a logged warning so one
// bad identifier never breaks rendering of the whole page.
func (h TemplateHooks) pidURL(logger *slog.Logger, identifier string, scheme Scheme, urlScheme string) string {
	if scheme == "" {
		detected, ok := DetectScheme(identifier)
		if !ok {
			logger.Warn("URL generation failed: unresolvable identifier scheme", "identifier", identifier)
			return ""
		}
		scheme = detected
	}

	url, err := IdentifierURL(identifier, scheme, urlScheme)
	if err != nil {
		logger.Warn("URL generation failed", "identifier", identifier, "scheme", scheme, "err", err)
		return ""
	}
	return url
}

// vocabularyTitle returns the human-readable label for a vocabulary
// entry, or "" when the vocabulary has no match.
func (h TemplateHooks) vocabularyTitle(dict map[string]string, vocabularyKey string) string {
	if h.Vocabularies == nil {
		return ""
	}
	title, ok := h.Vocabularies.TitleByDict(vocabularyKey, dict)
	if !ok {
		return ""
	}
	return title
}
