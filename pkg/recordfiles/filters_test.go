package recordfiles_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
)

func testHooks(t *testing.T) recordfiles.TemplateHooks {
	t.Helper()
	f := setupTestService(t, recordfiles.RecordAccessPolicy{})
	return recordfiles.TemplateHooks{
		Service:      f.svc,
		Previewer:    imagePreviewer(),
		Vocabularies: recordfiles.StaticVocabulary{},
		Serializer:   recordfiles.BasicUISerializer{},
	}
}

func TestFuncMapRegistersAllHooks(t *testing.T) {
	funcs := testHooks(t).FuncMap()

	for _, name := range []string{
		"make_files_preview_compatible",
		"select_preview_file",
		"to_previewer_files",
		"can_list_files",
		"pid_url",
		"pid_url_scheme",
		"doi_identifier",
		"vocabulary_title",
		"vocabulary_title_alt",
		"serialize_ui",
	} {
		assert.Contains(t, funcs, name)
	}
}

func TestMakeFilesPreviewCompatibleHook(t *testing.T) {
	funcs := testHooks(t).FuncMap()
	fn := funcs["make_files_preview_compatible"].(func(map[string]*recordfiles.RecordFile) []map[string]interface{})

	out := fn(map[string]*recordfiles.RecordFile{
		"b.png": {Key: "b.png", Size: 2},
		"a.txt": {Key: "a.txt", Size: 1},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "a.txt", out[0]["key"])
	assert.Equal(t, "b.png", out[1]["key"])
}

func TestSelectPreviewFileHook(t *testing.T) {
	funcs := testHooks(t).FuncMap()
	fn := funcs["select_preview_file"].(func([]recordfiles.FileEntry, string) *recordfiles.FileEntry)

	entry := fn([]recordfiles.FileEntry{{Key: "c.pdf"}, {Key: "a.jpg"}}, "")
	require.NotNil(t, entry)
	assert.Equal(t, "a.jpg", entry.Key)

	assert.Nil(t, fn(nil, ""))
	assert.Nil(t, fn([]recordfiles.FileEntry{{Key: "archive.zip"}}, ""))
}

func TestCanListFilesHook(t *testing.T) {
	funcs := testHooks(t).FuncMap()
	fn := funcs["can_list_files"].(func(*recordfiles.Record) bool)

	assert.True(t, fn(&recordfiles.Record{ID: uuid.New()}))
	assert.False(t, fn(&recordfiles.Record{ID: uuid.New(), Access: recordfiles.AccessRestricted}))
}

func TestPidURLHook(t *testing.T) {
	funcs := testHooks(t).FuncMap()
	fn := funcs["pid_url"].(func(string) string)

	tests := []struct {
		name       string
		identifier string
		want       string
	}{
		{name: "doi", identifier: "10.5281/zenodo.1234567", want: "https://doi.org/10.5281/zenodo.1234567"},
		{name: "orcid", identifier: "0000-0002-1825-0097", want: "https://orcid.org/0000-0002-1825-0097"},
		{name: "plain url", identifier: "https://example.org/x", want: "https://example.org/x"},
		{name: "unresolvable degrades to empty", identifier: "gibberish!!", want: ""},
		{name: "empty identifier degrades to empty", identifier: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fn(tt.identifier))
		})
	}
}

func TestPidURLSchemeHook(t *testing.T) {
	funcs := testHooks(t).FuncMap()
	fn := funcs["pid_url_scheme"].(func(string, string, string) string)

	assert.Equal(t, "http://doi.org/10.1000/xyz", fn("10.1000/xyz", "doi", "http"))
	// Explicit scheme skips detection.
	assert.Equal(t, "https://hdl.handle.net/custom-id", fn("custom-id", "handle", ""))
	// Unknown explicit scheme still degrades to empty.
	assert.Equal(t, "", fn("10.1000/xyz", "isbn", ""))
}

func TestVocabularyTitleHooks(t *testing.T) {
	hooks := testHooks(t)
	vocab := hooks.Vocabularies.(recordfiles.StaticVocabulary)
	vocab.Set("resourcetypes", map[string]string{"id": "dataset"}, "Dataset")

	funcs := hooks.FuncMap()
	title := funcs["vocabulary_title"].(func(map[string]string, string) string)
	titleAlt := funcs["vocabulary_title_alt"].(func(string, string, string) string)

	assert.Equal(t, "Dataset", title(map[string]string{"id": "dataset"}, "resourcetypes"))
	assert.Equal(t, "", title(map[string]string{"id": "unknown"}, "resourcetypes"))
	assert.Equal(t, "", title(map[string]string{"id": "dataset"}, "licenses"))

	assert.Equal(t, "Dataset", titleAlt("dataset", "resourcetypes", "id"))
	assert.Equal(t, "", titleAlt("dataset", "resourcetypes", "slug"))
}

func TestSerializeUIHook(t *testing.T) {
	funcs := testHooks(t).FuncMap()
	fn := funcs["serialize_ui"].(func(*recordfiles.Record) map[string]interface{})

	record := &recordfiles.Record{
		ID:     uuid.New(),
		Access: "public",
		Metadata: map[string]interface{}{
			"title": "An example record",
		},
	}
	out := fn(record)
	assert.Equal(t, record.ID.String(), out["id"])
	assert.Equal(t, "public", out["access"])
	meta, ok := out["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "An example record", meta["title"])
}

func TestDOIIdentifierHook(t *testing.T) {
	funcs := testHooks(t).FuncMap()
	fn := funcs["doi_identifier"].(func(map[string]string) string)
	assert.Equal(t, "10.5281/zenodo.1", fn(map[string]string{"doi": "10.5281/zenodo.1"}))
	assert.Equal(t, "", fn(map[string]string{}))
}
