package recordfiles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
)

func imagePreviewer() recordfiles.Previewer {
	return recordfiles.NewExtensionPreviewer("png", "jpg", "txt", "pdf")
}

func entries(keys ...string) []recordfiles.FileEntry {
	out := make([]recordfiles.FileEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, recordfiles.FileEntry{Key: k})
	}
	return out
}

func TestSelectPreviewFile(t *testing.T) {
	tests := []struct {
		name           string
		files          []recordfiles.FileEntry
		defaultPreview string
		wantKey        string
		wantFound      bool
	}{
		{
			name:      "first previewable wins without default",
			files:     entries("c.pdf", "a.jpg"),
			wantKey:   "a.jpg",
			wantFound: true,
		},
		{
			name:           "explicit default wins over earlier sorted file",
			files:          entries("b.png", "a.txt"),
			defaultPreview: "b.png",
			wantKey:        "b.png",
			wantFound:      true,
		},
		{
			name:           "default naming a non-previewable file falls back to first match",
			files:          entries("a.jpg", "b.exe"),
			defaultPreview: "b.exe",
			wantKey:        "a.jpg",
			wantFound:      true,
		},
		{
			name:      "no previewable extensions",
			files:     entries("a.exe", "b.bin"),
			wantFound: false,
		},
		{
			name:      "empty input",
			files:     nil,
			wantFound: false,
		},
		{
			name:      "extension matching is case insensitive",
			files:     entries("REPORT.PDF"),
			wantKey:   "REPORT.PDF",
			wantFound: true,
		},
		{
			name:      "key without extension is not previewable",
			files:     entries("README", "a.txt"),
			wantKey:   "a.txt",
			wantFound: true,
		},
		{
			name:      "missing key skipped without aborting the scan",
			files:     append(entries(""), entries("b.png")...),
			wantKey:   "b.png",
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := recordfiles.SelectPreviewFile(imagePreviewer(), tt.files, tt.defaultPreview)

			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantKey, got.Key)
			}
		})
	}
}

func TestSelectPreviewFileDeterministic(t *testing.T) {
	// The same multiset of files must select the same file regardless
	// of input ordering.
	ordered := entries("a.jpg", "b.png", "c.txt")
	reversed := entries("c.txt", "b.png", "a.jpg")

	first, found := recordfiles.SelectPreviewFile(imagePreviewer(), ordered, "b.png")
	require.True(t, found)

	for i := 0; i < 10; i++ {
		got, ok := recordfiles.SelectPreviewFile(imagePreviewer(), reversed, "b.png")
		require.True(t, ok)
		assert.Equal(t, first.Key, got.Key)
	}
}

func TestSelectPreviewFileDoesNotMutateInput(t *testing.T) {
	files := entries("c.txt", "a.jpg")

	_, found := recordfiles.SelectPreviewFile(imagePreviewer(), files, "")

	require.True(t, found)
	assert.Equal(t, "c.txt", files[0].Key)
	assert.Equal(t, "a.jpg", files[1].Key)
}

func TestSelectPreviewFileNilPreviewer(t *testing.T) {
	_, found := recordfiles.SelectPreviewFile(nil, entries("a.jpg"), "")
	assert.False(t, found)
}
