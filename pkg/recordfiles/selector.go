package recordfiles

import (
	"sort"
	"strings"
)

// SelectPreviewFile picks the file to show in the preview widget.
//
// Candidates are scanned in ascending key order so the outcome does not
// depend on the source mapping's iteration order. The first previewable
// file wins unless defaultPreview names a previewable file, which wins
// unconditionally even when it sorts later. Entries with an empty key
// are treated as not previewable and skipped; they never abort the
// scan. Returns false when no candidate qualifies.
func SelectPreviewFile(previewer Previewer, files []FileEntry, defaultPreview string) (FileEntry, bool) {
	if previewer == nil || len(files) == 0 {
		return FileEntry{}, false
	}

	sorted := make([]FileEntry, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var selected *FileEntry
	for i := range sorted {
		f := &sorted[i]
		if f.Key == "" {
			continue
		}
		if !previewer.IsPreviewable(fileExtension(f.Key)) {
			continue
		}
		if selected == nil {
			selected = f
		} else if f.Key == defaultPreview {
			selected = f
		}
	}

	if selected == nil {
		return FileEntry{}, false
	}
	return *selected, true
}

// fileExtension returns the lowercased substring after the last dot of
// key, or "" when key has no dot.
func fileExtension(key string) string {
	idx := strings.LastIndex(key, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(key[idx+1:])
}
