package recordfiles

import "sort"

// NormalizeFiles converts a record's file collection into a uniform,
// key-sorted list of FileEntry values for the previewer and templates.
// No entry is dropped; missing metadata becomes an empty mapping. The
// source collection is never mutated.
func NormalizeFiles(files map[string]*RecordFile) []FileEntry {
	if len(files) == 0 {
		return []FileEntry{}
	}

	entries := make([]FileEntry, 0, len(files))
	for key, f := range files {
		if f == nil {
			continue
		}
		// Copy the metadata so downstream consumers cannot reach back
		// into the record's collection.
		data := make(map[string]interface{}, len(f.Metadata))
		for k, v := range f.Metadata {
			data[k] = v
		}
		entries = append(entries, FileEntry{
			Key:      key,
			Checksum: f.Checksum,
			Size:     f.Size,
			Obj:      f.ObjectVersion,
			Data:     data,
		})
	}

	// Source maps have no stable iteration order.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	return entries
}

// PreviewCompatible renders normalized entries as the plain mappings
// the preview widget consumes.
func PreviewCompatible(entries []FileEntry) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"key":      e.Key,
			"checksum": e.Checksum,
			"size":     e.Size,
			"obj":      e.Obj,
			"data":     e.Data,
		})
	}
	return out
}
