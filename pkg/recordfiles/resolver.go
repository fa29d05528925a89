package recordfiles

// DefaultRecordFileFactory returns the factory used when the caller
// does not supply one. For an explicit filename it is a direct lookup
// in the record's file collection. For an empty filename it falls back
// to the preview selection rule, honoring the record's default preview
// key, so that a bare download URL serves the same file the preview
// widget shows.
func DefaultRecordFileFactory(previewer Previewer) RecordFileFactory {
	return func(pid PID, record *Record, filename string) (*RecordFile, bool) {
		if record == nil || len(record.Files) == 0 {
			return nil, false
		}

		if filename != "" {
			f, ok := record.Files[filename]
			if !ok || f == nil {
				return nil, false
			}
			return f, true
		}

		entry, ok := SelectPreviewFile(previewer, NormalizeFiles(record.Files), record.DefaultPreview)
		if !ok {
			return nil, false
		}
		f, ok := record.Files[entry.Key]
		if !ok || f == nil {
			return nil, false
		}
		return f, true
	}
}

// resolveFile turns a (pid, record, filename) triple into a
// ResolvedFile via factory, or ErrFileNotFound when the factory
// signals absence.
func resolveFile(factory RecordFileFactory, pid PID, record *Record, filename string) (*ResolvedFile, error) {
	f, ok := factory(pid, record, filename)
	if !ok {
		return nil, &DownloadError{PID: pid, Filename: filename, Op: "resolve", Err: ErrFileNotFound}
	}
	return &ResolvedFile{
		Entry:    f,
		Record:   record,
		PID:      pid,
		BucketID: f.ObjectVersion.BucketID,
	}, nil
}
