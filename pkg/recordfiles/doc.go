// Package recordfiles presents record metadata and attached binary
// files: it resolves persistent identifiers and filenames to stored
// objects, gates access through an injected permission capability, and
// serves checksum-verified download streams. It also supplies the
// template transforms (preview file selection, identifier links,
// vocabulary labels, UI serialization) the record landing pages use.
//
// The heavy lifting lives with external collaborators injected at
// construction time: permission policy, previewable-extension
// predicate, vocabulary lookup, UI serializer. Implementations of the
// record repository (memory, Postgres) and blob stores (memory,
// filesystem, S3) are provided under subpackages; HTTP handlers live
// under api.
package recordfiles
