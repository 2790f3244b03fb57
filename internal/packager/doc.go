// Package packager bundles converted pages and metadata from a workspace into
// the output zip archive.
//
// The archive itself is written by an external 7z process. After a
// successful run the produced file is opened and its entry names are listed
// so callers can report what was packaged.
package packager
