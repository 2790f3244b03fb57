// Package history records finished conversion runs in SQLite.
//
// Each run stores its identifier, input and output paths, overall status,
// page counts, and the error that ended it, if any. The database is a local
// log for operators rather than pipeline state; a failure to record a run
// never changes its outcome. Schema changes bump schemaVersion and expect the
// database to be deleted.
package history
