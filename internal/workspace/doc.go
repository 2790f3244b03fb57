// Package workspace manages the per-run directories archives are extracted
// into. Each workspace is named after its input archive and guarded by a
// non-blocking flock so two runs on the same archive cannot share it.
package workspace
