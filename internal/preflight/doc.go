// Package preflight provides readiness checks for the filesystem paths and
// external tools comicwebp depends on.
//
// The CLI "comicwebp doctor" command runs RunAll and renders the results.
// Conversion itself does not gate on these checks; a missing tool surfaces
// as a stage failure during the run instead.
package preflight
