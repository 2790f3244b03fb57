// Package main hosts the comicwebp CLI entrypoint and command graph.
//
// Invoked with four or more positional arguments, the root command follows
// the post-processing hook convention of comic library managers and converts
// the archive named by the fourth argument. The convert subcommand does the
// same for an explicit path. Remaining commands cover configuration
// scaffolding, environment checks, and run history.
package main
