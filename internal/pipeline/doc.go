// Package pipeline drives a single archive through detection, extraction,
// conversion, packaging, and workspace cleanup.
//
// Stages run one after another on the calling goroutine. Only an
// unrecognized archive, an unusable workspace, or cancellation stops a run
// early; every other failure is recorded in the stage results and the run
// carries on. Cleanup always runs, and each finished run is handed to the
// configured Recorder.
package pipeline
