// Package generation defines the boundary between the job pipeline and the
// external content provider. The Synthesizer interface and its error
// taxonomy live here; the Gemini-backed implementation is in
// internal/platform/gemini.
package generation
