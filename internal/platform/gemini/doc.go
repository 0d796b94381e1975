// Package gemini implements generation.Synthesizer against Google's Gemini
// API. It is a stateless request/response adapter: prompt assembly, schema
// enforcement, and response validation live here; retry policy belongs to
// the job state machine.
package gemini
