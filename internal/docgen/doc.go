// Package docgen drives per-module documentation generation: a symbol dump
// is extracted with SourceKitten, rendered to HTML with Jazzy into the
// module's documentation directory, and the dump is deleted again.
//
// Modules are independent, so GenerateAll can fan them out over a bounded
// worker pool. The failure policy decides whether the first failure cancels
// the rest (fail_fast) or every module runs and failures are aggregated
// (collect_all).
package docgen
