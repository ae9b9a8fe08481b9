// Package workspace manages the scratch directory that holds intermediate
// symbol dumps while modules are generated.
//
// Ephemeral mode creates a per-run directory under the system temp dir
// (e.g. documentarian-20251214-122336-1a2b3c4d) and removes it on Cleanup.
//
// Persistent mode uses a configured directory (tools.scratch_dir) that
// survives the run; only the dumps written into it are removed.
package workspace
