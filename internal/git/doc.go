// Package git wraps the go-git operations the pipeline needs: clone-or-pull
// of a working copy, committing every change in the worktree, and pushing a
// single branch. No git binary is required.
package git
