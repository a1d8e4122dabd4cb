package vcs

import (
	"fmt"
	"sort"
)

// FileChange is one file touched by a commit, with both versions loaded.
type FileChange struct {
	// Path is the path after the change, or the removed path for deletions.
	Path    string
	OldPath string
	Action  Action
	Before  []byte
	After   []byte
}

// Renamed reports whether the file moved.
func (f FileChange) Renamed() bool {
	return f.Action == ActionModify && f.OldPath != "" && f.OldPath != f.Path
}

// ChangedFiles lists the files changed by commit relative to its first
// parent, sorted by path. A root commit is compared with the empty tree.
// Files for which keep returns false are skipped before their contents are
// read; a nil keep retains everything.
func ChangedFiles(commit Commit, keep func(path string) bool) ([]FileChange, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", commit.Hash(), err)
	}

	var parentTree Tree = &gitTree{}
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("reading parent of %s: %w", commit.Hash(), err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, fmt.Errorf("reading tree of %s: %w", parent.Hash(), err)
		}
	}

	changes, err := parentTree.Diff(tree)
	if err != nil {
		return nil, fmt.Errorf("diffing %s: %w", commit.Hash(), err)
	}

	files := make([]FileChange, 0, len(changes))
	for _, c := range changes {
		fc := FileChange{Path: c.ToName(), OldPath: c.FromName()}
		if fc.Path == "" {
			fc.Path = fc.OldPath
		}
		if keep != nil && !keep(fc.Path) {
			continue
		}
		if fc.Action, err = c.Action(); err != nil {
			return nil, fmt.Errorf("classifying %s: %w", fc.Path, err)
		}
		if fc.Before, fc.After, err = c.Contents(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", fc.Path, err)
		}
		files = append(files, fc)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}
