// Package vcs reads file versions out of git history.
package vcs

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository provides access to git repository operations.
type Repository interface {
	// Head returns a reference to the HEAD commit.
	Head() (Reference, error)
	// ResolveRevision resolves a revision expression such as HEAD~1, a
	// branch name or an abbreviated hash to a commit.
	ResolveRevision(rev string) (Commit, error)
	// CommitObject returns the commit with the given hash.
	CommitObject(hash plumbing.Hash) (Commit, error)
	// RepoPath returns the root path of the repository.
	RepoPath() string
}

// Reference represents a git reference (branch, tag, HEAD).
type Reference interface {
	Hash() plumbing.Hash
}

// Commit represents a git commit.
type Commit interface {
	Hash() plumbing.Hash
	NumParents() int
	Parent(n int) (Commit, error)
	Tree() (Tree, error)
	Author() object.Signature
	Message() string
}

// TreeEntry represents a file in a git tree.
type TreeEntry struct {
	Path string
	Size int64
}

// Tree represents a git tree object. The zero tree of a root commit's
// missing parent is empty.
type Tree interface {
	// Diff computes the changes from this tree to another.
	Diff(to Tree) (Changes, error)
	// Entries returns all files in the tree, recursively.
	Entries() ([]TreeEntry, error)
	// File returns the contents of the file at path.
	File(path string) ([]byte, error)
}

// Changes represents a collection of file changes between trees.
type Changes []Change

// Action is the kind of a file change.
type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
	ActionModify Action = "modify"
)

// Change represents a single file change.
type Change interface {
	// FromName returns the source path, empty for added files.
	FromName() string
	// ToName returns the destination path, empty for deleted files.
	ToName() string
	// Action classifies the change.
	Action() (Action, error)
	// Contents returns both versions of the file. A missing side is nil.
	Contents() (before, after []byte, err error)
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpen opens an existing git repository.
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
