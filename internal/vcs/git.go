package vcs

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// ErrInvalidType is returned when a type assertion fails for vcs types.
var ErrInvalidType = errors.New("invalid type")

// ErrRevisionNotFound is returned when a revision does not resolve.
var ErrRevisionNotFound = errors.New("revision not found")

// GitOpener opens git repositories using go-git.
type GitOpener struct{}

// NewGitOpener creates a new GitOpener.
func NewGitOpener() *GitOpener {
	return &GitOpener{}
}

// PlainOpen opens an existing git repository.
func (o *GitOpener) PlainOpen(path string) (Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, err
	}
	return &gitRepository{repo: repo, path: path}, nil
}

// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
func (o *GitOpener) PlainOpenWithDetect(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, err
	}
	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &gitRepository{repo: repo, path: root}, nil
}

type gitRepository struct {
	repo *git.Repository
	path string
}

func (r *gitRepository) Head() (Reference, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, err
	}
	return &gitReference{ref: ref}, nil
}

func (r *gitRepository) ResolveRevision(rev string) (Commit, error) {
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRevisionNotFound, rev, err)
	}
	return r.CommitObject(*hash)
}

func (r *gitRepository) CommitObject(hash plumbing.Hash) (Commit, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	return &gitCommit{commit: commit}, nil
}

func (r *gitRepository) RepoPath() string {
	return r.path
}

type gitReference struct {
	ref *plumbing.Reference
}

func (r *gitReference) Hash() plumbing.Hash {
	return r.ref.Hash()
}

type gitCommit struct {
	commit *object.Commit
}

func (c *gitCommit) Hash() plumbing.Hash {
	return c.commit.Hash
}

func (c *gitCommit) NumParents() int {
	return c.commit.NumParents()
}

func (c *gitCommit) Parent(n int) (Commit, error) {
	parent, err := c.commit.Parent(n)
	if err != nil {
		return nil, err
	}
	return &gitCommit{commit: parent}, nil
}

func (c *gitCommit) Tree() (Tree, error) {
	tree, err := c.commit.Tree()
	if err != nil {
		return nil, err
	}
	return &gitTree{tree: tree}, nil
}

func (c *gitCommit) Author() object.Signature {
	return c.commit.Author
}

func (c *gitCommit) Message() string {
	return c.commit.Message
}

// gitTree wraps go-git Tree. A nil tree is the empty tree.
type gitTree struct {
	tree *object.Tree
}

func (t *gitTree) Diff(to Tree) (Changes, error) {
	gt, ok := to.(*gitTree)
	if !ok {
		return nil, ErrInvalidType
	}
	objChanges, err := object.DiffTree(t.tree, gt.tree)
	if err != nil {
		return nil, err
	}
	changes := make(Changes, len(objChanges))
	for i, c := range objChanges {
		changes[i] = &gitChange{change: c}
	}
	return changes, nil
}

func (t *gitTree) Entries() ([]TreeEntry, error) {
	if t.tree == nil {
		return nil, nil
	}
	var entries []TreeEntry
	err := t.tree.Files().ForEach(func(f *object.File) error {
		entries = append(entries, TreeEntry{Path: f.Name, Size: f.Size})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (t *gitTree) File(path string) ([]byte, error) {
	if t.tree == nil {
		return nil, object.ErrFileNotFound
	}
	f, err := t.tree.File(path)
	if err != nil {
		return nil, err
	}
	contents, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(contents), nil
}

type gitChange struct {
	change *object.Change
}

func (c *gitChange) FromName() string {
	return c.change.From.Name
}

func (c *gitChange) ToName() string {
	return c.change.To.Name
}

func (c *gitChange) Action() (Action, error) {
	action, err := c.change.Action()
	if err != nil {
		return "", err
	}
	switch action {
	case merkletrie.Insert:
		return ActionAdd, nil
	case merkletrie.Delete:
		return ActionDelete, nil
	default:
		return ActionModify, nil
	}
}

func (c *gitChange) Contents() ([]byte, []byte, error) {
	from, to, err := c.change.Files()
	if err != nil {
		return nil, nil, err
	}
	before, err := fileBytes(from)
	if err != nil {
		return nil, nil, err
	}
	after, err := fileBytes(to)
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

func fileBytes(f *object.File) ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	s, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Default opener singleton
var defaultOpener Opener = NewGitOpener()

// DefaultOpener returns the default git opener.
func DefaultOpener() Opener {
	return defaultOpener
}

// SetDefaultOpener sets the default git opener (useful for testing).
func SetDefaultOpener(opener Opener) {
	defaultOpener = opener
}
