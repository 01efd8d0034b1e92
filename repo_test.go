package gitsquash

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// testRepo builds synthetic histories in an in-memory storage.
type testRepo struct {
	t *testing.T
	s *memory.Storage
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	return &testRepo{t: t, s: memory.NewStorage()}
}

func (r *testRepo) blob(content string) plumbing.Hash {
	r.t.Helper()

	obj := r.s.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)

	w, err := obj.Writer()
	if err != nil {
		r.t.Fatal(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		r.t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		r.t.Fatal(err)
	}

	hash, err := r.s.SetEncodedObject(obj)
	if err != nil {
		r.t.Fatal(err)
	}

	return hash
}

func (r *testRepo) tree(content string) plumbing.Hash {
	r.t.Helper()

	tree := &object.Tree{
		Entries: []object.TreeEntry{{
			Name: "file.txt",
			Mode: filemode.Regular,
			Hash: r.blob(content),
		}},
	}

	obj := r.s.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		r.t.Fatal(err)
	}

	hash, err := r.s.SetEncodedObject(obj)
	if err != nil {
		r.t.Fatal(err)
	}

	return hash
}

// commit writes one commit whose tree holds a single file with the given
// content.
func (r *testRepo) commit(author, email string, when time.Time, msg, content string, parents ...plumbing.Hash) *object.Commit {
	r.t.Helper()

	sig := object.Signature{Name: author, Email: email, When: when}

	c := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      msg,
		TreeHash:     r.tree(content),
		ParentHashes: parents,
	}

	obj := r.s.NewEncodedObject()
	if err := c.Encode(obj); err != nil {
		r.t.Fatal(err)
	}

	hash, err := r.s.SetEncodedObject(obj)
	if err != nil {
		r.t.Fatal(err)
	}

	saved, err := object.GetCommit(r.s, hash)
	if err != nil {
		r.t.Fatal(err)
	}

	return saved
}

func (r *testRepo) tag(name string, target plumbing.Hash) {
	r.t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), target)
	if err := r.s.SetReference(ref); err != nil {
		r.t.Fatal(err)
	}
}

// chain creates n single-file commits by one author, spaced gap apart,
// returning them oldest-first.
func (r *testRepo) chain(author, email string, start time.Time, gap time.Duration, msgs ...string) []*object.Commit {
	r.t.Helper()

	result := make([]*object.Commit, 0, len(msgs))

	var parents []plumbing.Hash
	when := start
	for i, msg := range msgs {
		c := r.commit(author, email, when, msg, msg+" content", parents...)
		result = append(result, c)
		parents = []plumbing.Hash{c.Hash}
		when = start.Add(time.Duration(i+1) * gap)
	}

	return result
}
