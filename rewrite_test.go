package gitsquash

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSquashGroup(t *testing.T) {
	r := newTestRepo(t)
	chain := r.chain("X", "x@x.com", testEpoch, time.Minute, "a", "b", "c", "d", "e")

	hist, err := FirstParentHistory(context.Background(), chain[4], nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	records, err := NewCommits(hist, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	group := &Group{Commits: records[1:3]} // b, c

	result, err := SquashGroup(context.Background(), r.s, hist, group)
	if err != nil {
		t.Fatal(err)
	}

	// tree of the squash commit equals the tree of the last member
	if result.NewCommit.TreeHash != chain[2].TreeHash {
		t.Fatalf("squash tree = %s, want %s", result.NewCommit.TreeHash, chain[2].TreeHash)
	}
	// parent is the original predecessor of the first member
	if len(result.NewCommit.ParentHashes) != 1 || result.NewCommit.ParentHashes[0] != chain[0].Hash {
		t.Fatalf("squash parents = %v, want [%s]", result.NewCommit.ParentHashes, chain[0].Hash)
	}
	if result.NewCommit.Message != "b\n\nc\n" {
		t.Fatalf("squash message = %q", result.NewCommit.Message)
	}

	// the rewritten history preserves order and trees
	newhist, err := FirstParentHistory(context.Background(), result.NewHead, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	msgs := make([]string, 0, len(newhist))
	for _, c := range newhist {
		msgs = append(msgs, c.Message)
	}
	want := []string{"a", "b\n\nc\n", "d", "e"}
	if diff := cmp.Diff(want, msgs); diff != "" {
		t.Fatalf("rewritten history mismatch (-want +got):\n%s", diff)
	}

	// none of the squashed members survives in the rewritten history
	rewritten := NewHashSetFromCommits(newhist)
	for _, member := range group.Commits {
		if _, found := rewritten[member.Hash]; found {
			t.Fatalf("squashed commit %s still reachable", member.Hash)
		}
	}

	if newhist[2].TreeHash != chain[3].TreeHash || newhist[3].TreeHash != chain[4].TreeHash {
		t.Fatal("replayed commits must keep their trees")
	}
	if result.NewHead.TreeHash != chain[4].TreeHash {
		t.Fatal("file tree at the new head must equal the original head tree")
	}
}

func TestSquashGroup_AtHead(t *testing.T) {
	r := newTestRepo(t)
	chain := r.chain("X", "x@x.com", testEpoch, time.Minute, "a", "b", "c")

	hist, err := FirstParentHistory(context.Background(), chain[2], nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	records, err := NewCommits(hist, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := SquashGroup(context.Background(), r.s, hist, &Group{Commits: records[1:3]})
	if err != nil {
		t.Fatal(err)
	}

	if result.NewHead.Hash != result.NewCommit.Hash {
		t.Fatal("squashing a range ending at the head needs no replay")
	}
}

func TestSquashGroup_RootRange(t *testing.T) {
	r := newTestRepo(t)
	chain := r.chain("X", "x@x.com", testEpoch, time.Minute, "a", "b", "c")

	hist, err := FirstParentHistory(context.Background(), chain[2], nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	records, err := NewCommits(hist, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := SquashGroup(context.Background(), r.s, hist, &Group{Commits: records[0:2]})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.NewCommit.ParentHashes) != 0 {
		t.Fatalf("squashing from the root must produce a new root, got parents %v", result.NewCommit.ParentHashes)
	}
}

func TestSquashGroup_Errors(t *testing.T) {
	r := newTestRepo(t)
	chain := r.chain("X", "x@x.com", testEpoch, time.Minute, "a", "b", "c")

	hist, err := FirstParentHistory(context.Background(), chain[2], nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	records, err := NewCommits(hist, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := SquashGroup(context.Background(), r.s, hist, &Group{Commits: records[:1]}); !errors.Is(err, ErrGroupTooSmall) {
		t.Fatalf("want ErrGroupTooSmall, got %v", err)
	}

	if _, err := SquashGroup(context.Background(), r.s, nil, &Group{Commits: records[:2]}); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("want ErrEmptyHistory, got %v", err)
	}

	gap := &Group{Commits: []*Commit{records[0], records[2]}}
	if _, err := SquashGroup(context.Background(), r.s, hist, gap); !errors.Is(err, ErrNotContiguous) {
		t.Fatalf("want ErrNotContiguous, got %v", err)
	}

	stranger := &Group{Commits: []*Commit{gc("X", 0, "not in hist"), gc("X", 10, "either")}}
	if _, err := SquashGroup(context.Background(), r.s, hist, stranger); !errors.Is(err, ErrNotContiguous) {
		t.Fatalf("want ErrNotContiguous, got %v", err)
	}
}

func TestCombineMessages(t *testing.T) {
	commits := []*Commit{
		{Message: "first\n"},
		{Message: "second body\n\nwith detail\n"},
		{Message: "third"},
	}

	got := CombineMessages(commits)
	want := "first\n\nsecond body\n\nwith detail\n\nthird\n"

	if got != want {
		t.Fatalf("CombineMessages = %q, want %q", got, want)
	}
}
