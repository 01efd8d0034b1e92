package gitsquash

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFirstParentHistory(t *testing.T) {
	r := newTestRepo(t)
	chain := r.chain("X", "x@x.com", testEpoch, time.Minute, "a", "b", "c", "d")

	hist, err := FirstParentHistory(context.Background(), chain[len(chain)-1], nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(hist))
	for _, c := range hist {
		got = append(got, c.Message)
	}

	want := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstParentHistory_FollowsFirstParentOfMerge(t *testing.T) {
	r := newTestRepo(t)

	root := r.commit("X", "x@x.com", testEpoch, "root", "root content")
	main := r.commit("X", "x@x.com", testEpoch.Add(time.Minute), "on main", "main content", root.Hash)
	side := r.commit("Y", "y@y.com", testEpoch.Add(time.Minute), "on side", "side content", root.Hash)
	merge := r.commit("X", "x@x.com", testEpoch.Add(2*time.Minute), "Merge side", "merged content", main.Hash, side.Hash)

	hist, err := FirstParentHistory(context.Background(), merge, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(hist))
	for _, c := range hist {
		got = append(got, c.Message)
	}

	// the second parent's line is not followed
	want := []string{"root", "on main", "Merge side"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstParentHistory_Stops(t *testing.T) {
	r := newTestRepo(t)
	chain := r.chain("X", "x@x.com", testEpoch, time.Minute, "a", "b", "c", "d")

	hist, err := FirstParentHistory(
		context.Background(),
		chain[3],
		NewHashSet(chain[1].Hash),
		0,
	)
	if err != nil {
		t.Fatal(err)
	}

	if len(hist) != 3 || hist[0].Message != "b" {
		t.Fatalf("walk should stop at the stop commit inclusively, got %d commits", len(hist))
	}
}

func TestFirstParentHistory_MaxDepth(t *testing.T) {
	r := newTestRepo(t)
	chain := r.chain("X", "x@x.com", testEpoch, time.Minute, "a", "b", "c", "d")

	hist, err := FirstParentHistory(context.Background(), chain[3], nil, 2)
	if err != nil {
		t.Fatal(err)
	}

	if len(hist) != 2 || hist[0].Message != "c" || hist[1].Message != "d" {
		t.Fatalf("depth-limited walk should keep the newest commits, got %d commits", len(hist))
	}
}

func TestTagReachableSet(t *testing.T) {
	r := newTestRepo(t)
	chain := r.chain("X", "x@x.com", testEpoch, time.Minute, "a", "b", "c", "d")

	r.tag("v1", chain[1].Hash)

	tagged, err := TagReachableSet(context.Background(), r.s)
	if err != nil {
		t.Fatal(err)
	}

	for i, want := range []bool{true, true, false, false} {
		_, got := tagged[chain[i].Hash]
		if got != want {
			t.Fatalf("commit %q tagged = %v, want %v", chain[i].Message, got, want)
		}
	}
}
