package gitsquash

import (
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestNewCommit(t *testing.T) {
	r := newTestRepo(t)
	c := r.commit("Jane Doe", "jane@y.com", testEpoch, "ABC-1 change", "content")

	table := NewAliasTable([]Alias{
		{Canonical: "Jane", Identifiers: []string{"jane@y.com"}},
	})

	record, err := NewCommit(c, table, NewHashSet(c.Hash))
	if err != nil {
		t.Fatal(err)
	}

	if record.RawAuthor != "Jane Doe <jane@y.com>" {
		t.Fatalf("RawAuthor = %q", record.RawAuthor)
	}
	if record.CanonicalAuthor != "Jane" {
		t.Fatalf("CanonicalAuthor = %q", record.CanonicalAuthor)
	}
	if !record.Tagged {
		t.Fatal("commit in the tagged set must be Tagged")
	}
	if record.NumParents != 0 {
		t.Fatalf("NumParents = %d", record.NumParents)
	}
	if !record.When.Equal(testEpoch) {
		t.Fatalf("When = %v", record.When)
	}
}

func TestNewCommit_MalformedAuthor(t *testing.T) {
	r := newTestRepo(t)
	c := r.commit("", "", testEpoch.Add(time.Minute), "anonymous change", "content")

	if _, err := NewCommit(c, nil, nil); !errors.Is(err, ErrMalformedAuthor) {
		t.Fatalf("want ErrMalformedAuthor, got %v", err)
	}
}

func TestNewCommit_Nil(t *testing.T) {
	if _, err := NewCommit(nil, nil, nil); !errors.Is(err, ErrNilCommit) {
		t.Fatalf("want ErrNilCommit, got %v", err)
	}
}

func TestRawIdentity(t *testing.T) {
	tests := []struct {
		name string
		sig  object.Signature
		want string
	}{
		{"both", object.Signature{Name: "Jane", Email: "j@x.com"}, "Jane <j@x.com>"},
		{"name only", object.Signature{Name: "Jane"}, "Jane"},
		{"email only", object.Signature{Email: "j@x.com"}, "<j@x.com>"},
		{"neither", object.Signature{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rawIdentity(tt.sig); got != tt.want {
				t.Fatalf("rawIdentity(%v) = %q, want %q", tt.sig, got, tt.want)
			}
		})
	}
}
