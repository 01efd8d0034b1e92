package svc

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

const SQUASH_BUCKET = "squashes"

// SquashResult records one performed squash: the original commit list and
// the commit that replaced it. Results are appended during a run and are
// what the operator reviews before pushing.
type SquashResult struct {
	Branch string `json:"branch"`
	// Squashed holds the original member commit hashes, oldest-first.
	Squashed []string `json:"squashed"`
	// Authors holds the canonical authors of the members.
	Authors []string `json:"authors"`
	// NewCommit is the hash of the replacement commit.
	NewCommit string `json:"new_commit"`
	// Message is the combined message of the replacement commit.
	Message string    `json:"message"`
	When    time.Time `json:"when"`
}

// Journal is the durable, append-only record of squashes performed by one
// or more runs, stored in a [bbolt.DB].
type Journal struct {
	db        *bbolt.DB
	tmpDbPath string
}

// OpenJournal opens the journal database at path. An empty path uses a
// temporary file that [Journal.DeleteTmp] removes.
func OpenJournal(path string) (*Journal, error) {
	db, tmppath, err := openDb(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal db: %w", err)
	}

	return &Journal{db: db, tmpDbPath: tmppath}, nil
}

// Append stores one result, keyed by branch and new commit hash.
func (j *Journal) Append(r *SquashResult) error {
	id := []byte(r.Branch + "/" + r.NewCommit)

	return putToDb(j.db, []byte(SQUASH_BUCKET), id, r,
		func(v *SquashResult) ([]byte, error) {
			return json.Marshal(v)
		})
}

// Get looks up the result for one replacement commit on one branch, nil if
// absent.
func (j *Journal) Get(branch, newCommit string) (*SquashResult, error) {
	id := []byte(branch + "/" + newCommit)

	return getFromDb(j.db, []byte(SQUASH_BUCKET), id,
		func(data []byte, v *SquashResult) error {
			return json.Unmarshal(data, v)
		})
}

// List returns every recorded result.
func (j *Journal) List() ([]*SquashResult, error) {
	return listFromDb(j.db, []byte(SQUASH_BUCKET),
		func(data []byte, v *SquashResult) error {
			return json.Unmarshal(data, v)
		})
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}

	return j.db.Close()
}

// DeleteTmp closes the journal and removes the temporary database file if
// one was used.
func (j *Journal) DeleteTmp() error {
	if err := j.Close(); err != nil {
		return err
	}
	if j.tmpDbPath == "" {
		return nil
	}
	return os.Remove(j.tmpDbPath)
}
