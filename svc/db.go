package svc

import (
	"os"

	"go.etcd.io/bbolt"
)

func getFromDb[
	T any](db *bbolt.DB, bucket []byte, id []byte,
	unmarshal func(data []byte, v *T) error,
) (*T, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	r := (*T)(nil)

	err := db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		v := b.Get(id)
		if v == nil {
			return nil
		}
		r = new(T)
		if err := unmarshal(v, r); err != nil {
			r = nil
			return err
		}

		return nil
	})

	return r, err
}

func putToDb[T any](db *bbolt.DB, bucket []byte, id []byte, v T, marshal func(v T) ([]byte, error)) error {
	if db == nil {
		return ErrNilDB
	}

	return db.Update(
		func(tx *bbolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return err
			}
			data, err := marshal(v)
			if err != nil {
				return err
			}
			return b.Put(id, data)
		})
}

func listFromDb[
	T any](db *bbolt.DB, bucket []byte,
	unmarshal func(data []byte, v *T) error,
) ([]*T, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	result := make([]*T, 0)

	err := db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, data []byte) error {
			v := new(T)
			if err := unmarshal(data, v); err != nil {
				return err
			}
			result = append(result, v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// tempfile provides a temporary file, adopted from the example on [bbolt doc]
//
// [bbolt doc]: https://pkg.go.dev/go.etcd.io/bbolt#example-DB.Begin
func tempfile() (string, error) {
	f, err := os.CreateTemp("", "bolt-")
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Remove(f.Name()); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func openDb(path string) (db *bbolt.DB, tmppath string, err error) {
	if path == "" {
		path, err = tempfile()
		if err != nil {
			return nil, "", err
		}
		tmppath = path
		logger.Warn("missing db path, use tmp path", "path", path)
	}

	db, err = bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, tmppath, err
	}

	return db, tmppath, nil
}
