package ledger

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketSupply   = []byte("supply")
	bucketBalances = []byte("balances")
	bucketHolders  = []byte("holders")
	bucketMeta     = []byte("meta")
	bucketJournal  = []byte("journal")
)

// BoltStore persists the ledger in a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSupply, bucketBalances, bucketHolders, bucketMeta, bucketJournal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// u64Key encodes a counter or sequence as 8 big-endian bytes.
func u64Key(v uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, v)
	return k
}

// holdingKey is subject || holder, so one subject's balances share a prefix.
func holdingKey(h Holding) []byte {
	k := make([]byte, 2*AddressSize)
	copy(k, h.Subject[:])
	copy(k[AddressSize:], h.Holder[:])
	return k
}

func (s *BoltStore) readCounter(bucket, key []byte) (uint64, error) {
	var v uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get(key)
		if data == nil {
			return nil
		}
		if len(data) != 8 {
			return fmt.Errorf("%w: %s entry is %d bytes", ErrCorruptValue, bucket, len(data))
		}
		v = binary.BigEndian.Uint64(data)
		return nil
	})
	return v, err
}

func putCounter(b *bbolt.Bucket, key []byte, v uint64) error {
	if v == 0 {
		return b.Delete(key)
	}
	return b.Put(key, u64Key(v))
}

// Supply returns the total shares outstanding for subject.
func (s *BoltStore) Supply(subject Address) (uint64, error) {
	return s.readCounter(bucketSupply, subject[:])
}

// Balance returns the shares of subject held by holder.
func (s *BoltStore) Balance(holder, subject Address) (uint64, error) {
	return s.readCounter(bucketBalances, holdingKey(Holding{Holder: holder, Subject: subject}))
}

// Holders returns the number of distinct non-zero holders of subject.
func (s *BoltStore) Holders(subject Address) (uint64, error) {
	return s.readCounter(bucketHolders, subject[:])
}

// Meta returns the metadata record stored under key.
func (s *BoltStore) Meta(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyMetaKey
	}

	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrMetaNotFound, key)
		}
		// bbolt values are only valid for the life of the transaction.
		out = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Commit applies the batch inside one bbolt write transaction.
func (s *BoltStore) Commit(b *Batch) error {
	if b == nil {
		return fmt.Errorf("%w: batch", ErrNilParam)
	}
	if err := b.validate(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		sb := tx.Bucket(bucketSupply)
		for k, v := range b.supply {
			if err := putCounter(sb, k[:], v); err != nil {
				return fmt.Errorf("boltstore: put supply: %w", err)
			}
		}
		bb := tx.Bucket(bucketBalances)
		for k, v := range b.balances {
			if err := putCounter(bb, holdingKey(k), v); err != nil {
				return fmt.Errorf("boltstore: put balance: %w", err)
			}
		}
		hb := tx.Bucket(bucketHolders)
		for k, v := range b.holders {
			if err := putCounter(hb, k[:], v); err != nil {
				return fmt.Errorf("boltstore: put holders: %w", err)
			}
		}
		mb := tx.Bucket(bucketMeta)
		for k, v := range b.meta {
			if err := mb.Put([]byte(k), v); err != nil {
				return fmt.Errorf("boltstore: put meta: %w", err)
			}
		}
		jb := tx.Bucket(bucketJournal)
		for _, e := range b.journal {
			seq, err := jb.NextSequence()
			if err != nil {
				return fmt.Errorf("boltstore: journal sequence: %w", err)
			}
			if err := jb.Put(u64Key(seq), e); err != nil {
				return fmt.Errorf("boltstore: append journal: %w", err)
			}
		}
		return nil
	})
}

// Journal calls fn for each entry in sequence order. Entries passed to fn
// are copies and remain valid after fn returns.
func (s *BoltStore) Journal(fn func(seq uint64, entry []byte) error) error {
	if fn == nil {
		return fmt.Errorf("%w: journal callback", ErrNilParam)
	}

	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketJournal).ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("%w: journal key is %d bytes", ErrCorruptValue, len(k))
			}
			return fn(binary.BigEndian.Uint64(k), append([]byte(nil), v...))
		})
	})
}
