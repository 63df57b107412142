package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	bolt "go.etcd.io/bbolt"

	"personachat/core"
)

const conversationsBucket = "conversations"

// BoltStore keeps conversations in a single BoltDB file, one key per
// persona inside the conversations bucket.
type BoltStore struct {
	db     *bolt.DB
	logger *core.Logger
}

// OpenBolt opens (creating if needed) the conversation DB at path.
func OpenBolt(path string, logger *core.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = core.GetLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(conversationsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}
	return &BoltStore{db: db, logger: logger}, nil
}

// Close closes the underlying DB file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Load(personaID string) ([]core.Message, error) {
	var msgs []core.Message
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(conversationsBucket))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(recordKey(personaID)))
		if len(v) == 0 {
			return nil
		}
		if e := sonic.Unmarshal(v, &msgs); e != nil {
			// Treat an incompatible stored value as no history instead of
			// failing the whole load.
			s.logger.Warnf("store: discarding malformed record for %q: %v", personaID, e)
			msgs = nil
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", personaID, err)
	}
	return msgs, nil
}

func (s *BoltStore) Save(personaID string, msgs []core.Message) error {
	if msgs == nil {
		msgs = []core.Message{}
	}
	enc, err := sonic.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("store: marshal %q: %w", personaID, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(conversationsBucket))
		return b.Put([]byte(recordKey(personaID)), enc)
	})
	if err != nil {
		return fmt.Errorf("store: save %q: %w", personaID, err)
	}
	return nil
}

func (s *BoltStore) Clear(personaID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(conversationsBucket))
		return b.Delete([]byte(recordKey(personaID)))
	})
	if err != nil {
		return fmt.Errorf("store: clear %q: %w", personaID, err)
	}
	return nil
}
