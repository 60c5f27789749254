package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"

	"github.com/skillnet-dev/skillnet-go/domain"
)

const sessionBucket = "session"

// Storage keys inside the session bucket. They mirror the web client's
// localStorage keys so the two stores stay conceptually interchangeable.
const (
	keyToken    = "token"
	keySnapshot = "skillnet_user"
)

// BoltStore is the durable session store backed by a bbolt file, typically
// $HOME/.skillnetctl/session.db. All reads swallow decode failures and
// degrade to nil.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the session database at dbPath, creating the
// parent directory when missing.
func OpenBolt(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create session directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Token() *Token {
	var t Token
	if !s.read(keyToken, &t) {
		return nil
	}
	return &t
}

func (s *BoltStore) SetToken(t *Token) {
	if t == nil {
		s.ClearToken()
		return
	}
	s.write(keyToken, t)
}

func (s *BoltStore) ClearToken() { s.delete(keyToken) }

func (s *BoltStore) Snapshot() *domain.User {
	var u domain.User
	if !s.read(keySnapshot, &u) {
		return nil
	}
	return &u
}

func (s *BoltStore) SetSnapshot(u *domain.User) {
	if u == nil {
		s.ClearSnapshot()
		return
	}
	s.write(keySnapshot, u)
}

func (s *BoltStore) ClearSnapshot() { s.delete(keySnapshot) }

func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// read unmarshals the value under key into out. Missing keys and malformed
// payloads both report false; corruption is logged at debug and treated as
// absent.
func (s *BoltStore) read(key string, out any) bool {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(sessionBucket)).Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("discarding unreadable session entry")
		return false
	}
	return true
}

func (s *BoltStore) write(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("failed to encode session entry")
		return
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(key), raw)
	})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to persist session entry")
	}
}

func (s *BoltStore) delete(key string) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(key))
	})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete session entry")
	}
}

var _ Store = (*BoltStore)(nil)
