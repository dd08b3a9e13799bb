package otp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/organconnect/organconnect/backend/internal/models"
)

var ErrNotFound = errors.New("no pending OTP for this mobile number")

// Store keeps issued challenges and verified markers until they expire.
type Store interface {
	Save(ctx context.Context, c models.OTPChallenge) error
	Get(ctx context.Context, mobile string) (models.OTPChallenge, error)
	Delete(ctx context.Context, mobile string) error
	MarkVerified(ctx context.Context, mobile string, ttl time.Duration) error
	HasVerified(ctx context.Context, mobile string) (bool, error)
	TakeVerified(ctx context.Context, mobile string) (bool, error)
}

// BadgerStore stores challenges under "otp:{mobile}" and verified markers
// under "otp-ok:{mobile}", both with a badger TTL so expired entries vanish
// on their own.
type BadgerStore struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBadgerStore(db *badger.DB, log *slog.Logger) *BadgerStore {
	return &BadgerStore{db: db, log: log}
}

// OpenBadger opens the database at path, or an in-memory one when path is
// empty.
func OpenBadger(path string, log *slog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	if log.Enabled(context.Background(), slog.LevelDebug) {
		opts = opts.WithLoggingLevel(badger.DEBUG)
	}
	return badger.Open(opts)
}

func challengeKey(mobile string) []byte { return []byte("otp:" + mobile) }
func verifiedKey(mobile string) []byte  { return []byte("otp-ok:" + mobile) }

func (s *BadgerStore) Save(_ context.Context, c models.OTPChallenge) error {
	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(context.Background(), c.Mobile)
	}
	bytes, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(challengeKey(c.Mobile), bytes).WithTTL(ttl))
	})
}

func (s *BadgerStore) Get(_ context.Context, mobile string) (models.OTPChallenge, error) {
	var c models.OTPChallenge
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(challengeKey(mobile))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		})
	})
	return c, err
}

func (s *BadgerStore) Delete(_ context.Context, mobile string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(challengeKey(mobile))
	})
}

func (s *BadgerStore) MarkVerified(_ context.Context, mobile string, ttl time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(verifiedKey(mobile), []byte{1}).WithTTL(ttl))
	})
}

// HasVerified reports whether mobile carries a verified marker without
// consuming it.
func (s *BadgerStore) HasVerified(_ context.Context, mobile string) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(verifiedKey(mobile))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// TakeVerified reports whether mobile was verified recently and consumes the
// marker.
func (s *BadgerStore) TakeVerified(_ context.Context, mobile string) (bool, error) {
	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(verifiedKey(mobile))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return txn.Delete(verifiedKey(mobile))
	})
	if err != nil {
		s.log.Error("Failed to read verified marker", "mobile", mobile, "error", err)
	}
	return found, err
}
