// Package vault is a local read-only cache of backend state. The backend
// owns every record; the vault only holds the snapshot taken at the last
// sync so the CLI can show receipts offline.
package vault

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/temidaradev/retreat/internal/api"
)

const (
	receiptBucketName = "receipts"
	emailBucketName   = "emails"
	metaBucketName    = "meta"

	subscriptionKey = "subscription"
	lastSyncKey     = "last_sync"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Vault stores synced records in a local BoltDB file
type Vault struct {
	db         *bbolt.DB
	timeSource TimeSource
}

// Open opens or creates a vault file
func Open(path string) (*Vault, error) {
	return OpenWithDeps(path, &defaultTimeSource{})
}

// OpenWithDeps opens a vault with a custom time source for testing
func OpenWithDeps(path string, timeSource TimeSource) (*Vault, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{receiptBucketName, emailBucketName, metaBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Vault{db: db, timeSource: timeSource}, nil
}

// PutReceipts replaces the cached receipt snapshot
func (v *Vault) PutReceipts(receipts []api.Receipt) error {
	return v.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(receiptBucketName)); err != nil {
			return fmt.Errorf("clearing receipts: %w", err)
		}
		bucket, err := tx.CreateBucket([]byte(receiptBucketName))
		if err != nil {
			return fmt.Errorf("recreating receipts bucket: %w", err)
		}
		for _, receipt := range receipts {
			data, err := json.Marshal(receipt)
			if err != nil {
				return fmt.Errorf("marshaling receipt: %w", err)
			}
			if err := bucket.Put([]byte(receipt.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Receipts returns the cached receipts. The cached status field ages, so it
// is recomputed from the warranty expiry against the current time; the
// server value is still authoritative whenever the caller is online.
func (v *Vault) Receipts() ([]api.Receipt, error) {
	now := v.timeSource.Now()
	receipts := make([]api.Receipt, 0)
	err := v.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucketName))
		return bucket.ForEach(func(k, val []byte) error {
			var receipt api.Receipt
			if err := json.Unmarshal(val, &receipt); err != nil {
				return fmt.Errorf("unmarshaling receipt: %w", err)
			}
			receipt.Status = StatusAt(receipt.WarrantyExpiry, now)
			receipts = append(receipts, receipt)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// PutEmails replaces the cached forwarding-address snapshot
func (v *Vault) PutEmails(emails []api.UserEmail) error {
	return v.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(emailBucketName)); err != nil {
			return fmt.Errorf("clearing emails: %w", err)
		}
		bucket, err := tx.CreateBucket([]byte(emailBucketName))
		if err != nil {
			return fmt.Errorf("recreating emails bucket: %w", err)
		}
		for _, email := range emails {
			data, err := json.Marshal(email)
			if err != nil {
				return fmt.Errorf("marshaling email: %w", err)
			}
			if err := bucket.Put([]byte(email.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Emails returns the cached forwarding addresses
func (v *Vault) Emails() ([]api.UserEmail, error) {
	emails := make([]api.UserEmail, 0)
	err := v.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(emailBucketName))
		return bucket.ForEach(func(k, val []byte) error {
			var email api.UserEmail
			if err := json.Unmarshal(val, &email); err != nil {
				return fmt.Errorf("unmarshaling email: %w", err)
			}
			emails = append(emails, email)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// PutSubscription caches the subscription snapshot
func (v *Vault) PutSubscription(sub api.Subscription) error {
	return v.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(metaBucketName))
		data, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("marshaling subscription: %w", err)
		}
		return bucket.Put([]byte(subscriptionKey), data)
	})
}

// Subscription returns the cached subscription, or nil when never synced
func (v *Vault) Subscription() (*api.Subscription, error) {
	var sub *api.Subscription
	err := v.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(metaBucketName))
		data := bucket.Get([]byte(subscriptionKey))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// SetLastSync records when the snapshot was taken
func (v *Vault) SetLastSync(at time.Time) error {
	return v.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(metaBucketName))
		data, err := at.UTC().MarshalText()
		if err != nil {
			return err
		}
		return bucket.Put([]byte(lastSyncKey), data)
	})
}

// LastSync returns when the snapshot was taken; ok is false when the vault
// has never been synced
func (v *Vault) LastSync() (at time.Time, ok bool, err error) {
	err = v.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(metaBucketName))
		data := bucket.Get([]byte(lastSyncKey))
		if data == nil {
			return nil
		}
		if err := at.UnmarshalText(data); err != nil {
			return fmt.Errorf("parsing last sync time: %w", err)
		}
		ok = true
		return nil
	})
	return at, ok, err
}

// Close closes the vault file
func (v *Vault) Close() error {
	return v.db.Close()
}
