// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package snapshot implements a local cache of the entities returned by the
// redirection API, kept in one bolt database per virtualization connector.
// The cache is write-only from the point of view of the redirection logic,
// which always re-reads the backend.
package snapshot

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/contiv/nsfc/plugins/nsfc/model"
)

// Buckets of the snapshot database.
const (
	ChainsBucket          = "chains"
	InspectionPortsBucket = "inspection-ports"
	HooksBucket           = "inspection-hooks"
)

var buckets = []string{ChainsBucket, InspectionPortsBucket, HooksBucket}

const openTimeout = time.Second

// FileName returns the path of the snapshot database of the given provider.
func FileName(dir, providerIP string) string {
	return filepath.Join(dir, "nsfc_"+providerIP+".db")
}

// Store is a bolt database with one bucket per entity type.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the snapshot database at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open snapshot database %s", path)
	}
	s := &Store{db: db}
	err = s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to initialize snapshot database %s", path)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is a unit of work over the store.
type Tx struct {
	tx *bolt.Tx
}

// Update runs <fn> in a read-write transaction. The transaction is committed
// if <fn> returns nil and rolled back entirely otherwise.
func (s *Store) Update(fn func(tx *Tx) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&Tx{tx: tx})
	})
}

// View runs <fn> in a read-only transaction.
func (s *Store) View(fn func(tx *Tx) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(&Tx{tx: tx})
	})
}

// Put stores JSON encoding of <value> under <key>.
func (t *Tx) Put(bucket, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s/%s", bucket, key)
	}
	return t.bucket(bucket).Put([]byte(key), data)
}

// Get decodes the value stored under <key> into <into>.
func (t *Tx) Get(bucket, key string, into interface{}) (found bool, err error) {
	data := t.bucket(bucket).Get([]byte(key))
	if data == nil {
		return false, nil
	}
	return true, errors.Wrapf(json.Unmarshal(data, into), "failed to decode %s/%s", bucket, key)
}

// Delete removes <key>.
func (t *Tx) Delete(bucket, key string) error {
	return t.bucket(bucket).Delete([]byte(key))
}

// Keys returns all keys of the bucket in byte-sorted order.
func (t *Tx) Keys(bucket string) []string {
	var keys []string
	t.bucket(bucket).ForEach(func(k, _ []byte) error {
		keys = append(keys, string(k))
		return nil
	})
	return keys
}

func (t *Tx) bucket(name string) *bolt.Bucket {
	return t.tx.Bucket([]byte(name))
}

// RecordChain stores the snapshot of the chain together with its groups.
func (s *Store) RecordChain(chain *model.ServiceFunctionChain) error {
	return s.Update(func(tx *Tx) error {
		if err := tx.Put(ChainsBucket, chain.ID, chain); err != nil {
			return err
		}
		for _, group := range chain.Groups {
			for _, port := range group.Ports {
				if err := tx.Put(InspectionPortsBucket, port.ID, port); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ForgetChain removes the snapshot of the chain.
func (s *Store) ForgetChain(id string) error {
	return s.Update(func(tx *Tx) error {
		return tx.Delete(ChainsBucket, id)
	})
}

// RecordInspectionPort stores the snapshot of the inspection port.
func (s *Store) RecordInspectionPort(port *model.InspectionPort) error {
	return s.Update(func(tx *Tx) error {
		return tx.Put(InspectionPortsBucket, port.ID, port)
	})
}

// ForgetInspectionPort removes the snapshot of the inspection port.
func (s *Store) ForgetInspectionPort(id string) error {
	return s.Update(func(tx *Tx) error {
		return tx.Delete(InspectionPortsBucket, id)
	})
}

// RecordHook stores the snapshot of the inspection hook.
func (s *Store) RecordHook(hook *model.InspectionHook) error {
	return s.Update(func(tx *Tx) error {
		return tx.Put(HooksBucket, hook.HookID, hook)
	})
}

// ForgetHook removes the snapshot of the inspection hook.
func (s *Store) ForgetHook(id string) error {
	return s.Update(func(tx *Tx) error {
		return tx.Delete(HooksBucket, id)
	})
}

// Chain returns the last recorded snapshot of the chain, nil if none.
func (s *Store) Chain(id string) (*model.ServiceFunctionChain, error) {
	var chain *model.ServiceFunctionChain
	err := s.View(func(tx *Tx) error {
		snapshot := &model.ServiceFunctionChain{}
		found, err := tx.Get(ChainsBucket, id, snapshot)
		if found && err == nil {
			chain = snapshot
		}
		return err
	})
	return chain, err
}

// Hook returns the last recorded snapshot of the inspection hook, nil if none.
func (s *Store) Hook(id string) (*model.InspectionHook, error) {
	var hook *model.InspectionHook
	err := s.View(func(tx *Tx) error {
		snapshot := &model.InspectionHook{}
		found, err := tx.Get(HooksBucket, id, snapshot)
		if found && err == nil {
			hook = snapshot
		}
		return err
	})
	return hook, err
}
