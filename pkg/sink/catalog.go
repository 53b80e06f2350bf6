/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package sink

import (
	"fmt"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/greenlab/go-dmm/pkg/log"
)

const (
	BucketName = "datasets"
)

// Catalog is the ledger of destinations that already hold acquisition data.
// It backs the no-silent-overwrite guarantee across runs, including files
// that were later moved away.
type Catalog struct {
	DB *bbolt.DB
}

func NewCatalog(path string) (*Catalog, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketName))
		return err
	}); err != nil {
		return nil, err
	}
	return &Catalog{DB: db}, nil
}

// Close ...
func (c *Catalog) Close() {
	c.DB.Close()
}

// Record marks a destination as written, with the completion time and
// sample count as the value.
func (c *Catalog) Record(dest string, samples int) error {
	log.Debug("Recording dataset: %s samples: %d", dest, samples)
	return c.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return fmt.Errorf("bucket not found: %s", BucketName)
		}
		value := fmt.Sprintf("%s %s", time.Now().UTC().Format(time.RFC3339), strconv.Itoa(samples))
		return b.Put([]byte(dest), []byte(value))
	})
}

// Contains reports whether a destination was already written.
func (c *Catalog) Contains(dest string) (bool, error) {
	var found bool
	if err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return fmt.Errorf("bucket not found: %s", BucketName)
		}
		found = b.Get([]byte(dest)) != nil
		return nil
	}); err != nil {
		return false, err
	}
	return found, nil
}
