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

package catalog

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"github.com/wearlab-io/go-gt3x/pkg/gt3x"
	"github.com/wearlab-io/go-gt3x/pkg/log"
)

const (
	RecordingsBucket = "recordings"
	UnknownSerial    = "unknown"
)

// Summary is what the catalog keeps per parsed recording. The samples
// themselves are not stored, only the decode results worth looking up later.
type Summary struct {
	SerialNumber       string    `json:"serial_number,omitempty"`
	StartTime          time.Time `json:"start_time,omitempty"`
	SampleRate         float64   `json:"sample_rate,omitempty"`
	SampleCount        int       `json:"sample_count"`
	ChecksumFailures   int       `json:"checksum_failures"`
	TruncatedRecords   int       `json:"truncated_records"`
	UnknownPayloads    int       `json:"unknown_payloads"`
	SkippedRecordTypes int       `json:"skipped_record_types"`
	Source             string    `json:"source,omitempty"`
	ImportedAt         time.Time `json:"imported_at"`
}

// NewSummary builds the catalog entry for a decoded recording
func NewSummary(recording *gt3x.Recording) *Summary {
	diag := recording.Outcome.Diagnostics
	return &Summary{
		SerialNumber:       recording.Info.SerialNumber(),
		StartTime:          recording.Info.StartTime(),
		SampleRate:         recording.Info.SampleRate(),
		SampleCount:        recording.SampleCount(),
		ChecksumFailures:   diag.ChecksumFailures,
		TruncatedRecords:   diag.TruncatedRecords,
		UnknownPayloads:    len(diag.UnknownPayloadSizes),
		SkippedRecordTypes: len(diag.SkippedTypes),
		Source:             recording.Path,
		ImportedAt:         time.Now().UTC(),
	}
}

// Key identifies a recording by serial number and start time
func (s *Summary) Key() string {
	serial := s.SerialNumber
	if serial == "" {
		serial = UnknownSerial
	}
	return fmt.Sprintf("%s_%d", serial, s.StartTime.Unix())
}

func (s *Summary) String() string {
	result, err := yaml.Marshal(s)
	if err != nil {
		log.Info("Error occured while marshaling summary, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

// Catalog ...
type Catalog struct {
	context.Context
	DB *bbolt.DB
}

func NewCatalog(ctx context.Context, path string) (*Catalog, error) {
	// open catalog database
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	// create the recordings bucket if this is a fresh database
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(RecordingsBucket))
		return err
	}); err != nil {
		return nil, err
	}
	return &Catalog{
		Context: ctx,
		DB:      db,
	}, nil
}

// Close ...
func (c *Catalog) Close() {
	c.DB.Close()
}

// Put ...
func (c *Catalog) Put(summary *Summary) error {
	log.Debug("Putting summary: key: %s samples: %d", summary.Key(), summary.SampleCount)
	data, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}
	return c.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(RecordingsBucket))
		if b == nil {
			return ErrBucketNotFound{Name: RecordingsBucket}
		}
		return b.Put([]byte(summary.Key()), data)
	})
}

// Get ...
func (c *Catalog) Get(key string) (*Summary, error) {
	log.Debug("Getting summary: key: %s", key)
	summary := &Summary{}
	if err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(RecordingsBucket))
		if b == nil {
			return ErrBucketNotFound{Name: RecordingsBucket}
		}
		data := b.Get([]byte(key))
		if data == nil {
			return ErrSummaryNotFound{Key: key}
		}
		return yaml.Unmarshal(data, summary)
	}); err != nil {
		return nil, err
	}
	return summary, nil
}

// List returns all summaries in key order
func (c *Catalog) List() ([]*Summary, error) {
	var summaries []*Summary
	if err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(RecordingsBucket))
		if b == nil {
			return ErrBucketNotFound{Name: RecordingsBucket}
		}
		return b.ForEach(func(k, v []byte) error {
			summary := &Summary{}
			if err := yaml.Unmarshal(v, summary); err != nil {
				return err
			}
			summaries = append(summaries, summary)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return summaries, nil
}
