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

package gt3x

import (
	"github.com/google/gopacket"

	"github.com/wearlab-io/go-gt3x/pkg/layers"
	"github.com/wearlab-io/go-gt3x/pkg/log"
)

// Diagnostics are the non-fatal anomaly counters of one parse. They are
// always returned alongside the samples and never abort the parse.
type Diagnostics struct {
	// ChecksumFailures counts records whose stored checksum disagrees with
	// the computed one. Such records are still decoded.
	ChecksumFailures int `json:"checksum_failures"`
	// SkippedTypes maps every non-activity record type seen to the number
	// of records carrying it
	SkippedTypes map[layers.RecordType]int `json:"skipped_types,omitempty"`
	// UnknownPayloadSizes lists the payload sizes of activity records that
	// fit no known sample packing, one entry per record
	UnknownPayloadSizes []uint16 `json:"unknown_payload_sizes,omitempty"`
	// TruncatedRecords counts records cut off by the end of the stream
	TruncatedRecords int `json:"truncated_records"`
}

// ParseOutcome is the full result of decoding one log.bin buffer.
// Samples holds only samples from activity-bearing records, in stream order.
type ParseOutcome struct {
	Samples     []layers.ActivitySample `json:"samples"`
	Diagnostics Diagnostics             `json:"diagnostics"`
}

func NewParseOutcome() *ParseOutcome {
	return &ParseOutcome{
		Diagnostics: Diagnostics{
			SkippedTypes: make(map[layers.RecordType]int),
		},
	}
}

// decodeRecord handles one framed record: checksum accounting, then either
// activity payload decoding or type skipping
func (o *ParseOutcome) decodeRecord(record *layers.LogRecord) {
	if !record.ChecksumValid() {
		// Validate but trust anyway. The checksum is a corruption signal,
		// not an authentication gate, and isolated bit errors still leave
		// most of the payload worth recovering.
		o.Diagnostics.ChecksumFailures++
		log.Warning("Checksum mismatch: type: %d timestamp: %d payload size: %d",
			record.Type, record.Timestamp, record.PayloadSize)
	}

	if !record.Type.ActivityBearing() {
		o.Diagnostics.SkippedTypes[record.Type]++
		return
	}

	samples, format := layers.DecodeActivityPayload(record.Payload)
	if format == layers.FormatUnknown {
		o.Diagnostics.UnknownPayloadSizes = append(o.Diagnostics.UnknownPayloadSizes, record.PayloadSize)
		log.Warning("Unknown activity payload format, size: %d", record.PayloadSize)
		return
	}
	log.Debug("Decoded %d samples, format: %s", len(samples), format)
	o.Samples = append(o.Samples, samples...)
}

// ParseLog decodes a whole log.bin buffer in one forward pass. Truncation
// and checksum mismatches are diagnostics, not errors. A non-nil error means
// the stream could not be decoded past some record, the outcome then holds
// everything decoded before the failure point.
func ParseLog(data []byte) (*ParseOutcome, error) {
	outcome := NewParseOutcome()

	layer := &layers.GT3XLayer{}
	err := layer.DecodeFromBytes(data, gopacket.NilDecodeFeedback)

	// Complete records framed before any failure are still decoded
	for _, record := range layer.Records {
		outcome.decodeRecord(record)
	}
	if layer.Truncated {
		outcome.Diagnostics.TruncatedRecords++
		log.Warning("Log stream truncated, decoded %d complete records", len(layer.Records))
	}
	if err != nil {
		log.Error("Unrecoverable decode failure: %s", err)
		return outcome, err
	}

	log.Info("Parsed log: %d records %d samples", len(layer.Records), len(outcome.Samples))
	return outcome, nil
}
