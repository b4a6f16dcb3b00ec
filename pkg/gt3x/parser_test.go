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
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearlab-io/go-gt3x/pkg/layers"
)

func encodeLog(t *testing.T, records ...*layers.LogRecord) []byte {
	t.Helper()
	layer := &layers.GT3XLayer{Records: records}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, layer.SerializeTo(buf, opts))
	return buf.Bytes()
}

func TestParseLogSampleOrder(t *testing.T) {
	data := encodeLog(t,
		layers.NewLogRecord(layers.RecordTypeActivity, 100,
			[]byte{0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x00}), // 9-byte format, 1 sample
		layers.NewLogRecord(layers.RecordType(21), 100, []byte{0xDE, 0xAD}), // skipped
		layers.NewLogRecord(layers.RecordTypeActivity2, 101,
			[]byte{0x04, 0x00, 0x05, 0x00, 0x06, 0x00}), // 6-byte format, 1 sample
	)

	outcome, err := ParseLog(data)
	require.NoError(t, err)

	want := []layers.ActivitySample{
		{X: 1, Y: 2, Z: 3},
		{X: 4, Y: 5, Z: 6},
	}
	assert.Equal(t, want, outcome.Samples)
	assert.Equal(t, map[layers.RecordType]int{21: 1}, outcome.Diagnostics.SkippedTypes)
	assert.Zero(t, outcome.Diagnostics.ChecksumFailures)
	assert.Zero(t, outcome.Diagnostics.TruncatedRecords)
}

func TestParseLogSkipsNonActivityPayloads(t *testing.T) {
	// a payload that would decode as samples contributes nothing on a
	// non-activity record type
	data := encodeLog(t,
		layers.NewLogRecord(layers.RecordType(4), 100,
			[]byte{0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x00}),
	)

	outcome, err := ParseLog(data)
	require.NoError(t, err)
	assert.Empty(t, outcome.Samples)
	assert.Equal(t, 1, outcome.Diagnostics.SkippedTypes[4])
}

func TestParseLogChecksumMismatch(t *testing.T) {
	data := encodeLog(t,
		layers.NewLogRecord(layers.RecordTypeActivity, 100,
			[]byte{0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x00}),
	)
	// corrupt the trailing checksum byte, samples must still decode
	data[len(data)-1] ^= 0xFF

	outcome, err := ParseLog(data)
	require.NoError(t, err)
	assert.Equal(t, []layers.ActivitySample{{X: 1, Y: 2, Z: 3}}, outcome.Samples)
	assert.Equal(t, 1, outcome.Diagnostics.ChecksumFailures)
}

func TestParseLogUnknownPayloadFormat(t *testing.T) {
	data := encodeLog(t,
		layers.NewLogRecord(layers.RecordTypeActivity, 100, make([]byte, 7)),
	)

	outcome, err := ParseLog(data)
	require.NoError(t, err)
	assert.Empty(t, outcome.Samples)
	assert.Equal(t, []uint16{7}, outcome.Diagnostics.UnknownPayloadSizes)
}

func TestParseLogEmptyActivityPayload(t *testing.T) {
	data := encodeLog(t,
		layers.NewLogRecord(layers.RecordTypeActivity2, 100, []byte{}),
	)

	outcome, err := ParseLog(data)
	require.NoError(t, err)
	assert.Empty(t, outcome.Samples)
	assert.Empty(t, outcome.Diagnostics.UnknownPayloadSizes)
	assert.Zero(t, outcome.Diagnostics.ChecksumFailures)
}

func TestParseLogTruncatedTrailingRecord(t *testing.T) {
	data := encodeLog(t,
		layers.NewLogRecord(layers.RecordTypeActivity, 100,
			[]byte{0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x00}),
		layers.NewLogRecord(layers.RecordTypeActivity, 101, make([]byte, 18)),
	)
	// cut inside the payload of the second record
	data = data[:len(data)-10]

	outcome, err := ParseLog(data)
	require.NoError(t, err)
	assert.Equal(t, []layers.ActivitySample{{X: 1, Y: 2, Z: 3}}, outcome.Samples)
	assert.Equal(t, 1, outcome.Diagnostics.TruncatedRecords)
}

func TestParseLogTruncatedMidHeader(t *testing.T) {
	data := encodeLog(t,
		layers.NewLogRecord(layers.RecordTypeActivity, 100,
			[]byte{0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x00}),
	)
	// a partial header is a clean end of stream, not a truncation
	data = append(data, layers.RecordSeparator, 0x00, 0x10)

	outcome, err := ParseLog(data)
	require.NoError(t, err)
	assert.Len(t, outcome.Samples, 1)
	assert.Zero(t, outcome.Diagnostics.TruncatedRecords)
}

func TestParseLogEmptyBuffer(t *testing.T) {
	outcome, err := ParseLog(nil)
	require.NoError(t, err)
	assert.Empty(t, outcome.Samples)
	assert.Zero(t, outcome.Diagnostics.ChecksumFailures)
	assert.Zero(t, outcome.Diagnostics.TruncatedRecords)
	assert.Empty(t, outcome.Diagnostics.SkippedTypes)
}
