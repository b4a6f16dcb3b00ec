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

package layers

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/wearlab-io/go-gt3x/pkg/log"
)

const (
	// GT3XLayerNum identifies the layer
	GT3XLayerNum = 2026
)

const (
	// RecordSeparator is the marker byte every record header starts with.
	// It is a sanity signal only. The format carries no resync markers, so
	// the separator is never used to recover from a misaligned stream.
	RecordSeparator byte = 0x1E

	// RecordHeaderSize is separator + type + timestamp + payload size
	RecordHeaderSize = 8
)

type RecordType uint8

const (
	// RecordTypeActivity carries tri-axial samples (original firmware)
	RecordTypeActivity RecordType = 0
	// RecordTypeActivity2 carries tri-axial samples (newer firmware).
	// Whether it truly shares the payload layout of RecordTypeActivity is
	// unresolved, both are decoded identically until real captures prove
	// otherwise.
	RecordTypeActivity2 RecordType = 26
)

// ActivityBearing reports whether payloads of this record type encode
// tri-axial samples
func (t RecordType) ActivityBearing() bool {
	return t == RecordTypeActivity || t == RecordTypeActivity2
}

// LogRecord is one framed unit of the log.bin stream:
// 8-byte header, variable payload, one trailing checksum byte.
type LogRecord struct {
	Separator   byte
	Type        RecordType
	Timestamp   uint32 // device clock, seconds
	PayloadSize uint16
	Payload     []byte
	Checksum    byte
}

// ComputeChecksum returns the 1's complement of the XOR of all header and
// payload bytes
func (r *LogRecord) ComputeChecksum() byte {
	var sum byte
	sum ^= r.Separator
	sum ^= byte(r.Type)
	var header [6]byte
	binary.LittleEndian.PutUint32(header[0:4], r.Timestamp)
	binary.LittleEndian.PutUint16(header[4:6], r.PayloadSize)
	for _, b := range header {
		sum ^= b
	}
	for _, b := range r.Payload {
		sum ^= b
	}
	return ^sum
}

// ChecksumValid compares the stored checksum with the computed one
func (r *LogRecord) ChecksumValid() bool {
	return r.Checksum == r.ComputeChecksum()
}

// Serialize writes the record into buf which must be at least
// RecordHeaderSize + len(Payload) + 1 bytes long
func (r *LogRecord) Serialize(buf []byte) error {
	buf[0] = r.Separator
	buf[1] = byte(r.Type)
	binary.LittleEndian.PutUint32(buf[2:6], r.Timestamp)
	binary.LittleEndian.PutUint16(buf[6:8], r.PayloadSize)
	copy(buf[RecordHeaderSize:], r.Payload)
	buf[RecordHeaderSize+len(r.Payload)] = r.Checksum
	return nil
}

// NewLogRecord builds a record with the separator, payload size and
// checksum filled in
func NewLogRecord(recordType RecordType, timestamp uint32, payload []byte) *LogRecord {
	r := &LogRecord{
		Separator:   RecordSeparator,
		Type:        recordType,
		Timestamp:   timestamp,
		PayloadSize: uint16(len(payload)),
		Payload:     payload,
	}
	r.Checksum = r.ComputeChecksum()
	return r
}

// GT3XLayer ...
type GT3XLayer struct {
	layers.BaseLayer
	Records []*LogRecord
	// Truncated is set when the stream ends inside a record, i.e. a header
	// was read but header + payload + checksum do not fit in the remaining
	// bytes. The bytes before the truncated record decode normally.
	Truncated bool
}

var GT3XLayerType = gopacket.RegisterLayerType(GT3XLayerNum,
	gopacket.LayerTypeMetadata{Name: "GT3XLayerType", Decoder: gopacket.DecodeFunc(DecodeGT3XLayer)})

// LayerType returns the type of the GT3X log layer in the layer catalog
func (l *GT3XLayer) LayerType() gopacket.LayerType {
	return GT3XLayerType
}

// SerializeTo serializes all records into bytes and writes the bytes to the
// SerializeBuffer. With opts.FixLengths the payload size fields are recomputed
// from the payloads, with opts.ComputeChecksums the checksum bytes are.
func (l *GT3XLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	for _, record := range l.Records {
		if opts.FixLengths {
			record.PayloadSize = uint16(len(record.Payload))
		}
		if opts.ComputeChecksums {
			record.Checksum = record.ComputeChecksum()
		}
		recordBytes, err := b.AppendBytes(RecordHeaderSize + len(record.Payload) + 1)
		if err != nil {
			return err
		}
		if err := record.Serialize(recordBytes); err != nil {
			return err
		}
	}
	return nil
}

// DecodeRecord decodes one record starting at offset and returns the offset
// of the next record.
// data is the whole log.bin stream.
func (l *GT3XLayer) DecodeRecord(offset int, data []byte) (int, error) {
	payloadSize := binary.LittleEndian.Uint16(data[offset+6 : offset+8])
	// end of record is current offset + header size + payload size + checksum byte
	newOffset := offset + RecordHeaderSize + int(payloadSize) + 1
	if newOffset > len(data) {
		return offset, ErrTruncatedRecord{Offset: offset, Missing: newOffset - len(data)}
	}

	record := &LogRecord{
		Separator:   data[offset],
		Type:        RecordType(data[offset+1]),
		Timestamp:   binary.LittleEndian.Uint32(data[offset+2 : offset+6]),
		PayloadSize: payloadSize,
		Payload:     data[offset+RecordHeaderSize : newOffset-1],
		Checksum:    data[newOffset-1],
	}

	if record.Separator != RecordSeparator {
		// Not fatal. The declared payload size is the only framing signal,
		// so decoding continues at newOffset either way.
		log.Warning("Unexpected separator at offset %d: %02x", offset, record.Separator)
	}

	if log.DebugEnabled() {
		log.Debug("DecodeRecord: offset: %d type: %d timestamp: %d payload size: %d",
			offset, record.Type, record.Timestamp, record.PayloadSize)
		log.Debug("DecodeRecord: payload:\n%s", hex.Dump(record.Payload))
	}

	l.Records = append(l.Records, record)

	return newOffset, nil
}

// DecodeFromBytes frames all records in data. Fewer than RecordHeaderSize
// bytes remaining is a clean end of stream. A record whose declared payload
// does not fit marks the layer truncated and ends decoding, the complete
// records before it are kept.
func (l *GT3XLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	l.BaseLayer = layers.BaseLayer{
		Contents: data,
		Payload:  []byte{},
	}

	offset := 0
	for offset+RecordHeaderSize <= len(data) {
		newOffset, err := l.DecodeRecord(offset, data)
		if err != nil {
			if _, ok := err.(ErrTruncatedRecord); ok {
				l.Truncated = true
				df.SetTruncated()
				return nil
			}
			return err
		}
		offset = newOffset
	}
	return nil
}

func DecodeGT3XLayer(data []byte, p gopacket.PacketBuilder) error {
	l := &GT3XLayer{}
	err := l.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(l)
	return nil
}
