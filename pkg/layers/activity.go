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
)

// ActivitySample is one tri-axial reading in raw device units. Scaling to
// physical units is done by the export layer using the acceleration scale
// from info.txt.
type ActivitySample struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`
}

// SampleFormat is the per-record sample packing, selected by payload size.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatNineByte
	FormatSixByte
	FormatThreeByte
)

func (f SampleFormat) String() string {
	switch f {
	case FormatNineByte:
		return "9-byte"
	case FormatSixByte:
		return "6-byte"
	case FormatThreeByte:
		return "3-byte"
	default:
		return "unknown"
	}
}

// SampleSize returns the number of payload bytes per sample, 0 for FormatUnknown
func (f SampleFormat) SampleSize() int {
	switch f {
	case FormatNineByte:
		return 9
	case FormatSixByte:
		return 6
	case FormatThreeByte:
		return 3
	default:
		return 0
	}
}

// FormatFor selects the sample packing for an activity payload. Selection is
// size driven, not type driven, and the precedence order 9/6/3 matters: a
// payload divisible by 9 is always treated as 9-byte samples even when it is
// also divisible by 6 or 3. An empty payload selects FormatNineByte and
// decodes to zero samples.
func FormatFor(payloadSize int) SampleFormat {
	switch {
	case payloadSize%9 == 0:
		return FormatNineByte
	case payloadSize%6 == 0:
		return FormatSixByte
	case payloadSize%3 == 0:
		return FormatThreeByte
	default:
		return FormatUnknown
	}
}

// signed24 interprets three little-endian bytes as a two's-complement
// 24-bit integer
func signed24(b []byte) int32 {
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	if v >= 0x800000 {
		return int32(v) - 0x1000000
	}
	return int32(v)
}

func decodeNineByteSamples(payload []byte) []ActivitySample {
	samples := make([]ActivitySample, 0, len(payload)/9)
	for i := 0; i+9 <= len(payload); i += 9 {
		samples = append(samples, ActivitySample{
			X: signed24(payload[i : i+3]),
			Y: signed24(payload[i+3 : i+6]),
			Z: signed24(payload[i+6 : i+9]),
		})
	}
	return samples
}

func decodeSixByteSamples(payload []byte) []ActivitySample {
	samples := make([]ActivitySample, 0, len(payload)/6)
	for i := 0; i+6 <= len(payload); i += 6 {
		samples = append(samples, ActivitySample{
			X: int32(int16(binary.LittleEndian.Uint16(payload[i : i+2]))),
			Y: int32(int16(binary.LittleEndian.Uint16(payload[i+2 : i+4]))),
			Z: int32(int16(binary.LittleEndian.Uint16(payload[i+4 : i+6]))),
		})
	}
	return samples
}

// decodeThreeByteSamples treats each byte as one unsigned axis value.
// The true 3-byte layout is undocumented, device comments hint at packed
// 12-bit triplets, but no capture has confirmed that. The byte-per-axis
// reading is kept unchanged for compatibility rather than guessing at a
// "corrected" bit layout.
func decodeThreeByteSamples(payload []byte) []ActivitySample {
	samples := make([]ActivitySample, 0, len(payload)/3)
	for i := 0; i+3 <= len(payload); i += 3 {
		samples = append(samples, ActivitySample{
			X: int32(payload[i]),
			Y: int32(payload[i+1]),
			Z: int32(payload[i+2]),
		})
	}
	return samples
}

// DecodeActivityPayload decodes the payload of an activity-bearing record
// into samples. It returns the selected format, FormatUnknown means the
// payload size fits no known packing and no samples were produced.
func DecodeActivityPayload(payload []byte) ([]ActivitySample, SampleFormat) {
	format := FormatFor(len(payload))
	switch format {
	case FormatNineByte:
		return decodeNineByteSamples(payload), format
	case FormatSixByte:
		return decodeSixByteSamples(payload), format
	case FormatThreeByte:
		return decodeThreeByteSamples(payload), format
	default:
		return nil, FormatUnknown
	}
}
