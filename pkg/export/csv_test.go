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

package export

import (
	"archive/zip"
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearlab-io/go-gt3x/pkg/gt3x"
	"github.com/wearlab-io/go-gt3x/pkg/layers"
)

// ticks for 2020-01-01T00:00:00Z
const startTicks = "637134336000000000"

func testRecording(samples ...layers.ActivitySample) *gt3x.Recording {
	outcome := gt3x.NewParseOutcome()
	outcome.Samples = samples
	return &gt3x.Recording{
		Info: gt3x.Metadata{
			gt3x.KeySerialNumber:      "NEO1F12345678",
			gt3x.KeySampleRate:        "30",
			gt3x.KeyAccelerationScale: "256.0",
			gt3x.KeyStartDate:         startTicks,
		},
		HasLog:  true,
		Outcome: outcome,
	}
}

func TestWriteCSVActiLife(t *testing.T) {
	recording := testRecording(
		layers.ActivitySample{X: 100, Y: 200, Z: 300},
		layers.ActivitySample{X: -256, Y: 0, Z: 256},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recording, Options{Format: FormatActiLife}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 13)
	assert.Contains(t, lines[0], "Data File Created By ActiGraph GT3X+ ActiLife")
	assert.Contains(t, lines[0], "at 30 Hz")
	assert.Equal(t, "Serial Number: NEO1F12345678", lines[1])
	assert.Equal(t, "Start Date 01/01/2020", lines[3])
	assert.Equal(t, "Accelerometer X,Accelerometer Y,Accelerometer Z", lines[10])
	assert.Equal(t, "0.391,0.781,1.172", lines[11])
	assert.Equal(t, "-1.000,0.000,1.000", lines[12])
}

func TestWriteCSVRaw(t *testing.T) {
	recording := testRecording(
		layers.ActivitySample{X: 1, Y: 2, Z: 3},
		layers.ActivitySample{X: -4, Y: 5, Z: -6},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recording, Options{Format: FormatRaw}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Timestamp,X,Y,Z", lines[0])
	assert.Equal(t, "2020-01-01 00:00:00.000,1,2,3", lines[1])
	// second sample lands 1/30 s after the start
	assert.Equal(t, "2020-01-01 00:00:00.033,-4,5,-6", lines[2])
}

func TestWriteCSVRateOverride(t *testing.T) {
	recording := testRecording(
		layers.ActivitySample{X: 1, Y: 2, Z: 3},
		layers.ActivitySample{X: 4, Y: 5, Z: 6},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recording, Options{Format: FormatRaw, SampleRate: 1}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2020-01-01 00:00:01.000,4,5,6", lines[2])
}

func TestWriteCSVUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, testRecording(), Options{Format: "xml"})
	assert.IsType(t, ErrUnknownFormat{}, err)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()

	logLayer := &layers.GT3XLayer{Records: []*layers.LogRecord{
		layers.NewLogRecord(layers.RecordTypeActivity, 100,
			[]byte{0x00, 0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00}),
	}}
	logBuf := gopacket.NewSerializeBuffer()
	require.NoError(t, logLayer.SerializeTo(logBuf, gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}))

	var container bytes.Buffer
	zw := zip.NewWriter(&container)
	w, err := zw.Create(gt3x.InfoEntry)
	require.NoError(t, err)
	_, err = w.Write([]byte("Serial Number: NEO1F12345678\nAcceleration Scale: 256.0\nStart Date: " + startTicks + "\n"))
	require.NoError(t, err)
	w, err = zw.Create(gt3x.LogEntry)
	require.NoError(t, err)
	_, err = w.Write(logBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	input := filepath.Join(dir, "recording.gt3x")
	output := filepath.Join(dir, "recording.csv")
	require.NoError(t, ioutil.WriteFile(input, container.Bytes(), 0644))

	require.NoError(t, ConvertFile(input, output, Options{Format: FormatActiLife}))

	content, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "1.000,2.000,3.000", lines[11])
}

func TestConvertFileWithoutLog(t *testing.T) {
	dir := t.TempDir()

	var container bytes.Buffer
	zw := zip.NewWriter(&container)
	w, err := zw.Create(gt3x.InfoEntry)
	require.NoError(t, err)
	_, err = w.Write([]byte("Serial Number: NEO1F12345678\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	input := filepath.Join(dir, "metadata-only.gt3x")
	require.NoError(t, ioutil.WriteFile(input, container.Bytes(), 0644))

	err = ConvertFile(input, filepath.Join(dir, "out.csv"), Options{})
	assert.IsType(t, gt3x.ErrNoLogEntry{}, err)
}
