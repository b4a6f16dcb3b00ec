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
	"archive/zip"
	"bytes"
	"io/ioutil"

	"github.com/wearlab-io/go-gt3x/pkg/log"
)

// Entry names inside a .gt3x container
const (
	InfoEntry = "info.txt"
	LogEntry  = "log.bin"
)

// Recording is one fully decoded .gt3x container: metadata plus the parse
// outcome of its log stream
type Recording struct {
	// Path is the source file, empty for in-memory buffers
	Path string
	Info Metadata
	// HasLog reports whether the container carried a log.bin entry.
	// Without one the outcome is empty but the metadata is still usable.
	HasLog  bool
	Outcome *ParseOutcome
}

func (r *Recording) SampleCount() int {
	return len(r.Outcome.Samples)
}

// readEntry returns the content of the named container entry, nil if the
// entry does not exist
func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return ioutil.ReadAll(rc)
	}
	return nil, nil
}

// Parse decodes a whole .gt3x container held in memory. A missing info.txt
// yields empty metadata, a missing log.bin yields an empty outcome, neither
// is an error. A log.bin that fails mid-stream returns the partial recording
// together with the error.
func Parse(data []byte) (*Recording, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrContainerOpen{Err: err}
	}

	recording := &Recording{
		Info:    make(Metadata),
		Outcome: NewParseOutcome(),
	}

	infoData, err := readEntry(zr, InfoEntry)
	if err != nil {
		return nil, err
	}
	if infoData != nil {
		recording.Info = ParseInfo(string(infoData))
		log.Debug("Parsed %s: %d keys", InfoEntry, len(recording.Info))
	}

	logData, err := readEntry(zr, LogEntry)
	if err != nil {
		return nil, err
	}
	if logData != nil {
		recording.HasLog = true
		outcome, err := ParseLog(logData)
		recording.Outcome = outcome
		if err != nil {
			return recording, err
		}
	}

	return recording, nil
}

// ReadLogEntry returns the raw log.bin bytes of a container on disk without
// decoding them. Used for record-level inspection.
func ReadLogEntry(path string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrContainerOpen{Path: path, Err: err}
	}
	logData, err := readEntry(zr, LogEntry)
	if err != nil {
		return nil, err
	}
	if logData == nil {
		return nil, ErrNoLogEntry{Path: path}
	}
	return logData, nil
}

// OpenFile reads and decodes a .gt3x container from disk
func OpenFile(path string) (*Recording, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	recording, err := Parse(data)
	if recording != nil {
		recording.Path = path
	}
	if err != nil {
		if open, ok := err.(ErrContainerOpen); ok {
			open.Path = path
			return recording, open
		}
		return recording, err
	}
	return recording, nil
}
