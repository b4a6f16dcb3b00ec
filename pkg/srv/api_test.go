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

package srv

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearlab-io/go-gt3x/pkg/catalog"
	"github.com/wearlab-io/go-gt3x/pkg/config"
	"github.com/wearlab-io/go-gt3x/pkg/gt3x"
	"github.com/wearlab-io/go-gt3x/pkg/layers"
)

func testServer(t *testing.T) *ApiServer {
	t.Helper()
	cat, err := catalog.NewCatalog(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(cat.Close)

	s, err := NewApiServer(context.Background(), config.NewDefaultConfig(), cat)
	require.NoError(t, err)
	s.configureRouter()
	return s
}

func testContainer(t *testing.T) []byte {
	t.Helper()
	logLayer := &layers.GT3XLayer{Records: []*layers.LogRecord{
		layers.NewLogRecord(layers.RecordTypeActivity, 100,
			[]byte{0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x00}),
	}}
	logBuf := gopacket.NewSerializeBuffer()
	require.NoError(t, logLayer.SerializeTo(logBuf,
		gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(gt3x.InfoEntry)
	require.NoError(t, err)
	_, err = w.Write([]byte("Serial Number: NEO1F12345678\nStart Date: 637134336000000000\n"))
	require.NoError(t, err)
	w, err = zw.Create(gt3x.LogEntry)
	require.NoError(t, err)
	_, err = w.Write(logBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestHandleUpload(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/api/recordings", bytes.NewReader(testContainer(t)))
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	summary := &catalog.Summary{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(summary))
	assert.Equal(t, "NEO1F12345678", summary.SerialNumber)
	assert.Equal(t, 1, summary.SampleCount)
	assert.Equal(t, UploadSource, summary.Source)
}

func TestHandleUploadBadContainer(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/api/recordings", strings.NewReader("not a zip"))
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleListAndGet(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/api/recordings", bytes.NewReader(testContainer(t)))
	s.Router.ServeHTTP(httptest.NewRecorder(), req)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/recordings", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var summaries []*catalog.Summary
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&summaries))
	require.Len(t, summaries, 1)

	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/recordings/"+summaries[0].Key(), nil))
	require.Equal(t, http.StatusOK, rr.Code)

	got := &catalog.Summary{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(got))
	assert.Equal(t, summaries[0].SerialNumber, got.SerialNumber)
}

func TestHandleGetNotFound(t *testing.T) {
	s := testServer(t)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/recordings/missing_0", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleConvert(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/api/convert?format=raw", bytes.NewReader(testContainer(t)))
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Timestamp,X,Y,Z", lines[0])
	assert.Equal(t, "2020-01-01 00:00:00.000,1,2,3", lines[1])
}

func TestHandleConvertUnknownFormat(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/api/convert?format=xml", bytes.NewReader(testContainer(t)))
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
