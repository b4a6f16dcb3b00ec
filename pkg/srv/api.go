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

// go-gt3x API
//
// RESTful APIs to interact with the go-gt3x server
//
//     Schemes: http
//     Host: localhost:8042
//     Version: 1.0.0
//
//     Consumes:
//     - application/octet-stream
//
//     Produces:
//     - application/json
//     - text/csv
//
// swagger:meta
package srv

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wearlab-io/go-gt3x/pkg/catalog"
	"github.com/wearlab-io/go-gt3x/pkg/config"
	"github.com/wearlab-io/go-gt3x/pkg/export"
	"github.com/wearlab-io/go-gt3x/pkg/gt3x"
	"github.com/wearlab-io/go-gt3x/pkg/log"
)

const (
	UploadSource = "upload"
)

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	catalog *catalog.Catalog
}

func NewApiServer(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.Address, cfg.Port)

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		catalog: cat,
	}
	return s, nil
}

// Run ...
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.Address, s.Config.Port)
	s.configureRouter()
	httpServer := &http.Server{
		Handler: s.Router,
		Addr:    fmt.Sprintf("%s:%d", s.Config.Address, s.Config.Port),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	// swagger:operation POST /recordings recordings uploadRecording
	// ---
	// summary: Decode an uploaded .gt3x container and add it to the catalog
	// description: The request body is the raw container. The decode summary is returned.
	subRouter.HandleFunc("/recordings", s.handleUpload()).Methods("POST")
	// swagger:operation GET /recordings recordings listRecordings
	// ---
	// summary: Return summaries of all cataloged recordings
	subRouter.HandleFunc("/recordings", s.handleList()).Methods("GET")
	// swagger:operation GET /recordings/{key} recordings getRecording
	// ---
	// summary: Return the summary of one cataloged recording
	subRouter.HandleFunc("/recordings/{key}", s.handleGet()).Methods("GET")
	// swagger:operation POST /convert recordings convertRecording
	// ---
	// summary: Decode an uploaded .gt3x container and return it as CSV
	// description: The format query parameter selects actilife or raw output.
	subRouter.HandleFunc("/convert", s.handleConvert()).Methods("POST")
}

func (s *ApiServer) parseBody(w http.ResponseWriter, r *http.Request) *gt3x.Recording {
	data, err := ioutil.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	recording, err := gt3x.Parse(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	return recording
}

func (s *ApiServer) handleUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recording := s.parseBody(w, r)
		if recording == nil {
			return
		}
		summary := catalog.NewSummary(recording)
		summary.Source = UploadSource
		if err := s.catalog.Put(summary); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}

func (s *ApiServer) handleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := s.catalog.List()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summaries)
	}
}

func (s *ApiServer) handleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		summary, err := s.catalog.Get(vars["key"])
		if err != nil {
			if _, ok := err.(catalog.ErrSummaryNotFound); ok {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}

func (s *ApiServer) handleConvert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := export.Options{Format: r.URL.Query().Get("format")}
		if opts.Format == "" {
			opts.Format = export.FormatActiLife
		}
		if opts.Format != export.FormatActiLife && opts.Format != export.FormatRaw {
			http.Error(w, export.ErrUnknownFormat{Format: opts.Format}.Error(), http.StatusBadRequest)
			return
		}
		recording := s.parseBody(w, r)
		if recording == nil {
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteCSV(w, recording, opts); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
