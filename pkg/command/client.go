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

package command

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/imroc/req"

	"github.com/wearlab-io/go-gt3x/pkg/catalog"
	"github.com/wearlab-io/go-gt3x/pkg/command/ifc"
	"github.com/wearlab-io/go-gt3x/pkg/config"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) ifc.ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Address, cfg.Port),
	}
}

func (c *ApiClient) recordingsUrl() string {
	return fmt.Sprintf("%s/recordings", c.ApiPrefix)
}

func (c *ApiClient) recordingUrl(key string) string {
	return fmt.Sprintf("%s/recordings/%s", c.ApiPrefix, key)
}

// Upload sends the container bytes to the server and returns the decode summary
func (c *ApiClient) Upload(path string) (*catalog.Summary, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := req.Post(c.recordingsUrl(), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	summary := &catalog.Summary{}
	err = r.ToJSON(summary)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// List fetches summaries of all recordings known to the server
func (c *ApiClient) List() ([]*catalog.Summary, error) {
	r, err := req.Get(c.recordingsUrl())
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var summaries []*catalog.Summary
	err = r.ToJSON(&summaries)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Show fetches the summary of one recording
func (c *ApiClient) Show(key string) (*catalog.Summary, error) {
	r, err := req.Get(c.recordingUrl(key))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	summary := &catalog.Summary{}
	err = r.ToJSON(summary)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
