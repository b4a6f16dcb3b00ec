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

package ifc

import (
	"github.com/wearlab-io/go-gt3x/pkg/catalog"
)

type ApiClient interface {
	// Upload sends a .gt3x container to the server for decoding and cataloging
	Upload(path string) (*catalog.Summary, error)
	// List fetches the summaries of all cataloged recordings
	List() ([]*catalog.Summary, error)
	// Show fetches the summary of one cataloged recording
	Show(key string) (*catalog.Summary, error)
}
