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
	"fmt"
)

// ErrContainerOpen returned when the .gt3x container can not be opened as
// a zip archive
type ErrContainerOpen struct {
	Path string
	Err  error
}

func (e ErrContainerOpen) Error() string {
	return fmt.Sprintf("Can not open container %s: %s", e.Path, e.Err)
}

func (e ErrContainerOpen) Unwrap() error {
	return e.Err
}

// ErrNoLogEntry returned by callers that need samples from a container
// without a log.bin entry
type ErrNoLogEntry struct {
	Path string
}

func (e ErrNoLogEntry) Error() string {
	return fmt.Sprintf("Container has no %s entry: %s", LogEntry, e.Path)
}
