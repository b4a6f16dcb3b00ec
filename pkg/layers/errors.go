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
	"fmt"
)

// ErrTruncatedRecord returned when a record header declares more payload
// bytes than the stream still holds
type ErrTruncatedRecord struct {
	Offset  int
	Missing int
}

func (e ErrTruncatedRecord) Error() string {
	return fmt.Sprintf("Truncated record at offset %d: %d bytes missing", e.Offset, e.Missing)
}
