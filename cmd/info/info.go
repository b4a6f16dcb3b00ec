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

package info

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wearlab-io/go-gt3x/pkg/gt3x"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <recording.gt3x>",
		Short: "Print device metadata of a .gt3x recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recording, err := gt3x.OpenFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), recording.Info.String())
			return nil
		},
	}
	return cmd
}
