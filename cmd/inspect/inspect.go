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

package inspect

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/gopacket"
	"github.com/spf13/cobra"

	"github.com/wearlab-io/go-gt3x/pkg/gt3x"
	"github.com/wearlab-io/go-gt3x/pkg/layers"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <recording.gt3x>",
		Short: "Print the record structure of the log stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logData, err := gt3x.ReadLogEntry(args[0])
			if err != nil {
				return err
			}

			layer := &layers.GT3XLayer{}
			if err := layer.DecodeFromBytes(logData, gopacket.NilDecodeFeedback); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTYPE\tTIMESTAMP\tPAYLOAD\tFORMAT\tCHECKSUM")
			for i, record := range layer.Records {
				format := "-"
				if record.Type.ActivityBearing() {
					format = layers.FormatFor(len(record.Payload)).String()
				}
				checksum := "ok"
				if !record.ChecksumValid() {
					checksum = "MISMATCH"
				}
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\n",
					i, record.Type, record.Timestamp, record.PayloadSize, format, checksum)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if layer.Truncated {
				fmt.Fprintf(cmd.OutOrStdout(), "stream truncated after %d complete records\n", len(layer.Records))
			}
			return nil
		},
	}
	return cmd
}
