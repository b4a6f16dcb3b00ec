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

package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wearlab-io/go-gt3x/pkg/export"
)

const (
	OutputOptionName = "output"
	FormatOptionName = "format"
	RateOptionName   = "sample-rate"
	ScaleOptionName  = "scale"
)

// defaultOutput derives the CSV path from the input path
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".csv"
}

func NewCommand() *cobra.Command {
	var output, format string
	var sampleRate, scale float64
	cmd := &cobra.Command{
		Use:   "convert <recording.gt3x>",
		Short: "Convert a .gt3x recording to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = defaultOutput(input)
			}
			opts := export.Options{
				Format:            format,
				SampleRate:        sampleRate,
				AccelerationScale: scale,
			}
			return export.ConvertFile(input, output, opts)
		},
	}
	cmd.Flags().StringVar(&output, OutputOptionName, "", "Output CSV path. Defaults to the input path with a .csv extension")
	cmd.Flags().StringVar(&format, FormatOptionName, export.FormatActiLife,
		fmt.Sprintf("Output format. One of: %s, %s", export.FormatActiLife, export.FormatRaw))
	cmd.Flags().Float64Var(&sampleRate, RateOptionName, 0, "Sample rate in Hz. Overrides the value from info.txt")
	cmd.Flags().Float64Var(&scale, ScaleOptionName, 0, "Raw units per g. Overrides the value from info.txt")
	return cmd
}
