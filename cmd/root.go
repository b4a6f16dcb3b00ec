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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	catalogcmd "github.com/wearlab-io/go-gt3x/cmd/catalog"
	"github.com/wearlab-io/go-gt3x/cmd/completion"
	configcmd "github.com/wearlab-io/go-gt3x/cmd/config"
	"github.com/wearlab-io/go-gt3x/cmd/convert"
	"github.com/wearlab-io/go-gt3x/cmd/info"
	"github.com/wearlab-io/go-gt3x/cmd/inspect"
	"github.com/wearlab-io/go-gt3x/cmd/remote"
	"github.com/wearlab-io/go-gt3x/cmd/serve"
	pkgconfig "github.com/wearlab-io/go-gt3x/pkg/config"
	"github.com/wearlab-io/go-gt3x/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "go-gt3x",
		Short: "Tool to work with ActiGraph GT3X accelerometer recordings",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(convert.NewCommand())
	cmd.AddCommand(info.NewCommand())
	cmd.AddCommand(inspect.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(catalogcmd.NewCommand())
	cmd.AddCommand(configcmd.NewCommand())
	cmd.AddCommand(remote.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
