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

package catalog

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wearlab-io/go-gt3x/pkg/catalog"
	"github.com/wearlab-io/go-gt3x/pkg/config"
	"github.com/wearlab-io/go-gt3x/pkg/gt3x"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with the local recording catalog",
	}
	cmd.AddCommand(NewAddCommand())
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewShowCommand())
	return cmd
}

func openCatalog() (*catalog.Catalog, error) {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	return catalog.NewCatalog(context.Background(), cfg.DBPath)
}

func NewAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <recording.gt3x>",
		Short: "Decode a recording and add its summary to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recording, err := gt3x.OpenFile(args[0])
			if err != nil {
				return err
			}
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			summary := catalog.NewSummary(recording)
			if err := cat.Put(summary); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}
	return cmd
}

func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			summaries, err := cat.List()
			if err != nil {
				return err
			}
			for _, summary := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d samples\t%s\n",
					summary.Key(), summary.SampleCount, summary.Source)
			}
			return nil
		},
	}
	return cmd
}

func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show the summary of one cataloged recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			summary, err := cat.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}
	return cmd
}
