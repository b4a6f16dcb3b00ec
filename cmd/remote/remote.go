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

package remote

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wearlab-io/go-gt3x/pkg/command"
	"github.com/wearlab-io/go-gt3x/pkg/command/ifc"
	"github.com/wearlab-io/go-gt3x/pkg/config"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
)

func newClient(address string, port int) ifc.ApiClient {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	if address != "" {
		cfg.Address = address
	}
	if port != 0 {
		cfg.Port = port
	}
	return command.NewApiClient(cfg)
}

func NewCommand() *cobra.Command {
	var address string
	var port int
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Work with a running go-gt3x API server",
	}
	cmd.AddCommand(NewUploadCommand(&address, &port))
	cmd.AddCommand(NewListCommand(&address, &port))
	cmd.AddCommand(NewShowCommand(&address, &port))
	cmd.PersistentFlags().StringVar(&address, AddressOptionName, "", "Server address. E.g. 127.0.0.1")
	cmd.PersistentFlags().IntVar(&port, PortOptionName, 0, "Server port. E.g. 8042")
	return cmd
}

func NewUploadCommand(address *string, port *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <recording.gt3x>",
		Short: "Upload a recording for decoding and cataloging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := newClient(*address, *port).Upload(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}
	return cmd
}

func NewListCommand(address *string, port *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recordings cataloged by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := newClient(*address, *port).List()
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

func NewShowCommand(address *string, port *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show the summary of one recording cataloged by the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := newClient(*address, *port).Show(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}
	return cmd
}
