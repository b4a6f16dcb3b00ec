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

package serve

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wearlab-io/go-gt3x/pkg/catalog"
	"github.com/wearlab-io/go-gt3x/pkg/config"
	"github.com/wearlab-io/go-gt3x/pkg/srv"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
)

func NewCommand() *cobra.Command {
	var address string
	var port int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the go-gt3x API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Address = address
			}
			if port != 0 {
				cfg.Port = port
			}

			ctx := context.Background()
			cat, err := catalog.NewCatalog(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer cat.Close()

			server, err := srv.NewApiServer(ctx, cfg, cat)
			if err != nil {
				return err
			}
			return server.Run()
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", "Address to bind. E.g. 127.0.0.1")
	cmd.Flags().IntVar(&port, PortOptionName, 0, "Port number to bind. E.g. 8042")

	return cmd
}
