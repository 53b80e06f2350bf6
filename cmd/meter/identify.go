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

package meter

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/device"
)

func NewIdentifyCommand() *cobra.Command {
	var address, model string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Query the instrument identity string",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Address = address
			}
			if model != "" {
				cfg.Model = model
			}
			m, err := device.NewMeter(cfg)
			if err != nil {
				return err
			}
			if err := m.Connect(); err != nil {
				return err
			}
			defer m.Close()
			idn, err := m.Identify()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), idn)
			return nil
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", "Meter address. E.g. 192.168.1.188")
	cmd.Flags().StringVar(&model, ModelOptionName, "", "Meter model. One of: 34465a, dmm6500")
	return cmd
}
