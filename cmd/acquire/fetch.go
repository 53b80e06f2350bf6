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

package acquire

import (
	"github.com/spf13/cobra"

	pkgacquire "github.com/greenlab/go-dmm/pkg/acquire"
	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/device"
	"github.com/greenlab/go-dmm/pkg/sink"
)

// NewFetchCommand downloads a dataset the meter already holds, validating
// the count against the configured settings before persisting it.
func NewFetchCommand() *cobra.Command {
	var address, model, output string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download an existing dataset from the meter buffer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Address = address
			}
			if model != "" {
				cfg.Model = model
			}
			if output != "" {
				cfg.Acquisition.Output = output
			}

			meter, err := device.NewMeter(cfg)
			if err != nil {
				return err
			}
			if err := meter.Connect(); err != nil {
				return err
			}
			defer meter.Close()

			catalog, err := sink.NewCatalog(cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer catalog.Close()

			ctrl := pkgacquire.NewController(meter, cfg.Acquisition, sink.NewFileSink(catalog), pkgacquire.LogObserver{})
			return ctrl.Fetch()
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", "Meter address. E.g. 192.168.1.188")
	cmd.Flags().StringVar(&model, ModelOptionName, "", "Meter model. One of: 34465a, dmm6500")
	cmd.Flags().StringVar(&output, OutputOptionName, "", "Output file for the sample series")
	return cmd
}
