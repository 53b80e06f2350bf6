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
	"context"

	"github.com/spf13/cobra"

	pkgacquire "github.com/greenlab/go-dmm/pkg/acquire"
	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/device"
	"github.com/greenlab/go-dmm/pkg/log"
	"github.com/greenlab/go-dmm/pkg/sink"
	"github.com/greenlab/go-dmm/pkg/srv"
)

const (
	AddressOptionName      = "address"
	ModelOptionName        = "model"
	MeasurementOptionName  = "measurement"
	RangeOptionName        = "range"
	SamplesOptionName      = "samples"
	DurationOptionName     = "duration"
	SamplePeriodOptionName = "sample-period"
	OutputOptionName       = "output"
	ServeOptionName        = "serve"
)

// flagOverrides applies non-empty flag values on top of the loaded config
// through the typed field parsers.
func flagOverrides(cfg *config.Config, fields map[string]string) error {
	for field, value := range fields {
		if value == "" {
			continue
		}
		if err := cfg.SetField(field, value); err != nil {
			return err
		}
	}
	return nil
}

func NewCommand() *cobra.Command {
	var address, model, measurement, mrange, samples, duration, samplePeriod, output string
	var serve bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "acquire",
		Short: "Run a measurement and save the data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Address = address
			}
			if model != "" {
				cfg.Model = model
			}
			err := flagOverrides(cfg, map[string]string{
				"measurement":   measurement,
				"range":         mrange,
				"samples":       samples,
				"duration":      duration,
				"sample_period": samplePeriod,
				"output":        output,
			})
			if err != nil {
				return err
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
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if serve {
				idn, err := meter.Identify()
				if err != nil {
					return err
				}
				api, err := srv.NewApiServer(ctx, ctrl, idn, cancel)
				if err != nil {
					return err
				}
				go func() {
					if err := api.Run(); err != nil {
						log.Error("Monitor API server stopped: %v", err)
					}
				}()
			}

			log.Info("Samples requested: %d", cfg.Acquisition.SampleCount())
			return ctrl.Run(ctx)
		},
	}
	cmd.AddCommand(NewFetchCommand())
	cmd.Flags().StringVar(&address, AddressOptionName, "", "Meter address. E.g. 192.168.1.188")
	cmd.Flags().StringVar(&model, ModelOptionName, "", "Meter model. One of: 34465a, dmm6500")
	cmd.Flags().StringVar(&output, OutputOptionName, "", "Output file for the sample series")
	cmd.Flags().StringVar(&measurement, MeasurementOptionName, "", "Measurement kind. One of: current, voltage")
	cmd.Flags().StringVar(&mrange, RangeOptionName, "", "Measurement range. E.g. 100e-3")
	cmd.Flags().StringVar(&samples, SamplesOptionName, "", "Number of samples to take")
	cmd.Flags().StringVar(&duration, DurationOptionName, "", "Measurement duration in seconds")
	cmd.Flags().StringVar(&samplePeriod, SamplePeriodOptionName, "", "Sample period in seconds")
	cmd.Flags().BoolVar(&serve, ServeOptionName, false, "Expose acquisition progress over the monitor API")
	return cmd
}
