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

package device

import (
	"fmt"

	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/scpi"
)

const (
	keysight34465aMinAperture   = 0.000022
	keysight34465aMemorySamples = 2000000
)

// Keysight34465a drives the measurement through the SAMP/TRIG subsystem:
// configure, INIT, then a bus trigger. Readings accumulate in volatile
// memory and are drained with R? or fetched with FETC?.
var Keysight34465a = &Profile{
	Name:            "34465a",
	ErrorQuery:      "SYSTem:ERRor?",
	MinAperture:     keysight34465aMinAperture,
	MemorySamples:   keysight34465aMemorySamples,
	ScreenDumpQuery: "HCOPy:SDUMp:DATA?",

	ConfigCommands: func(acq *config.AcquisitionConfig) ([]string, error) {
		var function, conf string
		switch acq.Measurement {
		case MeasureCurrent:
			function, conf = "CURR", "CONF:CURR:DC"
		case MeasureVoltage:
			function, conf = "VOLT", "CONF:VOLT:DC"
		default:
			return nil, ErrUnknownMeasurement{Kind: acq.Measurement}
		}
		aperture := Aperture(acq, keysight34465aMinAperture, keysight34465aMemorySamples)
		period := acq.SamplePeriod
		if period <= 0 {
			period = aperture
		}
		return []string{
			fmt.Sprintf("SENS:FUNC:ON \"%s:DC\"", function),
			fmt.Sprintf("%s %s", conf, acq.Range),
			fmt.Sprintf("SENS:%s:DC:ZERO:AUTO OFF", function),
			fmt.Sprintf("SENS:%s:DC:APER %g", function, aperture),
			fmt.Sprintf("SAMP:COUNT %d", acq.SampleCount()),
			"TRIG:SOUR BUS",
			"SAMP:SOUR TIM",
			fmt.Sprintf("SAMP:TIM %g", period),
			"INIT",
		}, nil
	},

	TriggerCommands: func(acq *config.AcquisitionConfig) []string {
		return []string{"*TRG"}
	},

	BulkFetchCommand: func(ch *scpi.Channel, acq *config.AcquisitionConfig) (string, error) {
		return "FETC?", nil
	},
}

// Aperture returns the configured integration aperture, or the smallest
// aperture that still fits the whole run into instrument memory, floored at
// the instrument minimum.
func Aperture(acq *config.AcquisitionConfig, minAperture float64, memorySamples int) float64 {
	if acq.Aperture > 0 {
		return acq.Aperture
	}
	aperture := acq.Duration / float64(memorySamples)
	if aperture < minAperture {
		aperture = minAperture
	}
	return aperture
}
