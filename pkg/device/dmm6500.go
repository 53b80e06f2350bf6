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
	"strconv"

	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/scpi"
)

const (
	dmm6500MinAperture   = 0.000001
	dmm6500MemorySamples = 2000000
)

// DMM6500 records digitized readings into a named reading buffer. The
// default buffers are shrunk out of the way, a dedicated buffer is created
// per run, and the bulk fetch walks the buffer up to its last index.
var DMM6500 = &Profile{
	Name:          "dmm6500",
	ErrorQuery:    ":SYSTem:ERRor:NEXT?",
	ClearCommand:  ":SYSTem:CLEar",
	MinAperture:   dmm6500MinAperture,
	MemorySamples: dmm6500MemorySamples,

	ConfigCommands: func(acq *config.AcquisitionConfig) ([]string, error) {
		switch acq.Measurement {
		case MeasureCurrent:
			rate := dmm6500SampleRate(acq)
			if rate <= 0 {
				return nil, ErrUnknownMeasurement{Kind: "current digitize needs a sample period"}
			}
			return []string{
				":SENS:DIG:FUNC \"CURR\"",
				":TRACe:POINts 10, \"defbuffer1\"",
				":TRACe:POINts 10, \"defbuffer2\"",
				fmt.Sprintf(":TRACe:MAKE \"%s\", %d", acq.Buffer, acq.SampleCount()),
				fmt.Sprintf(":SENS:DIG:CURR:RANG %s", acq.Range),
				fmt.Sprintf(":SENS:DIG:CURR:SRATE %d", rate),
				fmt.Sprintf(":SENS:DIG:COUN %d", acq.SampleCount()),
			}, nil
		case MeasureVoltage:
			aperture := Aperture(acq, dmm6500MinAperture, dmm6500MemorySamples)
			period := acq.SamplePeriod
			if period <= 0 {
				period = aperture
			}
			return []string{
				"SENS:FUNC:ON \"VOLT:DC\"",
				fmt.Sprintf("CONF:VOLT:DC %s", acq.Range),
				"SENS:VOLT:DC:ZERO:AUTO OFF",
				fmt.Sprintf("SENS:VOLT:DC:APER %g", aperture),
				fmt.Sprintf("SAMP:COUNT %d", acq.SampleCount()),
				"TRIG:SOUR BUS",
				"SAMP:SOUR TIM",
				fmt.Sprintf("SAMP:TIM %g", period),
				"INIT",
			}, nil
		default:
			return nil, ErrUnknownMeasurement{Kind: acq.Measurement}
		}
	},

	TriggerCommands: func(acq *config.AcquisitionConfig) []string {
		if acq.Measurement == MeasureCurrent {
			return []string{fmt.Sprintf(":TRACe:TRIG:DIG \"%s\"", acq.Buffer)}
		}
		return []string{"*TRG"}
	},

	BulkFetchCommand: func(ch *scpi.Channel, acq *config.AcquisitionConfig) (string, error) {
		last, err := ch.QueryString(fmt.Sprintf(":TRACe:ACTual:END? \"%s\"", acq.Buffer))
		if err != nil {
			return "", err
		}
		if _, err := strconv.Atoi(last); err != nil {
			return "", scpi.ErrFraming{What: fmt.Sprintf("non-numeric buffer end index: %q", last)}
		}
		return fmt.Sprintf(":TRACe:DATA? 1, %s, \"%s\"", last, acq.Buffer), nil
	},
}

func dmm6500SampleRate(acq *config.AcquisitionConfig) int {
	if acq.SamplePeriod <= 0 {
		return 0
	}
	return int(1/acq.SamplePeriod + 0.5)
}
