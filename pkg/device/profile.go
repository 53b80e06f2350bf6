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
	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/scpi"
)

// Measurement kinds accepted by the configuration builders.
const (
	MeasureCurrent = "current"
	MeasureVoltage = "voltage"
)

// Profile captures everything that differs between supported meter models:
// command vocabulary, error-queue discipline and buffer mechanics. The
// generic Meter engine is parameterized by a Profile value; there is one
// engine, not one driver per model.
type Profile struct {
	Name string

	// ErrorQuery pops the next entry off the instrument error queue.
	ErrorQuery string
	// ClearCommand, when set, is sent before every checked command.
	ClearCommand string

	// MinAperture is the smallest integration aperture in seconds.
	MinAperture float64
	// MemorySamples is the onboard reading buffer capacity.
	MemorySamples int

	// ScreenDumpQuery is empty on models without a screen dump.
	ScreenDumpQuery string

	ConfigCommands  func(acq *config.AcquisitionConfig) ([]string, error)
	TriggerCommands func(acq *config.AcquisitionConfig) []string
	// BulkFetchCommand may issue preparatory queries on ch (for example to
	// find the last buffer index) before returning the fetch query itself.
	BulkFetchCommand func(ch *scpi.Channel, acq *config.AcquisitionConfig) (string, error)
}

var profiles = map[string]*Profile{
	Keysight34465a.Name: Keysight34465a,
	DMM6500.Name:        DMM6500,
}

func ProfileForModel(model string) (*Profile, error) {
	p, ok := profiles[model]
	if !ok {
		return nil, ErrUnknownModel{Model: model}
	}
	return p, nil
}
