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

package ifc

import (
	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/scpi"
)

type Device interface {
	Connect() error
	Reconnect() error
	Close() error

	Identify() (string, error)
	Reset() error
	ClearStatus() error
	Abort() error

	Configure(acq *config.AcquisitionConfig) error
	Trigger(acq *config.AcquisitionConfig) error

	OperationRegister() (scpi.OperationRegister, error)
	// Measuring reports whether an acquisition is running. The second
	// result is false when the register could not be read, so callers can
	// tell "confirmed idle" from "could not determine".
	Measuring() (bool, bool)

	DrainChunk(maxBytes int) ([]float64, error)
	BulkFetch(acq *config.AcquisitionConfig) ([]float64, error)
	ScreenDump() ([]byte, error)

	// MemoryLimit is the number of readings the instrument can buffer
	// onboard, the ceiling for the trigger-and-fetch strategy.
	MemoryLimit() int

	GetName() string
}
