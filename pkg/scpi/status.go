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

package scpi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/greenlab/go-dmm/pkg/log"
)

// Bit positions of the standard operation condition register
// (STAT:OPER:COND?).
const (
	BitCalibrating       = 0
	BitMeasuring         = 4
	BitWaitingForTrigger = 5
	BitConfigChange      = 8
	BitMemoryThreshold   = 9
	BitInstrumentLocked  = 10
	BitGlobalError       = 13
)

var operationBitNames = map[int]string{
	BitCalibrating:       "Calibrating",
	BitMeasuring:         "Measuring",
	BitWaitingForTrigger: "Waiting for trigger",
	BitConfigChange:      "Configuration change",
	BitMemoryThreshold:   "Memory threshold",
	BitInstrumentLocked:  "Instrument locked",
	BitGlobalError:       "Global error",
}

// OperationRegister is a read-only view of one register read.
type OperationRegister uint16

// DecodeOperationRegister parses the integer text returned by the
// instrument. An unreadable value is an error, never a default bitmask, so
// callers can tell "confirmed idle" from "could not determine".
func DecodeOperationRegister(raw []byte) (OperationRegister, error) {
	text := strings.TrimSpace(strings.SplitN(string(raw), "\n", 2)[0])
	value, err := strconv.ParseUint(text, 10, 16)
	if err != nil {
		return 0, ErrFraming{What: fmt.Sprintf("non-numeric register value: %q", text)}
	}
	return OperationRegister(value), nil
}

func (r OperationRegister) IsSet(bit int) bool {
	return r&(1<<uint(bit)) != 0
}

func (r OperationRegister) Measuring() bool {
	return r.IsSet(BitMeasuring)
}

// Describe logs the named register bits at debug level.
func (r OperationRegister) Describe() {
	log.Debug("Standard Operation Register: %d", r)
	for bit, name := range operationBitNames {
		log.Debug("    %-20s = %t", name, r.IsSet(bit))
	}
}
