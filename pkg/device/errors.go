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
)

// ErrUnknownModel returned when the configured meter model has no profile
type ErrUnknownModel struct {
	Model string
}

func (e ErrUnknownModel) Error() string {
	return fmt.Sprintf("Unknown meter model: %s. Must be one of: 34465a, dmm6500", e.Model)
}

// ErrUnknownMeasurement returned for a measurement kind the profile can not configure
type ErrUnknownMeasurement struct {
	Kind string
}

func (e ErrUnknownMeasurement) Error() string {
	return fmt.Sprintf("Measurement not recognised: %s", e.Kind)
}

// ErrNotSupported returned for an operation the meter model does not provide
type ErrNotSupported struct {
	Op    string
	Model string
}

func (e ErrNotSupported) Error() string {
	return fmt.Sprintf("Operation %s is not supported by model %s", e.Op, e.Model)
}
