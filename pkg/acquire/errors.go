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
	"fmt"
)

// ErrValidation returned when the collected sample count does not match the
// requested count. The data is reported and discarded from persistence,
// never accepted as a partial success.
type ErrValidation struct {
	Expected int
	Got      int
}

func (e ErrValidation) Error() string {
	return fmt.Sprintf("Sample count error: expected %d, got %d. Data not saved.", e.Expected, e.Got)
}

// ErrNoSamplesRequested returned when the settings resolve to a zero sample count
type ErrNoSamplesRequested struct{}

func (e ErrNoSamplesRequested) Error() string {
	return "No samples requested: set samples, or duration and sample_period"
}
