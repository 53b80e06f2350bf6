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
	"github.com/greenlab/go-dmm/pkg/log"
)

// Observer receives periodic progress updates during an acquisition. During
// a drain the units are samples; during the completion wait they are
// seconds. Purely observational, never affects control flow.
type Observer interface {
	Update(done, total int)
}

type nopObserver struct{}

func (nopObserver) Update(done, total int) {}

// LogObserver reports progress through the logger.
type LogObserver struct{}

func (LogObserver) Update(done, total int) {
	log.Info("Progress: %d of %d", done, total)
}
