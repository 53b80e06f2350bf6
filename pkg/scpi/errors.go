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
	"errors"
	"fmt"
)

// ErrConnection returned when all connect attempts to the instrument are exhausted
type ErrConnection struct {
	Address  string
	Port     int
	Attempts int
	Last     error
}

func (e ErrConnection) Error() string {
	return fmt.Sprintf("Connection to %s:%d failed after %d attempts: %v",
		e.Address, e.Port, e.Attempts, e.Last)
}

// ErrTransport returned on a send/receive failure other than a timeout.
// The connection is presumed broken.
type ErrTransport struct {
	Op  string
	Err error
}

func (e ErrTransport) Error() string {
	return fmt.Sprintf("Transport %s error: %v", e.Op, e.Err)
}

func (e ErrTransport) Unwrap() error {
	return e.Err
}

// ErrTimeout returned when a bounded read expires before any data arrives
type ErrTimeout struct {
	Op string
}

func (e ErrTimeout) Error() string {
	return fmt.Sprintf("Timeout during %s", e.Op)
}

// IsTimeout reports whether err is a bounded-read timeout, so callers can
// reconnect and resume instead of aborting.
func IsTimeout(err error) bool {
	var te ErrTimeout
	return errors.As(err, &te)
}

// ErrFraming returned when a definite-length block header is malformed or truncated
type ErrFraming struct {
	What string
}

func (e ErrFraming) Error() string {
	return fmt.Sprintf("Error while decoding block frame: %s", e.What)
}

// ErrCommand returned when the instrument reports an error after a checked command
type ErrCommand struct {
	Command string
	Message string
}

func (e ErrCommand) Error() string {
	return fmt.Sprintf("Instrument rejected command %q: %s", e.Command, e.Message)
}
