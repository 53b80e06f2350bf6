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
	"strings"

	"github.com/greenlab/go-dmm/pkg/log"
)

// NoErrorSentinel is the substring the error queue reports when clean.
const NoErrorSentinel = "No error"

// Channel layers request/response and error-checked command sequences on
// top of a Transport. The error-queue query and the optional pre-command
// clear differ per instrument model.
type Channel struct {
	Transport
	RecvSize     int
	ErrorQuery   string
	ClearCommand string
}

func NewChannel(t Transport, errorQuery, clearCommand string) *Channel {
	return &Channel{
		Transport:    t,
		RecvSize:     DefaultRecvSize,
		ErrorQuery:   errorQuery,
		ClearCommand: clearCommand,
	}
}

// Write sends one command line without waiting for a response.
func (c *Channel) Write(cmd string) error {
	return c.Send([]byte(cmd))
}

// Query writes a ?-suffixed request and performs one bounded read.
func (c *Channel) Query(cmd string) ([]byte, error) {
	if err := c.Write(cmd); err != nil {
		return nil, err
	}
	return c.Receive(c.RecvSize)
}

// QueryString is Query with the terminator trimmed.
func (c *Channel) QueryString(cmd string) (string, error) {
	resp, err := c.Query(cmd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp)), nil
}

// NextError pops the next entry off the instrument error queue and returns
// its message part.
func (c *Channel) NextError() (string, error) {
	resp, err := c.QueryString(c.ErrorQuery)
	if err != nil {
		return "", err
	}
	// Responses look like: 0,"No error"
	parts := strings.SplitN(resp, ",", 2)
	if len(parts) < 2 {
		return resp, nil
	}
	return strings.TrimSpace(parts[1]), nil
}

// ExecuteChecked sends each command followed by an error-queue query and
// aborts the rest of the sequence on the first instrument-reported error.
// Configuration sequences must use this path; telemetry queries go through
// the unchecked Query.
func (c *Channel) ExecuteChecked(cmds []string) error {
	for _, cmd := range cmds {
		log.Debug("Sending command: %s", cmd)
		if c.ClearCommand != "" {
			if err := c.Write(c.ClearCommand); err != nil {
				return err
			}
		}
		if err := c.Write(cmd); err != nil {
			return err
		}
		message, err := c.NextError()
		if err != nil {
			return err
		}
		if !strings.Contains(message, NoErrorSentinel) {
			return ErrCommand{Command: cmd, Message: message}
		}
	}
	return nil
}
