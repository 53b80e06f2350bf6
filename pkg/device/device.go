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
	"strings"

	"github.com/greenlab/go-dmm/pkg/config"
	deviceifc "github.com/greenlab/go-dmm/pkg/device/ifc"
	"github.com/greenlab/go-dmm/pkg/log"
	"github.com/greenlab/go-dmm/pkg/scpi"
)

const (
	// BulkRecvSize is the read size used while collecting a bulk fetch
	// response, which can run to tens of megabytes.
	BulkRecvSize = 100000
)

// Meter is the generic engine driving one SCPI multimeter. Model
// differences are confined to the Profile.
type Meter struct {
	profile   *Profile
	transport scpi.Transport
	channel   *scpi.Channel
}

var _ deviceifc.Device = &Meter{}

func NewMeter(cfg *config.Config) (*Meter, error) {
	profile, err := ProfileForModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	return newMeter(profile, scpi.NewConn(cfg.Address, cfg.Port)), nil
}

func newMeter(profile *Profile, t scpi.Transport) *Meter {
	return &Meter{
		profile:   profile,
		transport: t,
		channel:   scpi.NewChannel(t, profile.ErrorQuery, profile.ClearCommand),
	}
}

func (m *Meter) Connect() error {
	if err := m.transport.Connect(); err != nil {
		return err
	}
	idn, err := m.Identify()
	if err != nil {
		return err
	}
	log.Info("Connected to: %s", idn)
	return nil
}

func (m *Meter) Reconnect() error {
	return m.transport.Reconnect()
}

func (m *Meter) Close() error {
	return m.transport.Close()
}

func (m *Meter) Identify() (string, error) {
	return m.channel.QueryString("*IDN?")
}

func (m *Meter) Reset() error {
	return m.channel.Write("*RST")
}

func (m *Meter) ClearStatus() error {
	return m.channel.Write("*CLS")
}

func (m *Meter) Abort() error {
	return m.channel.Write("ABORt")
}

func (m *Meter) Configure(acq *config.AcquisitionConfig) error {
	cmds, err := m.profile.ConfigCommands(acq)
	if err != nil {
		return err
	}
	return m.channel.ExecuteChecked(cmds)
}

func (m *Meter) Trigger(acq *config.AcquisitionConfig) error {
	for _, cmd := range m.profile.TriggerCommands(acq) {
		if err := m.channel.Write(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (m *Meter) OperationRegister() (scpi.OperationRegister, error) {
	resp, err := m.channel.Query("STAT:OPER:COND?")
	if err != nil {
		return 0, err
	}
	return scpi.DecodeOperationRegister(resp)
}

func (m *Meter) Measuring() (bool, bool) {
	reg, err := m.OperationRegister()
	if err != nil {
		log.Warning("Could not read operation register: %v", err)
		return false, false
	}
	return reg.Measuring(), true
}

// DrainChunk requests up to maxBytes of buffered readings with R? and
// decodes the block-framed comma-separated response. The instrument deletes
// drained readings, so a chunk lost to a network error is gone.
func (m *Meter) DrainChunk(maxBytes int) ([]float64, error) {
	if err := m.channel.Write(fmt.Sprintf("R? %d", maxBytes)); err != nil {
		return nil, err
	}
	initial, err := m.channel.Receive(maxBytes)
	if err != nil {
		return nil, err
	}
	payload, err := scpi.ReadBlock(m.transport, initial, maxBytes)
	if err != nil {
		return nil, err
	}
	return parseSamples(string(payload))
}

// BulkFetch downloads the whole sample series in one transfer, reading
// until the terminator is observed.
func (m *Meter) BulkFetch(acq *config.AcquisitionConfig) ([]float64, error) {
	cmd, err := m.profile.BulkFetchCommand(m.channel, acq)
	if err != nil {
		return nil, err
	}
	log.Info("Downloading data from the meter...")
	if err := m.channel.Write(cmd); err != nil {
		return nil, err
	}
	var block []byte
	for len(block) == 0 || block[len(block)-1] != scpi.Terminator {
		chunk, err := m.channel.Receive(BulkRecvSize)
		if err != nil {
			return nil, err
		}
		block = append(block, chunk...)
	}
	samples, err := parseSamples(string(block))
	if err != nil {
		return nil, err
	}
	log.Info("Download done. Number of samples = %d", len(samples))
	return samples, nil
}

func (m *Meter) ScreenDump() ([]byte, error) {
	if m.profile.ScreenDumpQuery == "" {
		return nil, ErrNotSupported{Op: "screen dump", Model: m.profile.Name}
	}
	if err := m.channel.Write(m.profile.ScreenDumpQuery); err != nil {
		return nil, err
	}
	initial, err := m.channel.Receive(m.channel.RecvSize)
	if err != nil {
		return nil, err
	}
	return scpi.ReadBlock(m.transport, initial, m.channel.RecvSize)
}

func (m *Meter) MemoryLimit() int {
	return m.profile.MemorySamples
}

func (m *Meter) GetName() string {
	return m.profile.Name
}

// parseSamples splits a comma-separated reading list. The DMM6500 breaks
// long responses with newlines, which count as delimiters too.
func parseSamples(text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	text = strings.ReplaceAll(text, "\n", ",")
	fields := strings.Split(text, ",")
	samples := make([]float64, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, scpi.ErrFraming{What: fmt.Sprintf("non-numeric reading: %q", field)}
		}
		samples = append(samples, value)
	}
	return samples, nil
}
