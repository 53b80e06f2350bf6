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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/scpi"
)

type step struct {
	data []byte
	err  error
}

type fakeTransport struct {
	sent  []string
	reads []step
	pos   int
}

var _ scpi.Transport = &fakeTransport{}

func (f *fakeTransport) Connect() error   { return nil }
func (f *fakeTransport) Reconnect() error { return nil }
func (f *fakeTransport) Close() error     { return nil }

func (f *fakeTransport) Send(payload []byte) error {
	f.sent = append(f.sent, string(payload))
	return nil
}

func (f *fakeTransport) Receive(maxBytes int) ([]byte, error) {
	if f.pos >= len(f.reads) {
		return nil, scpi.ErrTimeout{Op: "receive"}
	}
	s := f.reads[f.pos]
	f.pos++
	return s.data, s.err
}

func TestProfileForModel(t *testing.T) {
	p, err := ProfileForModel("34465a")
	require.NoError(t, err)
	assert.Equal(t, Keysight34465a, p)

	p, err = ProfileForModel("dmm6500")
	require.NoError(t, err)
	assert.Equal(t, DMM6500, p)

	_, err = ProfileForModel("dmm7510")
	require.Error(t, err)
	assert.IsType(t, ErrUnknownModel{}, err)
}

func TestKeysight34465aConfigCommands(t *testing.T) {
	acq := &config.AcquisitionConfig{
		Measurement:  MeasureCurrent,
		Range:        "100e-3",
		Aperture:     0.001,
		SamplePeriod: 0.001,
		Samples:      25000,
	}
	cmds, err := Keysight34465a.ConfigCommands(acq)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SENS:FUNC:ON \"CURR:DC\"",
		"CONF:CURR:DC 100e-3",
		"SENS:CURR:DC:ZERO:AUTO OFF",
		"SENS:CURR:DC:APER 0.001",
		"SAMP:COUNT 25000",
		"TRIG:SOUR BUS",
		"SAMP:SOUR TIM",
		"SAMP:TIM 0.001",
		"INIT",
	}, cmds)
}

func TestKeysight34465aConfigCommands_Voltage(t *testing.T) {
	acq := &config.AcquisitionConfig{
		Measurement:  MeasureVoltage,
		Range:        "100e-3",
		Aperture:     0.01,
		SamplePeriod: 0.01,
		Duration:     30,
	}
	cmds, err := Keysight34465a.ConfigCommands(acq)
	require.NoError(t, err)
	assert.Contains(t, cmds, "SENS:FUNC:ON \"VOLT:DC\"")
	assert.Contains(t, cmds, "CONF:VOLT:DC 100e-3")
	assert.Contains(t, cmds, "SAMP:COUNT 3000")
}

func TestConfigCommands_UnknownMeasurement(t *testing.T) {
	acq := &config.AcquisitionConfig{Measurement: "resistance", Samples: 10}
	_, err := Keysight34465a.ConfigCommands(acq)
	require.Error(t, err)
	assert.IsType(t, ErrUnknownMeasurement{}, err)

	_, err = DMM6500.ConfigCommands(acq)
	require.Error(t, err)
	assert.IsType(t, ErrUnknownMeasurement{}, err)
}

func TestDMM6500ConfigCommands_Current(t *testing.T) {
	acq := &config.AcquisitionConfig{
		Measurement:  MeasureCurrent,
		Range:        "100e-3",
		SamplePeriod: 0.001,
		Samples:      25000,
		Buffer:       "godmmbuf",
	}
	cmds, err := DMM6500.ConfigCommands(acq)
	require.NoError(t, err)
	assert.Equal(t, []string{
		":SENS:DIG:FUNC \"CURR\"",
		":TRACe:POINts 10, \"defbuffer1\"",
		":TRACe:POINts 10, \"defbuffer2\"",
		":TRACe:MAKE \"godmmbuf\", 25000",
		":SENS:DIG:CURR:RANG 100e-3",
		":SENS:DIG:CURR:SRATE 1000",
		":SENS:DIG:COUN 25000",
	}, cmds)

	trig := DMM6500.TriggerCommands(acq)
	assert.Equal(t, []string{":TRACe:TRIG:DIG \"godmmbuf\""}, trig)
}

func TestAperture(t *testing.T) {
	// 30s over 2M samples is below the instrument floor.
	acq := &config.AcquisitionConfig{Duration: 30}
	assert.Equal(t, keysight34465aMinAperture, Aperture(acq, keysight34465aMinAperture, keysight34465aMemorySamples))

	// A long run stays above the floor.
	long := &config.AcquisitionConfig{Duration: 200}
	assert.Equal(t, 0.0001, Aperture(long, keysight34465aMinAperture, keysight34465aMemorySamples))

	// Explicit aperture wins.
	explicit := &config.AcquisitionConfig{Duration: 30, Aperture: 0.5}
	assert.Equal(t, 0.5, Aperture(explicit, keysight34465aMinAperture, keysight34465aMemorySamples))
}

func TestParseSamples(t *testing.T) {
	tests := []struct {
		description string
		input       string
		expected    []float64
	}{
		{
			description: "comma separated",
			input:       "1.5,2.5,3.5\n",
			expected:    []float64{1.5, 2.5, 3.5},
		},
		{
			description: "newline broken response",
			input:       "1.5,2.5\n3.5,4.5\n",
			expected:    []float64{1.5, 2.5, 3.5, 4.5},
		},
		{
			description: "scientific notation",
			input:       "-1.06600000E-04,+2.12300000E-04\n",
			expected:    []float64{-1.066e-4, 2.123e-4},
		},
		{
			description: "empty",
			input:       "",
			expected:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, err := parseSamples(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := parseSamples("1.5,abc\n")
	require.Error(t, err)
	assert.IsType(t, scpi.ErrFraming{}, err)
}

func TestDrainChunk(t *testing.T) {
	ft := &fakeTransport{reads: []step{
		{data: []byte("#2131.5,2.5,-3.25\n")},
	}}
	m := newMeter(Keysight34465a, ft)
	samples, err := m.DrainChunk(1024)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, -3.25}, samples)
	require.Len(t, ft.sent, 1)
	assert.Equal(t, "R? 1024", ft.sent[0])
}

func TestDrainChunk_EmptyBlock(t *testing.T) {
	ft := &fakeTransport{reads: []step{
		{data: []byte("#10\n")},
	}}
	m := newMeter(Keysight34465a, ft)
	samples, err := m.DrainChunk(1024)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestDrainChunk_TimeoutPropagates(t *testing.T) {
	ft := &fakeTransport{reads: []step{
		{err: scpi.ErrTimeout{Op: "receive"}},
	}}
	m := newMeter(Keysight34465a, ft)
	_, err := m.DrainChunk(1024)
	require.Error(t, err)
	assert.True(t, scpi.IsTimeout(err))
}

func TestBulkFetch_34465a(t *testing.T) {
	ft := &fakeTransport{reads: []step{
		{data: []byte("1.5,2.5,")},
		{data: []byte("3.5\n")},
	}}
	m := newMeter(Keysight34465a, ft)
	samples, err := m.BulkFetch(&config.AcquisitionConfig{Samples: 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, samples)
	assert.Equal(t, []string{"FETC?"}, ft.sent)
}

func TestBulkFetch_DMM6500UsesBufferEndIndex(t *testing.T) {
	ft := &fakeTransport{reads: []step{
		{data: []byte("3\n")},
		{data: []byte("1.5,2.5,3.5\n")},
	}}
	m := newMeter(DMM6500, ft)
	samples, err := m.BulkFetch(&config.AcquisitionConfig{Samples: 3, Buffer: "godmmbuf"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, samples)
	assert.Equal(t, []string{
		":TRACe:ACTual:END? \"godmmbuf\"",
		":TRACe:DATA? 1, 3, \"godmmbuf\"",
	}, ft.sent)
}

func TestScreenDump(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
	framed := append([]byte("#18"), image...)
	framed = append(framed, '\n')
	ft := &fakeTransport{reads: []step{{data: framed}}}
	m := newMeter(Keysight34465a, ft)
	data, err := m.ScreenDump()
	require.NoError(t, err)
	assert.Equal(t, image, data)

	// The DMM6500 profile has no screen dump.
	m = newMeter(DMM6500, ft)
	_, err = m.ScreenDump()
	require.Error(t, err)
	assert.IsType(t, ErrNotSupported{}, err)
}

func TestMeasuring(t *testing.T) {
	ft := &fakeTransport{reads: []step{
		{data: []byte("16\n")},
		{data: []byte("0\n")},
		{data: []byte("garbage\n")},
	}}
	m := newMeter(Keysight34465a, ft)

	measuring, known := m.Measuring()
	assert.True(t, known)
	assert.True(t, measuring)

	measuring, known = m.Measuring()
	assert.True(t, known)
	assert.False(t, measuring)

	_, known = m.Measuring()
	assert.False(t, known)
}
