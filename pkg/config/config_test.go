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

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTempConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.filepath = filepath.Join(t.TempDir(), "config")
	return cfg
}

func TestSampleCount(t *testing.T) {
	tests := []struct {
		description string
		acq         AcquisitionConfig
		expected    int
	}{
		{
			description: "explicit samples win",
			acq:         AcquisitionConfig{Samples: 25000, Duration: 100, SamplePeriod: 0.001},
			expected:    25000,
		},
		{
			description: "derived from duration and period",
			acq:         AcquisitionConfig{Duration: 100, SamplePeriod: 0.001},
			expected:    100000,
		},
		{
			description: "no period means no derivation",
			acq:         AcquisitionConfig{Duration: 100},
			expected:    0,
		},
		{
			description: "empty",
			acq:         AcquisitionConfig{},
			expected:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.acq.SampleCount())
		})
	}
}

func TestPersistAndLoad(t *testing.T) {
	cfg := newTempConfig(t)
	cfg.Address = "10.0.0.5"
	cfg.Acquisition.Samples = 42
	require.NoError(t, cfg.Persist(false))

	loaded := NewDefaultConfig()
	loaded.filepath = cfg.filepath
	require.NoError(t, loaded.Load())
	assert.Equal(t, "10.0.0.5", loaded.Address)
	assert.Equal(t, 42, loaded.Acquisition.Samples)
	assert.Equal(t, ConfigVersion, loaded.Version)
}

func TestPersist_NoOverwrite(t *testing.T) {
	cfg := newTempConfig(t)
	require.NoError(t, cfg.Persist(false))

	err := cfg.Persist(false)
	require.Error(t, err)
	assert.IsType(t, ErrConfigFileExists{}, err)

	require.NoError(t, cfg.Persist(true))
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	cfg := newTempConfig(t)
	require.NoError(t, cfg.Load())
	assert.Equal(t, DefaultMeterAddress, cfg.Address)
	assert.Equal(t, DefaultMeterModel, cfg.Model)
}

func TestSetField(t *testing.T) {
	tests := []struct {
		field string
		value string
		check func(t *testing.T, a *AcquisitionConfig)
	}{
		{
			field: "measurement",
			value: "voltage",
			check: func(t *testing.T, a *AcquisitionConfig) {
				assert.Equal(t, "voltage", a.Measurement)
			},
		},
		{
			field: "range",
			value: "100e-3",
			check: func(t *testing.T, a *AcquisitionConfig) {
				assert.Equal(t, "100e-3", a.Range)
			},
		},
		{
			field: "aperture",
			value: "0.001",
			check: func(t *testing.T, a *AcquisitionConfig) {
				assert.Equal(t, 0.001, a.Aperture)
			},
		},
		{
			field: "sample_period",
			value: "0.01",
			check: func(t *testing.T, a *AcquisitionConfig) {
				assert.Equal(t, 0.01, a.SamplePeriod)
			},
		},
		{
			field: "duration",
			value: "30",
			check: func(t *testing.T, a *AcquisitionConfig) {
				assert.Equal(t, 30.0, a.Duration)
			},
		},
		{
			field: "samples",
			value: "25000",
			check: func(t *testing.T, a *AcquisitionConfig) {
				assert.Equal(t, 25000, a.Samples)
			},
		},
		{
			field: "output",
			value: "run7.samples",
			check: func(t *testing.T, a *AcquisitionConfig) {
				assert.Equal(t, "run7.samples", a.Output)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := NewDefaultConfig()
			require.NoError(t, cfg.SetField(tt.field, tt.value))
			tt.check(t, cfg.Acquisition)
		})
	}
}

func TestSetField_Rejected(t *testing.T) {
	tests := []struct {
		description string
		field       string
		value       string
		expected    error
	}{
		{
			description: "unknown field",
			field:       "bandwidth",
			value:       "1",
			expected:    ErrUnknownField{},
		},
		{
			description: "bad measurement kind",
			field:       "measurement",
			value:       "resistance",
			expected:    ErrBadFieldValue{},
		},
		{
			description: "non-numeric duration",
			field:       "duration",
			value:       "long",
			expected:    ErrBadFieldValue{},
		},
		{
			description: "negative samples",
			field:       "samples",
			value:       "-5",
			expected:    ErrBadFieldValue{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			cfg := NewDefaultConfig()
			err := cfg.SetField(tt.field, tt.value)
			require.Error(t, err)
			assert.IsType(t, tt.expected, err)
		})
	}
}
