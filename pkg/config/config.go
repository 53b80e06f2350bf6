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
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"
)

// AcquisitionConfig describes one measurement run. Aperture and SamplePeriod
// are in seconds; a zero Samples means the count is derived from
// Duration / SamplePeriod.
type AcquisitionConfig struct {
	Measurement  string  `yaml:"measurement"`
	Range        string  `yaml:"range"`
	Aperture     float64 `yaml:"aperture,omitempty"`
	SamplePeriod float64 `yaml:"sample_period,omitempty"`
	Duration     float64 `yaml:"duration,omitempty"`
	Samples      int     `yaml:"samples,omitempty"`
	Buffer       string  `yaml:"buffer,omitempty"`
	Output       string  `yaml:"output"`
}

// SampleCount returns the number of readings the run is expected to produce.
func (a *AcquisitionConfig) SampleCount() int {
	if a.Samples > 0 {
		return a.Samples
	}
	if a.SamplePeriod <= 0 {
		return 0
	}
	return int(a.Duration / a.SamplePeriod)
}

type Config struct {
	Version     int                `yaml:"version"`
	Address     string             `yaml:"address"`
	Port        int                `yaml:"port"`
	Model       string             `yaml:"model"`
	LogLevel    string             `yaml:"log_level"`
	CatalogPath string             `yaml:"catalog_path,omitempty"`
	Acquisition *AcquisitionConfig `yaml:"acquisition"`
	filepath    string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load reads the config file if it exists, leaving defaults in place
// otherwise.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

// SetField parses value with the parser appropriate for the named
// acquisition field. Unknown fields and unparsable values are rejected
// rather than stored as strings.
func (c *Config) SetField(field, value string) error {
	a := c.Acquisition
	switch field {
	case "measurement":
		if value != "current" && value != "voltage" {
			return ErrBadFieldValue{Field: field, Value: value}
		}
		a.Measurement = value
	case "range":
		a.Range = value
	case "buffer":
		a.Buffer = value
	case "output":
		a.Output = value
	case "aperture", "sample_period", "duration":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return ErrBadFieldValue{Field: field, Value: value}
		}
		switch field {
		case "aperture":
			a.Aperture = f
		case "sample_period":
			a.SamplePeriod = f
		case "duration":
			a.Duration = f
		}
	case "samples":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return ErrBadFieldValue{Field: field, Value: value}
		}
		a.Samples = n
	default:
		return ErrUnknownField{Field: field}
	}
	return nil
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, CatalogFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     ConfigVersion,
		Address:     DefaultMeterAddress,
		Port:        DefaultMeterPort,
		Model:       DefaultMeterModel,
		LogLevel:    DefaultLogLevel,
		CatalogPath: DefaultCatalogPath(),
		Acquisition: &AcquisitionConfig{
			Measurement: DefaultMeasurement,
			Range:       DefaultRange,
			Duration:    DefaultDuration,
			Buffer:      DefaultBufferName,
			Output:      DefaultOutputFile,
		},
		filepath: DefaultConfigPath(),
	}
}
