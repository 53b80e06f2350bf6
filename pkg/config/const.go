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

const (
	ConfigDir   = ".go-dmm"
	ConfigFile  = "config"
	CatalogFile = "catalog.db"

	ConfigVersion = 1

	DefaultMeterAddress = "192.168.1.188"
	DefaultMeterPort    = 5025
	DefaultMeterModel   = "34465a"
	DefaultLogLevel     = "info"

	DefaultMeasurement = "current"
	DefaultRange       = "100e-3"
	DefaultDuration    = 30.0
	DefaultBufferName  = "godmmbuf"
	DefaultOutputFile  = "meter_data.txt"
)
