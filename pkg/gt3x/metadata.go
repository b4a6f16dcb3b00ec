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

package gt3x

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/wearlab-io/go-gt3x/pkg/config"
	"github.com/wearlab-io/go-gt3x/pkg/log"
)

// info.txt keys used by the typed accessors
const (
	KeySerialNumber      = "Serial Number"
	KeyFirmware          = "Firmware"
	KeySampleRate        = "Sample Rate"
	KeyAccelerationScale = "Acceleration Scale"
	KeyStartDate         = "Start Date"
	KeyStartTime         = "Start Time"
	KeyBatteryVoltage    = "Battery Voltage"
)

// .NET ticks are 100ns intervals counted from 0001-01-01. Start Date holds
// ticks on most device downloads and a plain date string on some.
const (
	unixEpochTicks = 621355968000000000
	ticksPerSecond = 10000000
)

var startTimeLayouts = []string{
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// Metadata is the free-form key/value content of info.txt
type Metadata map[string]string

// ParseInfo parses info.txt content. Each line is split on the first colon,
// lines without one are ignored.
func ParseInfo(content string) Metadata {
	info := make(Metadata)
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		info[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return info
}

func (m Metadata) SerialNumber() string {
	return m[KeySerialNumber]
}

func (m Metadata) Firmware() string {
	return m[KeyFirmware]
}

func (m Metadata) BatteryVoltage() string {
	return m[KeyBatteryVoltage]
}

// SampleRate returns the declared sample rate in Hz, falling back to the
// device default when the key is missing or malformed
func (m Metadata) SampleRate() float64 {
	value, ok := m[KeySampleRate]
	if !ok {
		return config.DefaultSampleRate
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warning("Can not parse sample rate %q, defaulting to %g Hz", value, float64(config.DefaultSampleRate))
		return config.DefaultSampleRate
	}
	return rate
}

// AccelerationScale returns the raw-units-per-g divisor, falling back to the
// device default when the key is missing or malformed
func (m Metadata) AccelerationScale() float64 {
	value, ok := m[KeyAccelerationScale]
	if !ok {
		return config.DefaultAccelerationScale
	}
	scale, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warning("Can not parse acceleration scale %q, defaulting to %g", value, float64(config.DefaultAccelerationScale))
		return config.DefaultAccelerationScale
	}
	return scale
}

// StartTime returns the recording start. Start Date is either a .NET ticks
// value or a date string combined with Start Time. When neither parses the
// current time is returned, which matches how devices without a clock sync
// were always handled.
func (m Metadata) StartTime() time.Time {
	startDate := m[KeyStartDate]
	startTime := m[KeyStartTime]

	if startDate != "" && isDigits(startDate) {
		ticks, err := strconv.ParseInt(startDate, 10, 64)
		if err == nil {
			sinceEpoch := ticks - unixEpochTicks
			return time.Unix(sinceEpoch/ticksPerSecond, (sinceEpoch%ticksPerSecond)*100).UTC()
		}
		log.Warning("Can not parse Start Date ticks: %s", startDate)
	} else if startDate != "" && startTime != "" {
		str := fmt.Sprintf("%s %s", startDate, startTime)
		for _, layout := range startTimeLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return t
			}
		}
		log.Warning("Can not parse start time: %s", str)
	}

	return time.Now().UTC()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func (m Metadata) String() string {
	result, err := yaml.Marshal(m)
	if err != nil {
		log.Info("Error occured while marshaling metadata, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}
