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

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wearlab-io/go-gt3x/pkg/gt3x"
	"github.com/wearlab-io/go-gt3x/pkg/log"
)

// CSV output formats
const (
	FormatActiLife = "actilife"
	FormatRaw      = "raw"
)

const (
	rawTimestampLayout = "2006-01-02 15:04:05.000"
	defaultFirmware    = "1.7.2"
	defaultBattery     = "4.18"
)

// Options control the CSV rendering. Zero values for SampleRate and
// AccelerationScale mean "take it from the recording metadata".
type Options struct {
	Format            string
	SampleRate        float64
	AccelerationScale float64
}

func (o Options) sampleRate(info gt3x.Metadata) float64 {
	if o.SampleRate > 0 {
		return o.SampleRate
	}
	return info.SampleRate()
}

func (o Options) accelerationScale(info gt3x.Metadata) float64 {
	if o.AccelerationScale > 0 {
		return o.AccelerationScale
	}
	return info.AccelerationScale()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// writeActiLifeHeader writes the banner block ActiLife-compatible consumers
// expect before the sample rows
func writeActiLifeHeader(w *csv.Writer, info gt3x.Metadata, startTime time.Time, sampleRate float64) error {
	rows := []string{
		fmt.Sprintf("------------ Data File Created By ActiGraph GT3X+ ActiLife v6.11.9 Firmware v%s date format d/MM/yyyy at %d Hz  Filter Normal -----------",
			orDefault(info.Firmware(), defaultFirmware), int(sampleRate)),
		fmt.Sprintf("Serial Number: %s", info.SerialNumber()),
		fmt.Sprintf("Start Time %s", startTime.Format("15:04:05")),
		fmt.Sprintf("Start Date %s", startTime.Format("02/01/2006")),
		"Epoch Period (hh:mm:ss) 00:00:00",
		fmt.Sprintf("Download Time %s", startTime.Format("15:04:05")),
		fmt.Sprintf("Download Date %s", startTime.Format("02/01/2006")),
		"Current Memory Address: 0",
		fmt.Sprintf("Current Battery Voltage: %s     Mode = 12", orDefault(info.BatteryVoltage(), defaultBattery)),
		"--------------------------------------------------",
	}
	for _, row := range rows {
		if err := w.Write([]string{row}); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV renders a recording as CSV. The ActiLife format scales raw units
// to g-force with the acceleration scale divisor, the raw format keeps raw
// integer axes and synthesizes per-sample timestamps from the start time and
// the sample rate.
func WriteCSV(w io.Writer, recording *gt3x.Recording, opts Options) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	switch opts.Format {
	case FormatActiLife, "":
		sampleRate := opts.sampleRate(recording.Info)
		scale := opts.accelerationScale(recording.Info)
		if err := writeActiLifeHeader(writer, recording.Info, recording.Info.StartTime(), sampleRate); err != nil {
			return err
		}
		if err := writer.Write([]string{"Accelerometer X", "Accelerometer Y", "Accelerometer Z"}); err != nil {
			return err
		}
		for _, sample := range recording.Outcome.Samples {
			row := []string{
				fmt.Sprintf("%.3f", float64(sample.X)/scale),
				fmt.Sprintf("%.3f", float64(sample.Y)/scale),
				fmt.Sprintf("%.3f", float64(sample.Z)/scale),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	case FormatRaw:
		sampleRate := opts.sampleRate(recording.Info)
		startTime := recording.Info.StartTime()
		if err := writer.Write([]string{"Timestamp", "X", "Y", "Z"}); err != nil {
			return err
		}
		for i, sample := range recording.Outcome.Samples {
			timestamp := startTime.Add(time.Duration(float64(i) / sampleRate * float64(time.Second)))
			row := []string{
				timestamp.Format(rawTimestampLayout),
				fmt.Sprintf("%d", sample.X),
				fmt.Sprintf("%d", sample.Y),
				fmt.Sprintf("%d", sample.Z),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	default:
		return ErrUnknownFormat{Format: opts.Format}
	}

	writer.Flush()
	return writer.Error()
}

// ConvertFile decodes a .gt3x container and writes it as CSV
func ConvertFile(gt3xPath, csvPath string, opts Options) error {
	log.Info("Converting %s to %s", gt3xPath, csvPath)

	recording, err := gt3x.OpenFile(gt3xPath)
	if err != nil {
		return err
	}
	if !recording.HasLog {
		return gt3x.ErrNoLogEntry{Path: gt3xPath}
	}

	out, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := WriteCSV(out, recording, opts); err != nil {
		return err
	}

	log.Info("Conversion complete. %d samples written.", recording.SampleCount())
	return nil
}
