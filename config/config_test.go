/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods (Validate and Update).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:           dl,
		AeConstraintMode: defaultAeConstraintMode,
		AeExposureMode:   defaultAeExposureMode,
		AeMeteringMode:   defaultAeMeteringMode,
		AwbMode:          defaultAwbMode,
		LogLevel:         defaultVerbosity,
	}

	got := Config{Logger: dl}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		"AeEnable":           "true",
		"AeConstraintMode":   "highlight",
		"AeExposureMode":     "short",
		"AeMeteringMode":     "spot",
		"AeExposureValue":    "1.5",
		"AnalogueGain":       "2.0",
		"ExposureTime":       "16667",
		"AwbEnable":          "true",
		"AwbMode":            "daylight",
		"ColourGains":        "1.8, 2.2",
		"Brightness":         "0.25",
		"Contrast":           "20",
		"Saturation":         "10",
		"Sharpness":          "4",
		"NoiseReductionMode": "highquality",
		"logging":            "Error",
	}

	dl := &dumbLogger{}

	want := Config{
		Logger:             dl,
		AeEnable:           true,
		AeConstraintMode:   ConstraintHighlight,
		AeExposureMode:     ExposureShort,
		AeMeteringMode:     MeteringSpot,
		AeExposureValue:    1.5,
		AnalogueGain:       2.0,
		ExposureTime:       16667,
		AwbEnable:          true,
		AwbMode:            AwbDaylight,
		ColourGainR:        1.8,
		ColourGainB:        2.2,
		Brightness:         0.25,
		Contrast:           20,
		Saturation:         10,
		Sharpness:          4,
		NoiseReductionMode: NoiseReductionHighQuality,
		LogLevel:           logging.Error,
	}

	got := Config{Logger: dl}
	got.Update(updateMap)

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestValidateClampsOutOfRangeFields(t *testing.T) {
	dl := &dumbLogger{}

	got := Config{
		Logger:           dl,
		Brightness:       2,
		Contrast:         100,
		Saturation:       -5,
		Sharpness:        99,
		AeConstraintMode: 999,
		AeExposureMode:   999,
		AeMeteringMode:   999,
		AwbMode:          999,
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	want := Config{
		Logger:           dl,
		Brightness:       0,
		Contrast:         16,
		Saturation:       16,
		Sharpness:        8,
		AeConstraintMode: defaultAeConstraintMode,
		AeExposureMode:   defaultAeExposureMode,
		AeMeteringMode:   defaultAeMeteringMode,
		AwbMode:          defaultAwbMode,
		LogLevel:         defaultVerbosity,
	}
	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}
