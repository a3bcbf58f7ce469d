/*
NAME
  config.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the per-request application controls and the
// session-wide logger for an IPA control loop instance.
package config

import (
	"github.com/ausocean/utils/logging"
)

// AeConstraintMode values.
const (
	ConstraintNormal = iota
	ConstraintHighlight
	ConstraintShadows
	ConstraintCustom
)

// AeExposureMode values.
const (
	ExposureNormal = iota
	ExposureShort
	ExposureLong
	ExposureCustom
)

// AeMeteringMode values.
const (
	MeteringCentreWeighted = iota
	MeteringSpot
	MeteringMatrix
	MeteringCustom
)

// AwbMode values.
const (
	AwbAuto = iota
	AwbIncandescent
	AwbTungsten
	AwbFluorescent
	AwbIndoor
	AwbDaylight
	AwbCloudy
	AwbCustom
)

// NoiseReductionMode values.
const (
	NoiseReductionOff = iota
	NoiseReductionFast
	NoiseReductionHighQuality
	NoiseReductionMinimal
	NoiseReductionZSL
)

// Config holds the per-request application controls recognized in the
// inbound control set, plus the session-wide logger. A fresh Config
// accompanies every admitted request; fields left at their zero value mean
// "unset" and the Orchestrator falls back to the running algorithm state.
type Config struct {
	// Logger holds an implementation of the Logger interface. This must be
	// set for the control loop to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logging package: logging.Debug,
	// logging.Info, logging.Warning, logging.Error, logging.Fatal.
	LogLevel int8

	AeEnable bool

	// AeConstraintMode records the requested AGC constraint mode. The
	// Orchestrator does not read it; AGC always uses the same luma target.
	AeConstraintMode int

	// AeExposureMode records the requested exposure mode. The Orchestrator
	// does not read it; AGC's shutter/gain split is always shutter-first.
	AeExposureMode int

	// AeMeteringMode selects the per-zone weight preset used by AGC.
	AeMeteringMode int

	// AeExposureValue is an EV offset in stops; the gain multiplier applied
	// to the AGC target is 2^EV.
	AeExposureValue float64

	// AnalogueGain is a manual override, in linear gain units (>= 1.0).
	// A value of 0 means "return to auto".
	AnalogueGain float64

	// ExposureTime is a manual override in microseconds. 0 means auto.
	ExposureTime uint

	AwbEnable bool

	// AwbMode records the requested AWB mode. The Orchestrator does not read
	// it: AWB is always grey-world, and ColourGainR/ColourGainB override it
	// in every mode.
	AwbMode int

	// ColourGainR and ColourGainB override the AWB result when both are
	// non-zero.
	ColourGainR float64
	ColourGainB float64

	// Brightness in [-1, 1].
	Brightness float64

	// Contrast in [0, 32]; also seeds Contrast/Gamma's dynamic gamma target.
	Contrast float64

	// Saturation in [0, 32].
	Saturation float64

	// Sharpness in [0, 16].
	Sharpness float64

	// NoiseReductionMode records the requested noise-reduction mode. The
	// parameter assembler does not read it; the BNR byte is always zero.
	NoiseReductionMode int
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values, converts them to the correct type, and
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

// LogInvalidField logs that a field was bad or unset, and that a default is
// being substituted.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
