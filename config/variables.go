/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

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
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyAeEnable           = "AeEnable"
	KeyAeConstraintMode   = "AeConstraintMode"
	KeyAeExposureMode     = "AeExposureMode"
	KeyAeMeteringMode     = "AeMeteringMode"
	KeyAeExposureValue    = "AeExposureValue"
	KeyAnalogueGain       = "AnalogueGain"
	KeyExposureTime       = "ExposureTime"
	KeyAwbEnable          = "AwbEnable"
	KeyAwbMode            = "AwbMode"
	KeyColourGains        = "ColourGains"
	KeyBrightness         = "Brightness"
	KeyContrast           = "Contrast"
	KeySaturation         = "Saturation"
	KeySharpness          = "Sharpness"
	KeyNoiseReductionMode = "NoiseReductionMode"
	KeyLogging            = "logging"
)

// Config map parameter types.
const (
	typeString = "string"
	typeFloat  = "float"
	typeBool   = "bool"
)

// Default variable values.
const (
	defaultVerbosity = logging.Error

	defaultAeConstraintMode = ConstraintNormal
	defaultAeExposureMode   = ExposureNormal
	defaultAeMeteringMode   = MeteringCentreWeighted
	defaultAwbMode          = AwbAuto
)

// Variables describes the application controls that can be used to update a
// Config. These structs provide the name and type of variable, a function for
// updating this variable in a Config, and a function for validating the
// value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyAeEnable,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.AeEnable = parseBool(KeyAeEnable, v, c) },
	},
	{
		Name: KeyAeConstraintMode,
		Type: "enum:normal,highlight,shadows,custom",
		Update: func(c *Config, v string) {
			c.AeConstraintMode = int(parseEnum(KeyAeConstraintMode, v, map[string]uint8{
				"normal": ConstraintNormal, "highlight": ConstraintHighlight,
				"shadows": ConstraintShadows, "custom": ConstraintCustom,
			}, c))
		},
		Validate: func(c *Config) {
			switch c.AeConstraintMode {
			case ConstraintNormal, ConstraintHighlight, ConstraintShadows, ConstraintCustom:
			default:
				c.LogInvalidField(KeyAeConstraintMode, defaultAeConstraintMode)
				c.AeConstraintMode = defaultAeConstraintMode
			}
		},
	},
	{
		Name: KeyAeExposureMode,
		Type: "enum:normal,short,long,custom",
		Update: func(c *Config, v string) {
			c.AeExposureMode = int(parseEnum(KeyAeExposureMode, v, map[string]uint8{
				"normal": ExposureNormal, "short": ExposureShort,
				"long": ExposureLong, "custom": ExposureCustom,
			}, c))
		},
		Validate: func(c *Config) {
			switch c.AeExposureMode {
			case ExposureNormal, ExposureShort, ExposureLong, ExposureCustom:
			default:
				c.LogInvalidField(KeyAeExposureMode, defaultAeExposureMode)
				c.AeExposureMode = defaultAeExposureMode
			}
		},
	},
	{
		Name: KeyAeMeteringMode,
		Type: "enum:centreweighted,spot,matrix,custom",
		Update: func(c *Config, v string) {
			c.AeMeteringMode = int(parseEnum(KeyAeMeteringMode, v, map[string]uint8{
				"centreweighted": MeteringCentreWeighted, "spot": MeteringSpot,
				"matrix": MeteringMatrix, "custom": MeteringCustom,
			}, c))
		},
		Validate: func(c *Config) {
			switch c.AeMeteringMode {
			case MeteringCentreWeighted, MeteringSpot, MeteringMatrix, MeteringCustom:
			default:
				c.LogInvalidField(KeyAeMeteringMode, defaultAeMeteringMode)
				c.AeMeteringMode = defaultAeMeteringMode
			}
		},
	},
	{
		Name:   KeyAeExposureValue,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.AeExposureValue = parseFloat(KeyAeExposureValue, v, c) },
	},
	{
		Name:   KeyAnalogueGain,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.AnalogueGain = parseFloat(KeyAnalogueGain, v, c) },
	},
	{
		Name: KeyExposureTime,
		Type: typeFloat,
		Update: func(c *Config, v string) {
			f := parseFloat(KeyExposureTime, v, c)
			if f < 0 {
				c.Logger.Warning("invalid ExposureTime param", "value", v)
				f = 0
			}
			c.ExposureTime = uint(f)
		},
	},
	{
		Name:   KeyAwbEnable,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.AwbEnable = parseBool(KeyAwbEnable, v, c) },
	},
	{
		Name: KeyAwbMode,
		Type: "enum:auto,incandescent,tungsten,fluorescent,indoor,daylight,cloudy,custom",
		Update: func(c *Config, v string) {
			c.AwbMode = int(parseEnum(KeyAwbMode, v, map[string]uint8{
				"auto": AwbAuto, "incandescent": AwbIncandescent, "tungsten": AwbTungsten,
				"fluorescent": AwbFluorescent, "indoor": AwbIndoor, "daylight": AwbDaylight,
				"cloudy": AwbCloudy, "custom": AwbCustom,
			}, c))
		},
		Validate: func(c *Config) {
			switch c.AwbMode {
			case AwbAuto, AwbIncandescent, AwbTungsten, AwbFluorescent, AwbIndoor, AwbDaylight, AwbCloudy, AwbCustom:
			default:
				c.LogInvalidField(KeyAwbMode, defaultAwbMode)
				c.AwbMode = defaultAwbMode
			}
		},
	},
	{
		Name: KeyColourGains,
		Type: typeString,
		Update: func(c *Config, v string) {
			parts := strings.Split(v, ",")
			if len(parts) != 2 {
				c.Logger.Warning("invalid ColourGains param", "value", v)
				return
			}
			r, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			b, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err1 != nil || err2 != nil {
				c.Logger.Warning("invalid ColourGains param", "value", v)
				return
			}
			c.ColourGainR, c.ColourGainB = r, b
		},
	},
	{
		Name:   KeyBrightness,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.Brightness = parseFloat(KeyBrightness, v, c) },
		Validate: func(c *Config) {
			if c.Brightness < -1 || c.Brightness > 1 {
				c.LogInvalidField(KeyBrightness, 0.0)
				c.Brightness = 0
			}
		},
	},
	{
		Name:   KeyContrast,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.Contrast = parseFloat(KeyContrast, v, c) },
		Validate: func(c *Config) {
			if c.Contrast < 0 || c.Contrast > 32 {
				c.LogInvalidField(KeyContrast, 16.0)
				c.Contrast = 16
			}
		},
	},
	{
		Name:   KeySaturation,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.Saturation = parseFloat(KeySaturation, v, c) },
		Validate: func(c *Config) {
			if c.Saturation < 0 || c.Saturation > 32 {
				c.LogInvalidField(KeySaturation, 16.0)
				c.Saturation = 16
			}
		},
	},
	{
		Name:   KeySharpness,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.Sharpness = parseFloat(KeySharpness, v, c) },
		Validate: func(c *Config) {
			if c.Sharpness < 0 || c.Sharpness > 16 {
				c.LogInvalidField(KeySharpness, 8.0)
				c.Sharpness = 8
			}
		},
	},
	{
		Name: KeyNoiseReductionMode,
		Type: "enum:off,fast,highquality,minimal,zsl",
		Update: func(c *Config, v string) {
			c.NoiseReductionMode = int(parseEnum(KeyNoiseReductionMode, v, map[string]uint8{
				"off": NoiseReductionOff, "fast": NoiseReductionFast,
				"highquality": NoiseReductionHighQuality, "minimal": NoiseReductionMinimal,
				"zsl": NoiseReductionZSL,
			}, c))
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
}

func parseFloat(n, v string, c *Config) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
	}
	return f
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}
