/*
Copyright © 2019 the hysplitplot authors.
This file is part of hysplitplot.

hysplitplot is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

hysplitplot is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with hysplitplot.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package hysplitutil holds the configuration glue for hysplitplot:
// an option table bound to command-line flags, environment variables and
// configuration files, and its conversion into hysplitplot.Settings.
package hysplitutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/hysplitplot"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Flags holds the command-line flags for the configuration options.
var Flags = pflag.NewFlagSet("hysplitplot", pflag.ContinueOnError)

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	// Options are the configuration options available to hysplitplot.
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "MapProjection",
			usage: `
              MapProjection specifies the map projection: auto, polar,
              lambert, mercator, or cylequ, or the legacy numbers 0 to 4.
              With auto, the projection is chosen from the latitude of the
              map center.`,
			shorthand:  "m",
			defaultVal: "auto",
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "ZoomFactor",
			usage: `
              ZoomFactor specifies how tightly the map fits the data, from
              0 (widest margins) to 100 (no margins).`,
			shorthand:  "z",
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "AspectRatio",
			usage: `
              AspectRatio specifies the width/height ratio of the map.`,
			defaultVal: 1.3,
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "GridDeltas",
			usage: `
              GridDeltas specifies the longitude and latitude spacing in
              degrees of the source data, in the format 'dlon:dlat'. If it
              is empty, the resolution of the hit grid is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "MapCenter",
			usage: `
              MapCenter specifies the map center in the format 'lat:lon'.
              If it is empty, the first source location is used.`,
			shorthand:  "L",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "Ring",
			usage: `
              Ring specifies whether concentric distance rings around the
              map center must fit on the map.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "RingNumber",
			usage: `
              RingNumber specifies the number of distance rings. A negative
              value disables rings, and zero disables hit grid refinement.`,
			defaultVal: -1,
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "RingDistance",
			usage: `
              RingDistance specifies the distance between rings in km. If it
              is zero, the distance is chosen to cover the plume.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "Rings",
			usage: `
              Rings specifies distance rings in the format 'count:distance'
              and overrides Ring, RingNumber, and RingDistance.`,
			shorthand:  "g",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Flags},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the logging level: debug, info, warning,
              or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Flags},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("HYSPLIT")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

// SetConfig reads in the configuration file given by the "config"
// option, if there is one.
func SetConfig(cfg *viper.Viper) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("hysplitplot: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// SettingsFromConfig converts the configuration in cfg into map fitting
// settings.
func SettingsFromConfig(cfg *viper.Viper) (hysplitplot.Settings, error) {
	s := hysplitplot.DefaultSettings()
	var err error

	if s.Projection, err = hysplitplot.ParseProjectionType(cfg.GetString("MapProjection")); err != nil {
		return s, fmt.Errorf("MapProjection: %v", err)
	}

	zoom, err := cast.ToIntE(cfg.Get("ZoomFactor"))
	if err != nil {
		return s, fmt.Errorf("ZoomFactor: %v", err)
	}
	s.ZoomFactor = ClampZoomFactor(zoom)

	if s.AspectRatio, err = cast.ToFloat64E(cfg.Get("AspectRatio")); err != nil {
		return s, fmt.Errorf("AspectRatio: %v", err)
	}
	if s.AspectRatio <= 0 {
		return s, fmt.Errorf("AspectRatio: must be positive but is %g", s.AspectRatio)
	}

	if d := cfg.GetString("GridDeltas"); d != "" {
		lon, lat, err := splitPair(d)
		if err != nil {
			return s, fmt.Errorf("GridDeltas: %v", err)
		}
		if lon <= 0 || lat <= 0 {
			return s, fmt.Errorf("GridDeltas: spacing must be positive but is %q", d)
		}
		s.Deltas = [2]float64{lon, lat}
	}

	if c := cfg.GetString("MapCenter"); c != "" {
		if s.Center, err = ParseMapCenter(c); err != nil {
			return s, fmt.Errorf("MapCenter: %v", err)
		}
	}

	if s.Ring, err = cast.ToBoolE(cfg.Get("Ring")); err != nil {
		return s, fmt.Errorf("Ring: %v", err)
	}
	if s.RingNumber, err = cast.ToIntE(cfg.Get("RingNumber")); err != nil {
		return s, fmt.Errorf("RingNumber: %v", err)
	}
	if s.RingDistance, err = cast.ToFloat64E(cfg.Get("RingDistance")); err != nil {
		return s, fmt.Errorf("RingDistance: %v", err)
	}
	if r := cfg.GetString("Rings"); r != "" {
		if s.RingNumber, s.RingDistance, err = ParseRingOption(r); err != nil {
			return s, fmt.Errorf("Rings: %v", err)
		}
		s.Ring = true
	}
	if s.RingDistance < 0 {
		return s, fmt.Errorf("RingDistance: must not be negative but is %g", s.RingDistance)
	}
	return s, nil
}

// Logger returns a logger at the level given by the "LogLevel" option.
func Logger(cfg *viper.Viper) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return nil, fmt.Errorf("LogLevel: %v", err)
	}
	l := logrus.New()
	l.Level = level
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	}
	return l, nil
}

// ClampZoomFactor limits a zoom factor to [0, 100].
func ClampZoomFactor(z int) int {
	if z < 0 {
		return 0
	}
	if z > 100 {
		return 100
	}
	return z
}

// ParseZoomFactor parses a zoom factor and limits it to [0, 100].
func ParseZoomFactor(s string) (int, error) {
	z, err := cast.ToIntE(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("hysplitplot: invalid zoom factor %q: %v", s, err)
	}
	return ClampZoomFactor(z), nil
}

// ParseMapCenter parses a map center given as 'lat:lon'. The latitude
// is limited to [-90, 90] and the longitude to [-180, 180]. The returned
// point is (lon, lat).
func ParseMapCenter(s string) (geom.Point, error) {
	lat, lon, err := splitPair(s)
	if err != nil {
		return geom.Point{}, fmt.Errorf("hysplitplot: invalid map center %q: %v", s, err)
	}
	return geom.Point{
		X: clamp(lon, -180, 180),
		Y: clamp(lat, -90, 90),
	}, nil
}

// ParseRingOption parses distance rings given as 'count:distance'.
func ParseRingOption(s string) (count int, distance float64, err error) {
	i := strings.Index(s, ":")
	if i < 0 {
		return 0, 0, fmt.Errorf("hysplitplot: invalid ring option %q: missing ':'", s)
	}
	if count, err = cast.ToIntE(strings.TrimSpace(s[:i])); err != nil {
		return 0, 0, fmt.Errorf("hysplitplot: invalid ring count in %q: %v", s, err)
	}
	if distance, err = cast.ToFloat64E(strings.TrimSpace(s[i+1:])); err != nil {
		return 0, 0, fmt.Errorf("hysplitplot: invalid ring distance in %q: %v", s, err)
	}
	return count, distance, nil
}

// splitPair parses two numbers separated by a colon.
func splitPair(s string) (a, b float64, err error) {
	i := strings.Index(s, ":")
	if i < 0 {
		return 0, 0, fmt.Errorf("missing ':'")
	}
	if a, err = cast.ToFloat64E(strings.TrimSpace(s[:i])); err != nil {
		return 0, 0, err
	}
	if b, err = cast.ToFloat64E(strings.TrimSpace(s[i+1:])); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
