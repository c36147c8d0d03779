package wx

// Units are closed enumerations: conversion switches match every constant
// and reject anything else, so an unsupported unit surfaces as a UnitError
// instead of silently passing through.

type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

type PressureUnit string

const (
	Hectopascals  PressureUnit = "hPa"
	MillimetersHg PressureUnit = "mmHg"
	InchesHg      PressureUnit = "inHg"
)

type SpeedUnit string

const (
	MilesPerHour      SpeedUnit = "mph"
	KilometersPerHour SpeedUnit = "km/h"
	MetersPerSecond   SpeedUnit = "m/s"
	Knots             SpeedUnit = "kn"
)

type RainUnit string

const (
	Millimeters RainUnit = "mm"
	Inches      RainUnit = "in"
)

// Temperature is a measured temperature with its source unit.
type Temperature struct {
	Value float64         `json:"value"`
	Unit  TemperatureUnit `json:"unit"`
}

// Pressure is a measured station pressure with its source unit.
type Pressure struct {
	Value float64      `json:"value"`
	Unit  PressureUnit `json:"unit"`
}

// Speed is a measured wind speed or gust with its source unit.
type Speed struct {
	Value float64   `json:"value"`
	Unit  SpeedUnit `json:"unit"`
}

// Rainfall is a measured rain amount with its source unit.
type Rainfall struct {
	Value float64  `json:"value"`
	Unit  RainUnit `json:"unit"`
}

// Observation is a single weather reading. Every field is independently
// optional; nil means the station did not measure it, which is distinct
// from a measured zero (humidity 0% is a reading, nil is "no sensor").
type Observation struct {
	Temperature       *Temperature `json:"temperature,omitempty"`
	Pressure          *Pressure    `json:"pressure,omitempty"`
	Humidity          *float64     `json:"humidity,omitempty"`
	WindDirection     *float64     `json:"windDirection,omitempty"`
	WindSpeed         *Speed       `json:"windSpeed,omitempty"`
	WindGust          *Speed       `json:"windGust,omitempty"`
	RainSinceMidnight *Rainfall    `json:"rainSinceMidnight,omitempty"`
}
