// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

// Package models holds the request and response types shared by the HTTP
// layer, the predictors and the dashboard.
package models

// PredictionKey is the single field of a successful prediction response.
const PredictionKey = "Predicted rental price per day in dollars"

// Error messages returned to API clients.
const (
	MsgRowLimit    = "Error! Row number should not be more than 50."
	MsgProblem     = "Error! Problem."
	MsgInputFormat = "Error! Check your input format."
)

// FeatureColumns lists the payload fields in the order models were trained on.
var FeatureColumns = []string{
	"model_key",
	"mileage",
	"engine_power",
	"fuel",
	"paint_color",
	"car_type",
	"private_parking_available",
	"has_gps",
	"has_air_conditioning",
	"automatic_car",
	"has_getaround_connect",
	"has_speed_regulator",
	"winter_tires",
}

// PredictionFeatures describes one car listing to price. Numbers and booleans
// are pointers so "missing" can be told apart from zero and false.
type PredictionFeatures struct {
	ModelKey                *string  `json:"model_key" validate:"required,notblank" example:"Citroën"`
	Mileage                 *float64 `json:"mileage" validate:"required,gte=0" example:"140411"`
	EnginePower             *float64 `json:"engine_power" validate:"required,gte=0" example:"100"`
	Fuel                    *string  `json:"fuel" validate:"required,notblank" example:"diesel"`
	PaintColor              *string  `json:"paint_color" validate:"required,notblank" example:"black"`
	CarType                 *string  `json:"car_type" validate:"required,notblank" example:"convertible"`
	PrivateParkingAvailable *bool    `json:"private_parking_available" validate:"required" example:"true"`
	HasGPS                  *bool    `json:"has_gps" validate:"required" example:"true"`
	HasAirConditioning      *bool    `json:"has_air_conditioning" validate:"required" example:"false"`
	AutomaticCar            *bool    `json:"automatic_car" validate:"required" example:"false"`
	HasGetaroundConnect     *bool    `json:"has_getaround_connect" validate:"required" example:"true"`
	HasSpeedRegulator       *bool    `json:"has_speed_regulator" validate:"required" example:"true"`
	WinterTires             *bool    `json:"winter_tires" validate:"required" example:"true"`
}

// Map returns the features keyed by column name. Nil fields are left out;
// numbers are float64, flags are bool and categories are string.
func (f *PredictionFeatures) Map() map[string]any {
	m := make(map[string]any, len(FeatureColumns))
	putString(m, "model_key", f.ModelKey)
	putFloat(m, "mileage", f.Mileage)
	putFloat(m, "engine_power", f.EnginePower)
	putString(m, "fuel", f.Fuel)
	putString(m, "paint_color", f.PaintColor)
	putString(m, "car_type", f.CarType)
	putBool(m, "private_parking_available", f.PrivateParkingAvailable)
	putBool(m, "has_gps", f.HasGPS)
	putBool(m, "has_air_conditioning", f.HasAirConditioning)
	putBool(m, "automatic_car", f.AutomaticCar)
	putBool(m, "has_getaround_connect", f.HasGetaroundConnect)
	putBool(m, "has_speed_regulator", f.HasSpeedRegulator)
	putBool(m, "winter_tires", f.WinterTires)
	return m
}

func putString(m map[string]any, k string, v *string) {
	if v != nil {
		m[k] = *v
	}
}

func putFloat(m map[string]any, k string, v *float64) {
	if v != nil {
		m[k] = *v
	}
}

func putBool(m map[string]any, k string, v *bool) {
	if v != nil {
		m[k] = *v
	}
}

// PredictionResponse is the body of a successful POST /predict.
type PredictionResponse map[string]float64

// NewPredictionResponse wraps an already rounded price.
func NewPredictionResponse(price float64) PredictionResponse {
	return PredictionResponse{PredictionKey: price}
}

// MessageResponse is the body of every error on the public endpoints.
type MessageResponse struct {
	Message string `json:"message" example:"Error! Problem."`
}
