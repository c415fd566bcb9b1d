// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestPredictionFeaturesMap(t *testing.T) {
	t.Parallel()

	body := `{"model_key":"Citroën","mileage":140411,"engine_power":100,"fuel":"diesel",
	"paint_color":"black","car_type":"convertible","private_parking_available":true,
	"has_gps":true,"has_air_conditioning":false,"automatic_car":false,
	"has_getaround_connect":true,"has_speed_regulator":true,"winter_tires":true}`

	var f PredictionFeatures
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	m := f.Map()
	if len(m) != len(FeatureColumns) {
		t.Fatalf("len(Map) = %d, want %d", len(m), len(FeatureColumns))
	}
	for _, col := range FeatureColumns {
		if _, ok := m[col]; !ok {
			t.Errorf("Map is missing %s", col)
		}
	}
	if m["mileage"] != 140411.0 {
		t.Errorf("mileage = %v", m["mileage"])
	}
	if m["has_air_conditioning"] != false {
		t.Errorf("has_air_conditioning = %v", m["has_air_conditioning"])
	}
}

func TestPredictionFeaturesMapOmitsMissing(t *testing.T) {
	t.Parallel()

	var f PredictionFeatures
	if err := json.Unmarshal([]byte(`{"fuel":"diesel"}`), &f); err != nil {
		t.Fatal(err)
	}
	m := f.Map()
	if len(m) != 1 || m["fuel"] != "diesel" {
		t.Errorf("Map = %v", m)
	}
}

func TestPredictionResponseKey(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NewPredictionResponse(101.3))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"Predicted rental price per day in dollars":101.3}` {
		t.Errorf("body = %s", b)
	}
}
