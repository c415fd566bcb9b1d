// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package validation

import (
	"strings"
	"testing"
)

type listing struct {
	ModelKey string   `json:"model_key" validate:"required,notblank"`
	Mileage  *float64 `json:"mileage" validate:"required,gte=0"`
	HasGPS   *bool    `json:"has_gps" validate:"required"`
	Fuel     string   `json:"fuel" validate:"omitempty,oneof=diesel petrol"`
	Internal string   `validate:"max=3"`
}

func ptr[T any](v T) *T { return &v }

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Fatal("GetValidator should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      listing
		wantFields []string
	}{
		{
			name:  "valid with false bool and zero mileage",
			input: listing{ModelKey: "Citroën", Mileage: ptr(0.0), HasGPS: ptr(false)},
		},
		{
			name:       "missing pointers",
			input:      listing{ModelKey: "Audi"},
			wantFields: []string{"mileage", "has_gps"},
		},
		{
			name:       "blank model key",
			input:      listing{ModelKey: "   ", Mileage: ptr(10.0), HasGPS: ptr(true)},
			wantFields: []string{"model_key"},
		},
		{
			name:       "negative mileage",
			input:      listing{ModelKey: "BMW", Mileage: ptr(-1.0), HasGPS: ptr(true)},
			wantFields: []string{"mileage"},
		},
		{
			name:       "oneof and untagged field name",
			input:      listing{ModelKey: "BMW", Mileage: ptr(1.0), HasGPS: ptr(true), Fuel: "steam", Internal: "toolong"},
			wantFields: []string{"fuel", "Internal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("unexpected validation error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected errors on %v", tt.wantFields)
			}
			got := strings.Join(verr.FieldNames(), ",")
			if got != strings.Join(tt.wantFields, ",") {
				t.Errorf("fields = %s, want %s", got, strings.Join(tt.wantFields, ","))
			}
		})
	}
}

func TestTranslatedMessages(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&listing{ModelKey: "", Mileage: ptr(-5.0), HasGPS: ptr(true), Internal: "abcd"})
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	msg := verr.Error()
	for _, want := range []string{
		"model_key is required",
		"mileage must be greater than or equal to 0",
		"Internal must be at most 3 characters",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}
}

func TestEmptyRequestValidationError(t *testing.T) {
	t.Parallel()

	if got := (&RequestValidationError{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
