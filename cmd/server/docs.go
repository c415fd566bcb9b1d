// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

// @title Getaround API
// @version 1.0
// @description Getaround API predicts the daily rental price of a listing. It allows users to estimate the daily rental value of their car.
// @description
// @description ## Preview
// @description
// @description * `/` returns some random rows of the historical record
// @description
// @description ## Model-Prediction
// @description
// @description * `/predict` takes your car details and returns an estimate of its daily rental price.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/getaround/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /
// @schemes http https
//
// @tag.name Preview
// @tag.description Preview the random rows
//
// @tag.name Model-Prediction
// @tag.description Estimate rental price based on machine learning model
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
