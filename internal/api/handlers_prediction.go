// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/getaround/internal/dataset"
	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/metrics"
	"github.com/tomtom215/getaround/internal/models"
	"github.com/tomtom215/getaround/internal/predictor"
	"github.com/tomtom215/getaround/internal/validation"
)

// maxPredictBody caps the POST /predict body.
const maxPredictBody = 64 << 10

// Sampler returns random rows of the pricing dataset.
type Sampler interface {
	Sample(ctx context.Context, rows int) ([]dataset.Record, error)
}

// Pricer prices a listing and reports whether a model is loaded.
type Pricer interface {
	Predict(ctx context.Context, f *models.PredictionFeatures) (float64, error)
	Ready() bool
}

// Handler serves the public preview and prediction endpoints.
type Handler struct {
	sampler     Sampler
	pricer      Pricer
	defaultRows int
}

// NewHandler creates the public endpoint handler.
func NewHandler(sampler Sampler, pricer Pricer, defaultRows int) *Handler {
	return &Handler{sampler: sampler, pricer: pricer, defaultRows: defaultRows}
}

// Preview godoc
// @Summary Get a sample of the whole dataset
// @Description Returns `rows` random records of the pricing dataset (default 3, at most 50).
// @Tags Preview
// @Produce json
// @Param rows query int false "Number of rows" default(3)
// @Success 200 {array} object
// @Failure 400 {object} models.MessageResponse
// @Failure 502 {object} models.MessageResponse
// @Router / [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	log := logging.Ctx(r.Context())

	rows := h.defaultRows
	if raw := r.URL.Query().Get("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			metrics.SampleRequests.WithLabelValues("bad_request").Inc()
			WriteMessage(w, http.StatusBadRequest, models.MsgProblem)
			return
		}
		rows = n
	}

	records, err := h.sampler.Sample(r.Context(), rows)
	switch {
	case err == nil:
	case errors.Is(err, dataset.ErrRowLimit):
		metrics.SampleRequests.WithLabelValues("row_limit").Inc()
		WriteMessage(w, http.StatusBadRequest, models.MsgRowLimit)
		return
	case errors.Is(err, dataset.ErrInvalidRows), errors.Is(err, dataset.ErrNotEnoughRows):
		metrics.SampleRequests.WithLabelValues("bad_request").Inc()
		log.Info().Err(err).Int("rows", rows).Msg("Preview rejected")
		WriteMessage(w, http.StatusBadRequest, models.MsgProblem)
		return
	default:
		metrics.SampleRequests.WithLabelValues("failure").Inc()
		log.Error().Err(err).Int("rows", rows).Msg("Preview failed")
		WriteMessage(w, http.StatusBadGateway, models.MsgProblem)
		return
	}

	metrics.SampleRequests.WithLabelValues("success").Inc()
	if records == nil {
		records = []dataset.Record{}
	}
	WriteJSON(w, http.StatusOK, records)
}

// Predict godoc
// @Summary Predict the daily rental price of a car
// @Description Prediction for a single listing. Every field is required.
// @Description Returns {"Predicted rental price per day in dollars": price} rounded to one decimal.
// @Tags Model-Prediction
// @Accept json
// @Produce json
// @Param listing body models.PredictionFeatures true "Car listing"
// @Success 200 {object} models.PredictionResponse
// @Failure 422 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Failure 503 {object} models.MessageResponse
// @Router /predict [post]
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	log := logging.Ctx(r.Context())

	var f models.PredictionFeatures
	if err := decodePayload(http.MaxBytesReader(w, r.Body, maxPredictBody), &f); err != nil {
		log.Info().Err(err).Msg("Invalid prediction payload")
		WriteMessage(w, http.StatusUnprocessableEntity, models.MsgInputFormat)
		return
	}
	if verr := validation.ValidateStruct(&f); verr != nil {
		log.Info().Strs("fields", verr.FieldNames()).Msg("Prediction payload failed validation")
		WriteMessage(w, http.StatusUnprocessableEntity, models.MsgInputFormat)
		return
	}

	log.Info().Interface("payload", f.Map()).Msg("Prediction requested")

	if !h.pricer.Ready() {
		WriteMessage(w, http.StatusServiceUnavailable, models.MsgInputFormat)
		return
	}

	price, err := h.pricer.Predict(r.Context(), &f)
	switch {
	case err == nil:
	case errors.Is(err, predictor.ErrNotReady):
		WriteMessage(w, http.StatusServiceUnavailable, models.MsgInputFormat)
		return
	case errors.Is(err, predictor.ErrFeatureMismatch):
		log.Warn().Err(err).Msg("Payload does not fit the model")
		WriteMessage(w, http.StatusUnprocessableEntity, models.MsgInputFormat)
		return
	default:
		log.Error().Err(err).Msg("Prediction failed")
		WriteMessage(w, http.StatusInternalServerError, models.MsgInputFormat)
		return
	}

	rounded := predictor.Round(price, 1)
	log.Info().Float64("prediction", price).Float64("rounded", rounded).Msg("Prediction served")
	WriteJSON(w, http.StatusOK, models.NewPredictionResponse(rounded))
}

var errTrailingData = errors.New("unexpected data after JSON payload")

// decodePayload reads exactly one JSON value from body.
func decodePayload(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
