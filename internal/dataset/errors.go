// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dataset

import "errors"

var (
	// ErrRowLimit is returned when more rows are requested than the sampler allows.
	ErrRowLimit = errors.New("row limit exceeded")

	// ErrInvalidRows is returned for a negative row count.
	ErrInvalidRows = errors.New("invalid row count")

	// ErrNotEnoughRows is returned when the dataset is smaller than the sample.
	ErrNotEnoughRows = errors.New("not enough rows in dataset")

	// ErrEmptyDataset is returned when the CSV has no header.
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrFetch wraps every failure to obtain the CSV bytes.
	ErrFetch = errors.New("dataset fetch failed")

	// ErrTooLarge is returned when the CSV exceeds the configured size cap.
	ErrTooLarge = errors.New("dataset exceeds size limit")
)
