// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

/*
Command server runs the Getaround prediction API.

	GET  /?rows=N   random rows of the pricing dataset (default 3, at most 50)
	POST /predict   daily rental price of one listing

Configuration is layered with koanf (highest priority wins): environment
variables, config.yaml (or CONFIG_PATH), built-in defaults. The most used
settings:

	HTTP_PORT=4000
	MODEL_BACKEND=xgboost          xgboost | linear | joblib
	MODEL_PATH=model.json
	MODEL_PREPROCESSOR_PATH=preprocessor.json
	MODEL_WATCH=true               reload on file change
	DATASET_URL=https://...        CSV sampled by GET /

The joblib backend runs the pickled scikit-learn pipeline in a supervised
Python child process (MODEL_PYTHON, MODEL_BRIDGE_PORT).

SIGINT and SIGTERM stop the listener gracefully within
HTTP_SHUTDOWN_TIMEOUT.
*/
package main
