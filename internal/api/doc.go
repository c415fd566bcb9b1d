// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

/*
Package api provides the HTTP layer of the pricing service.

Endpoints:

	GET  /?rows=N    N random records of the pricing dataset (default 3, max 50)
	POST /predict    daily rental price of one car listing
	GET  /health/*   liveness and readiness probes
	GET  /metrics    Prometheus metrics
	GET  /swagger/*  API documentation

The two public endpoints keep a deliberately small error contract: every
failure body is {"message": "..."} with one of three fixed messages.

	{"message": "Error! Row number should not be more than 50."}  rows > 50
	{"message": "Error! Problem."}                                  any other preview failure
	{"message": "Error! Check your input format."}                  any prediction failure

Status codes carry the distinction the bodies do not:

	400  rows above the limit, unparsable or negative
	422  malformed or incomplete listing
	500  model evaluation failed
	502  the dataset could not be fetched
	503  no model loaded yet

Health and dashboard JSON use the models.APIResponse envelope instead.

Middleware stack, outermost first: request ID with logging context, real
IP, access log, panic recovery, CORS, then on the public group rate
limiting (go-chi/httprate), security headers and Prometheus metrics.

NewBaseRouter is shared with the dashboard server.
*/
package api
