// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

/*
Package supervisor runs the long-lived parts of each binary under suture v4.

The tree has two layers so that model trouble never takes the HTTP listener
down with it:

	root ("getaround-api" or "getaround-dashboard")
	├── model-layer
	│   ├── predictor.Bridge            joblib backend only
	│   └── services.ModelWatchService  when model.watch is set
	└── api-layer
	    └── services.HTTPServerService

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog on the slog bridge of the zerolog logger:

	tree := supervisor.NewTree("getaround-api", logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService("prediction-api", server, cfg.Server.ShutdownTimeout))
	err := tree.Serve(ctx)
*/
package supervisor
