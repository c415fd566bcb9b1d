// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

// Package dashboard serves the delay analysis page: ten percent histograms
// over the filtered rental views, each with a short commentary, and the
// threshold and scope conclusions drawn from them.
//
// Histograms come from the rentals package and are cached with their SVG
// renderings (go-chart) for DashboardConfig.CacheTTL. The page itself is an
// embedded html/template that references the charts by URL.
package dashboard
