// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

/*
Package middleware provides the chi-compatible HTTP middleware used by the
Feedstage router.

  - RequestID: per-request UUID propagated via context, response header,
    and the logging package's request-scoped fields
  - PrometheusMetrics: request counts, durations, and in-flight gauges
    labeled by chi route pattern
  - Compression: gzip for clients that send Accept-Encoding: gzip

All middleware uses the standard func(http.Handler) http.Handler shape so
it slots into chi's Use chain alongside the stock chi middleware.
*/
package middleware
