// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

/*
Package supervisor provides suture-based process supervision for Feedstage.

The tree has three layers for failure isolation:

  - data: the session janitor. A crashing sweep never takes the API down.
  - events: the audit consumer draining the in-process event bus.
  - api: the HTTP server.

Each long-running component is adapted to suture's context-aware Serve
pattern by a small wrapper in this package. Suture restarts a wrapper when
its Serve returns an unexpected error, with backoff once the failure
threshold is exceeded.
*/
package supervisor
