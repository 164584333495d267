// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package api

// Machine-readable error codes returned in the API error envelope.
const (
	ErrCodeFeedNotFound       = "FEED_NOT_FOUND"
	ErrCodeExperimentInactive = "EXPERIMENT_INACTIVE"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeSessionError       = "SESSION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeForbidden          = "FORBIDDEN"
)

// Participant-facing messages. The inactive message deliberately points to
// the researcher, not support.
const (
	MsgFeedNotFound       = "Feed not found"
	MsgExperimentInactive = "This study is not currently active. Please contact the researcher for more information."
)
