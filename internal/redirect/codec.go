// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package redirect implements the end-screen handoff protocol.
//
// When a session concludes, the feed view and the end screen communicate
// through URL query parameters: the engine's own fields travel under
// reserved keys, while the participant's entire original inbound query
// string travels verbatim inside a single nested parameter. This keeps
// researcher tracking data (including parameters that happen to share a
// name with a reserved key) intact all the way to the external redirect
// target.
package redirect

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/feedstage/feedstage/internal/metrics"
)

// Reserved query keys used by the end-screen handoff. They are consumed by
// the end screen and never forwarded to the final redirect target.
const (
	ParamMessage        = "message"
	ParamRedirect       = "redirect"
	ParamQueryKey       = "queryKey"
	ParamOriginalParams = "_originalParams"
)

// EndScreenParams is the decoded envelope the end screen receives.
type EndScreenParams struct {
	Message      string
	RedirectBase string
	QueryKeyName string

	// OriginalParams is the participant's original inbound query string,
	// still URL-encoded. HasOriginalParams distinguishes "absent" from
	// "present but empty" since only the former means there was no inbound
	// tracking data.
	OriginalParams    string
	HasOriginalParams bool
}

// BuildEndScreenURL composes the URL the feed view navigates to when the
// session ends. originalQuery is the raw inbound query string without its
// leading "?", captured verbatim at feed-entry time; when it is empty the
// nested parameter is omitted entirely.
func BuildEndScreenURL(basePath, message, redirectBase, queryKeyName, originalQuery string) string {
	q := url.Values{}
	q.Set(ParamMessage, message)
	q.Set(ParamRedirect, redirectBase)
	q.Set(ParamQueryKey, queryKeyName)

	originalQuery = strings.TrimPrefix(originalQuery, "?")
	if originalQuery != "" {
		q.Set(ParamOriginalParams, originalQuery)
	}

	metrics.RedirectURLsBuiltTotal.Inc()
	return basePath + "?" + q.Encode()
}

// ParseEndScreenQuery decodes the reserved keys from an end-screen request.
func ParseEndScreenQuery(q url.Values) EndScreenParams {
	_, has := q[ParamOriginalParams]
	return EndScreenParams{
		Message:           q.Get(ParamMessage),
		RedirectBase:      q.Get(ParamRedirect),
		QueryKeyName:      q.Get(ParamQueryKey),
		OriginalParams:    q.Get(ParamOriginalParams),
		HasOriginalParams: has,
	}
}

// BuildFinalRedirectURL merges the participant's original inbound query
// parameters into the researcher's redirect destination. An empty
// redirectBase returns an empty URL and no error: the caller simply renders
// no redirect action. A redirectBase that is not an absolute URL is a
// configuration error; the caller logs it and degrades to message-only.
//
// Inbound parameters overwrite any same-named parameter the destination
// already carries, and multi-valued parameters are preserved in full.
func BuildFinalRedirectURL(redirectBase, originalParamsRaw string) (string, error) {
	if redirectBase == "" {
		return "", nil
	}

	u, err := url.Parse(redirectBase)
	if err != nil {
		metrics.RedirectBuildErrorsTotal.Inc()
		return "", fmt.Errorf("parse redirect url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		metrics.RedirectBuildErrorsTotal.Inc()
		return "", fmt.Errorf("redirect url %q is not absolute", redirectBase)
	}

	q := u.Query()
	if originalParamsRaw != "" {
		inbound, err := url.ParseQuery(originalParamsRaw)
		if err != nil {
			metrics.RedirectBuildErrorsTotal.Inc()
			return "", fmt.Errorf("parse original params: %w", err)
		}
		for key, values := range inbound {
			q[key] = values
		}
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
