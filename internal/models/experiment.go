// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package models

import "time"

// Default project settings applied when a researcher has not configured
// them. These values are part of the participant-facing contract: a feed
// without explicit settings still behaves deterministically.
const (
	DefaultQueryKey         = "participantId"
	DefaultTimeLimitSeconds = 300
	DefaultRandomSeed       = 42
	DefaultEndScreenMessage = "Thank you for participating in this study. You will be redirected shortly."
)

// ProjectSettings holds the feed-composition and session knobs owned by a
// project. The session engine treats these as read-only.
type ProjectSettings struct {
	// QueryKey names the URL parameter carrying participant identity.
	QueryKey string `json:"queryKey" validate:"required"`

	// TimeLimitSeconds is the session countdown in whole seconds.
	TimeLimitSeconds int `json:"timeLimitSeconds" validate:"gt=0"`

	// RedirectURL is the external destination at session end. Optional;
	// when empty the end screen shows the message with no redirect.
	RedirectURL string `json:"redirectUrl" validate:"omitempty,url"`

	// EndScreenMessage is shown to the participant at session end.
	EndScreenMessage string `json:"endScreenMessage"`

	// LockAllPositions disables shuffling entirely, producing the strict
	// authored order regardless of seed.
	LockAllPositions bool `json:"lockAllPositions"`

	// RandomizationSeed is the base seed combined with the participant
	// hash to derive the effective per-participant seed.
	RandomizationSeed int32 `json:"randomizationSeed"`
}

// DefaultProjectSettings returns the settings applied to new projects.
func DefaultProjectSettings() ProjectSettings {
	return ProjectSettings{
		QueryKey:         DefaultQueryKey,
		TimeLimitSeconds: DefaultTimeLimitSeconds,
		EndScreenMessage: DefaultEndScreenMessage,
		RandomizationSeed: DefaultRandomSeed,
	}
}

// Project groups experiments under one set of settings.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=200"`
	CreatedAt time.Time `json:"createdAt"`

	Settings ProjectSettings `json:"settings"`
}

// Experiment is a single published feed within a project.
type Experiment struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name" validate:"required,max=200"`

	// PublicURL is the unique slug participants open the feed under.
	PublicURL string `json:"publicUrl" validate:"required"`

	// PersistTimer controls whether the countdown survives page reloads.
	PersistTimer bool `json:"persistTimer"`

	// ShowUnmutePrompt is surfaced to the feed client verbatim.
	ShowUnmutePrompt bool `json:"showUnmutePrompt"`

	// IsActive is the researcher's kill switch. An inactive experiment
	// serves no feed.
	IsActive bool `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
}

// Video is a stimulus item in an experiment's feed.
//
// Position is the authored order. It is declared float64 because it is
// researcher-authored data arriving over JSON: the composition engine
// sanitizes negative, fractional, and out-of-range values instead of
// rejecting the feed.
type Video struct {
	ID           string `json:"id"`
	ExperimentID string `json:"experimentId"`

	Filename string `json:"filename" validate:"required"`
	Caption  string `json:"caption"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`

	Position float64 `json:"position"`
	IsLocked bool    `json:"isLocked"`

	CreatedAt time.Time `json:"createdAt"`
}

// Participant records an enrolled participant for an experiment.
// Enrollment happens implicitly on first interaction.
type Participant struct {
	ExperimentID  string    `json:"experimentId"`
	ParticipantID string    `json:"participantId"`
	EnrolledAt    time.Time `json:"enrolledAt"`
}

// Interaction is one logged engagement event (like, pause, watch-time...).
// The engine only stores and forwards these; interpretation is the
// researcher's concern.
type Interaction struct {
	ID            string                 `json:"id"`
	ExperimentID  string                 `json:"experimentId" validate:"required"`
	ParticipantID string                 `json:"participantId" validate:"required"`
	VideoID       string                 `json:"videoId"`
	Type          string                 `json:"interactionType" validate:"required,max=64"`
	Data          map[string]interface{} `json:"interactionData,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// FeedSettings is the subset of project settings exposed in the feed
// payload. RandomizationSeed and LockAllPositions stay server-side.
type FeedSettings struct {
	QueryKey         string `json:"queryKey"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
	RedirectURL      string `json:"redirectUrl"`
	EndScreenMessage string `json:"endScreenMessage"`
}

// FeedResponse is the payload of GET /api/feed/{publicUrl}. Videos are in
// final composed order (post-shuffle, post-lock-resolution).
type FeedResponse struct {
	ExperimentID     string       `json:"experimentId"`
	ExperimentName   string       `json:"experimentName"`
	PersistTimer     bool         `json:"persistTimer"`
	ShowUnmutePrompt bool         `json:"showUnmutePrompt"`
	ProjectSettings  FeedSettings `json:"projectSettings"`
	Videos           []Video      `json:"videos"`
}

// EndScreenResponse is the payload of GET /end/{publicUrl}. RedirectURL is
// empty when no redirect is configured or the configured base is invalid.
type EndScreenResponse struct {
	Message     string `json:"message"`
	RedirectURL string `json:"redirectUrl"`
}
