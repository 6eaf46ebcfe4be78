package services

import (
	"errors"

	"github.com/Dosada05/multiplayer-tournament/models"
)

// Ошибки сервисного слоя; handlers сопоставляют их с HTTP статусами.
var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrParticipantNotFound    = errors.New("participant is not on the roster")

	// Roster ingestion
	ErrRosterEmpty       = errors.New("roster contains no participants")
	ErrRosterLocked      = errors.New("roster cannot change once the first round is seeded")
	ErrRosterFetchFailed = errors.New("failed to fetch roster")

	// Round editing
	ErrAlreadySeeded    = errors.New("first round is already seeded")
	ErrNotSeeded        = errors.New("tournament has no rounds yet")
	ErrIndexOutOfRange  = errors.New("round, match or slot index out of range")
	ErrRoundLocked      = errors.New("round standings are locked")
	ErrRoundNotSeedable = errors.New("only the first round can be seeded by hand")
	ErrInvalidPoints    = errors.New("points must be a finite number")
	ErrSlotNotScorable  = errors.New("slot holds no player that can score")
	ErrIncompleteRound  = errors.New("round has players without points")

	// Advancing
	ErrBuildBlocked     = errors.New("next round cannot be built")
	ErrRoundNotComputed = errors.New("current round standings are not computed")

	ErrMalformedSnapshot  = models.ErrMalformedSnapshot
	ErrPublishingDisabled = errors.New("snapshot publishing is not configured")

	// Auth
	ErrInvalidCredentials   = errors.New("invalid organizer password")
	ErrAuthenticationFailed = errors.New("authentication failed")
)
