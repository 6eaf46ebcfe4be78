package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/multiplayer-tournament/brackets"
	"github.com/Dosada05/multiplayer-tournament/models"
	"github.com/Dosada05/multiplayer-tournament/repositories"
	"github.com/Dosada05/multiplayer-tournament/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Notifier receives an event after every successful change of a tournament.
// *brackets.Hub satisfies it.
type Notifier interface {
	Publish(tournamentID, eventType string, payload interface{})
}

// SlotRef addresses one slot by zero-based round, match and slot index.
type SlotRef struct {
	Round int `json:"round"`
	Match int `json:"match"`
	Slot  int `json:"slot"`
}

// SnapshotPublication describes an uploaded snapshot.
type SnapshotPublication struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	LatestURL   string    `json:"latest_url"`
	PublishedAt time.Time `json:"published_at"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, name string) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.TournamentSummary, error)
	DeleteTournament(ctx context.Context, id string) error

	LoadRoster(ctx context.Context, id string, csvText string) (*models.Tournament, error)
	FetchRoster(ctx context.Context, id string, url string) (*models.Tournament, error)

	SeedFirstRound(ctx context.Context, id string) (*models.Tournament, error)
	AssignSlot(ctx context.Context, id string, ref SlotRef, participantID string) (*models.Tournament, error)
	RecordPoint(ctx context.Context, id string, ref SlotRef, points *float64) (*models.Tournament, error)
	ComputeRound(ctx context.Context, id string, roundIndex int) (*models.Tournament, error)
	BuildNextRound(ctx context.Context, id string) (*models.Tournament, error)
	PreviewNextRound(ctx context.Context, id string) (*models.Round, error)
	Reset(ctx context.Context, id string) (*models.Tournament, error)

	ExportSnapshot(ctx context.Context, id string) (*models.Snapshot, error)
	ImportSnapshot(ctx context.Context, id string, data []byte) (*models.Tournament, error)
	PublishSnapshot(ctx context.Context, id string) (*SnapshotPublication, error)

	GetStandings(ctx context.Context, id string) (*models.TournamentStandings, error)
}

type tournamentService struct {
	// mu serializes every load-modify-save cycle.
	mu        sync.Mutex
	repo      repositories.TournamentRepository
	generator brackets.RoundGenerator
	fetcher   RosterFetcher
	uploader  storage.FileUploader
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewTournamentService wires the tournament workflow. uploader may be nil,
// in which case PublishSnapshot reports ErrPublishingDisabled.
func NewTournamentService(
	repo repositories.TournamentRepository,
	generator brackets.RoundGenerator,
	fetcher RosterFetcher,
	uploader storage.FileUploader,
	notifier Notifier,
	logger *slog.Logger,
) TournamentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		repo:      repo,
		generator: generator,
		fetcher:   fetcher,
		uploader:  uploader,
		notifier:  notifier,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, name string) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	now := s.now()
	t := &models.Tournament{
		ID:           uuid.NewString(),
		Name:         name,
		Participants: []*models.Participant{},
		Rounds:       []*models.Round{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	s.logger.InfoContext(ctx, "tournament created", slog.String("tournament_id", t.ID), slog.String("name", t.Name))
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return s.load(ctx, id)
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.TournamentSummary, error) {
	tournaments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	summaries := make([]models.TournamentSummary, 0, len(tournaments))
	for _, t := range tournaments {
		summaries = append(summaries, t.Summary())
	}
	return summaries, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.handleRepositoryError(err, id)
	}
	s.logger.InfoContext(ctx, "tournament deleted", slog.String("tournament_id", id))

	if s.uploader != nil {
		// Versioned snapshots stay as an archive; only the live pointer goes.
		if err := s.uploader.Delete(ctx, latestSnapshotKey(id)); err != nil {
			s.logger.WarnContext(ctx, "failed to remove published snapshot",
				slog.String("tournament_id", id), slog.Any("error", err))
		}
	}
	s.notifier.Publish(id, brackets.EventTournamentDeleted, map[string]string{"id": id})
	return nil
}

func (s *tournamentService) LoadRoster(ctx context.Context, id string, csvText string) (*models.Tournament, error) {
	return s.mutate(ctx, id, brackets.EventTournamentUpdated, func(t *models.Tournament) error {
		if len(t.Rounds) > 0 {
			return ErrRosterLocked
		}
		roster, err := ParseRosterCSV(csvText)
		if err != nil {
			return err
		}
		t.Participants = roster
		s.logger.InfoContext(ctx, "roster loaded",
			slog.String("tournament_id", t.ID), slog.Int("participants", len(roster)))
		return nil
	})
}

func (s *tournamentService) FetchRoster(ctx context.Context, id string, url string) (*models.Tournament, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(t.Rounds) > 0 {
		return nil, ErrRosterLocked
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no roster fetcher configured", ErrRosterFetchFailed)
	}

	text, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.WarnContext(ctx, "roster fetch failed",
			slog.String("tournament_id", id), slog.String("url", url), slog.Any("error", err))
		if errors.Is(err, ErrRosterFetchFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRosterFetchFailed, err)
	}
	return s.LoadRoster(ctx, id, text)
}

func (s *tournamentService) SeedFirstRound(ctx context.Context, id string) (*models.Tournament, error) {
	return s.mutate(ctx, id, brackets.EventRoundBuilt, func(t *models.Tournament) error {
		if len(t.Rounds) > 0 {
			return ErrAlreadySeeded
		}
		if len(t.Participants) == 0 {
			return ErrRosterEmpty
		}
		round, err := s.generator.FirstRound(t.Participants)
		if err != nil {
			return fmt.Errorf("failed to seed first round: %w", err)
		}
		t.Rounds = append(t.Rounds, round)
		s.logger.InfoContext(ctx, "first round seeded",
			slog.String("tournament_id", t.ID), slog.Int("matches", len(round.Matches)))
		return nil
	})
}

// AssignSlot puts a roster participant into a slot of the first round, or
// empties the slot when participantID is blank. A participant already
// seated elsewhere in the same round swaps places with the current
// occupant. Points of every touched slot are cleared. Later rounds belong
// to the round builder and are rejected with ErrRoundNotSeedable.
func (s *tournamentService) AssignSlot(ctx context.Context, id string, ref SlotRef, participantID string) (*models.Tournament, error) {
	return s.mutate(ctx, id, brackets.EventTournamentUpdated, func(t *models.Tournament) error {
		round, match, slot, err := locate(t, ref)
		if err != nil {
			return err
		}
		if ref.Round != 0 {
			return fmt.Errorf("%w: %s", ErrRoundNotSeedable, round.Name)
		}
		if round.Computed {
			return ErrRoundLocked
		}

		participantID = strings.TrimSpace(participantID)
		if participantID == "" {
			slot.Competitor = nil
			slot.Points = nil
			brackets.UpdatePlacements(match)
			return nil
		}

		p := t.ParticipantByID(participantID)
		if p == nil {
			return fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
		}
		if !slot.IsEmpty() && slot.Competitor.ID() == p.ID {
			return nil
		}

		if otherMatch, other := findSeat(round, p.ID); other != nil {
			other.Competitor = slot.Competitor
			other.Points = nil
			brackets.UpdatePlacements(otherMatch)
		}
		slot.Competitor = models.NewPlayer(p)
		slot.Points = nil
		brackets.UpdatePlacements(match)
		return nil
	})
}

func (s *tournamentService) RecordPoint(ctx context.Context, id string, ref SlotRef, points *float64) (*models.Tournament, error) {
	if points != nil && (math.IsNaN(*points) || math.IsInf(*points, 0)) {
		return nil, ErrInvalidPoints
	}
	return s.mutate(ctx, id, brackets.EventTournamentUpdated, func(t *models.Tournament) error {
		round, match, slot, err := locate(t, ref)
		if err != nil {
			return err
		}
		if round.Computed {
			return ErrRoundLocked
		}
		if !slot.Scorable() {
			return ErrSlotNotScorable
		}
		if points == nil {
			slot.Points = nil
		} else {
			v := *points
			slot.Points = &v
		}
		brackets.UpdatePlacements(match)
		return nil
	})
}

// ComputeRound locks the standings of a round once every player in it has
// points. Computing an already computed round is a no-op.
func (s *tournamentService) ComputeRound(ctx context.Context, id string, roundIndex int) (*models.Tournament, error) {
	return s.mutate(ctx, id, brackets.EventTournamentUpdated, func(t *models.Tournament) error {
		if roundIndex < 0 || roundIndex >= len(t.Rounds) {
			return fmt.Errorf("%w: round %d", ErrIndexOutOfRange, roundIndex)
		}
		round := t.Rounds[roundIndex]
		if round.Computed {
			return nil
		}

		var pending []string
		for _, m := range round.Matches {
			if !brackets.UpdatePlacements(m) {
				pending = append(pending, m.ID)
			}
		}
		if len(pending) > 0 {
			return fmt.Errorf("%w: matches %s", ErrIncompleteRound, strings.Join(pending, ", "))
		}
		round.Computed = true
		s.logger.InfoContext(ctx, "round computed",
			slog.String("tournament_id", t.ID), slog.String("round", round.Name))
		return nil
	})
}

func (s *tournamentService) BuildNextRound(ctx context.Context, id string) (*models.Tournament, error) {
	return s.mutate(ctx, id, brackets.EventRoundBuilt, func(t *models.Tournament) error {
		current := t.CurrentRound()
		if current == nil {
			return ErrNotSeeded
		}
		if !current.Computed {
			return fmt.Errorf("%w: %w", ErrBuildBlocked, ErrRoundNotComputed)
		}
		next, err := s.generator.NextRound(current, len(t.Rounds)-1)
		if err != nil {
			s.logger.WarnContext(ctx, "next round blocked",
				slog.String("tournament_id", t.ID), slog.String("round", current.Name), slog.Any("error", err))
			return fmt.Errorf("%w: %w", ErrBuildBlocked, err)
		}
		t.Rounds = append(t.Rounds, next)
		s.logger.InfoContext(ctx, "round built",
			slog.String("tournament_id", t.ID), slog.String("round", next.Name), slog.Int("matches", len(next.Matches)))
		return nil
	})
}

// PreviewNextRound runs the builder on the current round without storing
// anything. The current round does not have to be computed.
func (s *tournamentService) PreviewNextRound(ctx context.Context, id string) (*models.Round, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	current := t.CurrentRound()
	if current == nil {
		return nil, ErrNotSeeded
	}
	next, err := s.generator.NextRound(current, len(t.Rounds)-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildBlocked, err)
	}
	return next, nil
}

// Reset discards the roster and every round. The tournament keeps its id
// and name so subscribers stay attached.
func (s *tournamentService) Reset(ctx context.Context, id string) (*models.Tournament, error) {
	return s.mutate(ctx, id, brackets.EventTournamentReset, func(t *models.Tournament) error {
		t.Participants = []*models.Participant{}
		t.Rounds = []*models.Round{}
		s.logger.InfoContext(ctx, "tournament reset", slog.String("tournament_id", t.ID))
		return nil
	})
}

func (s *tournamentService) ExportSnapshot(ctx context.Context, id string) (*models.Snapshot, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.Snapshot(), nil
}

// ImportSnapshot replaces the roster and rounds. A malformed snapshot leaves
// the stored tournament untouched.
func (s *tournamentService) ImportSnapshot(ctx context.Context, id string, data []byte) (*models.Tournament, error) {
	snapshot, err := models.ParseSnapshot(data)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, brackets.EventTournamentUpdated, func(t *models.Tournament) error {
		t.Restore(snapshot)
		s.logger.InfoContext(ctx, "snapshot imported",
			slog.String("tournament_id", t.ID),
			slog.Int("participants", len(snapshot.Participants)),
			slog.Int("rounds", len(snapshot.Rounds)))
		return nil
	})
}

// PublishSnapshot uploads the current snapshot twice: once under a
// timestamped key and once as the tournament's latest.json.
func (s *tournamentService) PublishSnapshot(ctx context.Context, id string) (*SnapshotPublication, error) {
	if s.uploader == nil {
		return nil, ErrPublishingDisabled
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(t.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	publishedAt := s.now()
	versionedKey := fmt.Sprintf("tournaments/%s/snapshots/%s.json", t.ID, publishedAt.Format("20060102T150405.000000000Z"))
	latestKey := latestSnapshotKey(t.ID)

	var versioned, latest *storage.UploadResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.uploader.Upload(gctx, versionedKey, "application/json", bytes.NewReader(data))
		versioned = res
		return err
	})
	g.Go(func() error {
		res, err := s.uploader.Upload(gctx, latestKey, "application/json", bytes.NewReader(data))
		latest = res
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "snapshot publish failed", slog.String("tournament_id", t.ID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to publish snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "snapshot published",
		slog.String("tournament_id", t.ID), slog.String("key", versioned.Key))
	return &SnapshotPublication{
		Key:         versioned.Key,
		URL:         versioned.Location,
		LatestURL:   latest.Location,
		PublishedAt: publishedAt,
	}, nil
}

// GetStandings reports the final ranking once the Final Table is computed.
// Before that it returns an unfinished, empty standings list.
func (s *tournamentService) GetStandings(ctx context.Context, id string) (*models.TournamentStandings, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	standings := &models.TournamentStandings{
		TournamentID: t.ID,
		Finished:     t.Finished(),
		FinalTable:   []models.Standing{},
	}
	if !standings.Finished {
		return standings, nil
	}

	final := t.CurrentRound().Matches[0]
	for _, c := range final.Placements {
		if !c.IsPlayer() {
			continue
		}
		standings.FinalTable = append(standings.FinalTable, models.Standing{
			Place:       len(standings.FinalTable) + 1,
			Participant: c.Participant,
			Points:      final.PointsOf(c.ID()),
		})
	}
	if len(standings.FinalTable) > 0 {
		standings.Champion = standings.FinalTable[0].Participant
	}
	return standings, nil
}

func (s *tournamentService) load(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleRepositoryError(err, id)
	}
	return t, nil
}

// mutate loads a fresh copy of the tournament, applies fn and saves the
// result. Nothing is saved or published when fn fails.
func (s *tournamentService) mutate(ctx context.Context, id, event string, fn func(t *models.Tournament) error) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, s.handleRepositoryError(err, id)
	}
	s.notifier.Publish(t.ID, event, t)
	return t, nil
}

func (s *tournamentService) handleRepositoryError(err error, id string) error {
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return fmt.Errorf("tournament %s repository error: %w", id, err)
}
