package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Dosada05/multiplayer-tournament/brackets"
	"github.com/Dosada05/multiplayer-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTournament(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTournament(ctx, "   ")
	assert.ErrorIs(t, err, ErrTournamentNameRequired)

	tr, err := f.svc.CreateTournament(ctx, "  Spring Cup ")
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", tr.Name)
	assert.NotEmpty(t, tr.ID)

	list, err := f.svc.ListTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tr.ID, list[0].ID)
	assert.Equal(t, 0, list[0].ParticipantCount)

	_, err = f.svc.GetTournament(ctx, "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestFullTournamentReachesFinalTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 9)

	require.Len(t, tr.Rounds, 1)
	r1 := tr.Rounds[0]
	assert.Equal(t, "Round 1", r1.Name)
	require.Len(t, r1.Matches, 2)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}, slotNames(r1.Matches[0]))
	assert.Equal(t, []string{"Foxtrot", "Golf", "Hotel", "India"}, slotNames(r1.Matches[1]))

	f.scoreRound(t, tr.ID, 0)
	tr, err := f.svc.ComputeRound(ctx, tr.ID, 0)
	require.NoError(t, err)
	assert.True(t, tr.Rounds[0].Computed)

	tr, err = f.svc.BuildNextRound(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, tr.Rounds, 2)
	final := tr.Rounds[1]
	assert.Equal(t, models.RoundNameFinalTable, final.Name)
	require.Len(t, final.Matches, 1)
	assert.Equal(t, []string{"Alpha", "Bravo", "Foxtrot", "Golf"}, slotNames(final.Matches[0]))

	standings, err := f.svc.GetStandings(ctx, tr.ID)
	require.NoError(t, err)
	assert.False(t, standings.Finished)
	assert.Empty(t, standings.FinalTable)

	f.scoreRound(t, tr.ID, 1)
	_, err = f.svc.ComputeRound(ctx, tr.ID, 1)
	require.NoError(t, err)

	standings, err = f.svc.GetStandings(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, standings.Finished)
	require.NotNil(t, standings.Champion)
	assert.Equal(t, "Alpha", standings.Champion.Name)
	require.Len(t, standings.FinalTable, 4)
	assert.Equal(t, 4, standings.FinalTable[3].Place)
	assert.Equal(t, "Golf", standings.FinalTable[3].Participant.Name)
	assert.Equal(t, 7.0, *standings.FinalTable[3].Points)

	_, err = f.svc.BuildNextRound(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrBuildBlocked)
	assert.ErrorIs(t, err, brackets.ErrTournamentFinished)

	assert.Contains(t, f.notifier.types(), brackets.EventRoundBuilt)
	assert.Contains(t, f.notifier.types(), brackets.EventTournamentUpdated)
}

func TestBuildNextRoundRequiresComputedRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.svc.CreateTournament(ctx, "Empty")
	require.NoError(t, err)
	_, err = f.svc.BuildNextRound(ctx, empty.ID)
	assert.ErrorIs(t, err, ErrNotSeeded)

	tr := f.seeded(t, 9)
	f.scoreRound(t, tr.ID, 0)

	_, err = f.svc.BuildNextRound(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrBuildBlocked)
	assert.ErrorIs(t, err, ErrRoundNotComputed)

	got, err := f.svc.GetTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rounds, 1)
}

func TestBuildNextRoundBlockedByBuilder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 1)

	// A lone winner cannot fill a group of four and there are no thirds.
	f.scoreRound(t, tr.ID, 0)
	_, err := f.svc.ComputeRound(ctx, tr.ID, 0)
	require.NoError(t, err)

	_, err = f.svc.BuildNextRound(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrBuildBlocked)
	assert.ErrorIs(t, err, brackets.ErrCannotBuild)

	got, err := f.svc.GetTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rounds, 1)
}

func TestComputeRoundWithMissingPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 8)

	_, err := f.svc.RecordPoint(ctx, tr.ID, SlotRef{Round: 0, Match: 0, Slot: 0}, pointsOf(3))
	require.NoError(t, err)

	_, err = f.svc.ComputeRound(ctx, tr.ID, 0)
	assert.ErrorIs(t, err, ErrIncompleteRound)
	assert.Contains(t, err.Error(), "R1M1")

	got, err := f.svc.GetTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.False(t, got.Rounds[0].Computed)

	_, err = f.svc.ComputeRound(ctx, tr.ID, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestComputeRoundIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 4)
	f.scoreRound(t, tr.ID, 0)

	first, err := f.svc.ComputeRound(ctx, tr.ID, 0)
	require.NoError(t, err)
	second, err := f.svc.ComputeRound(ctx, tr.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, first.Rounds, second.Rounds)
}

func TestRecordPoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 3)
	ref := SlotRef{Round: 0, Match: 0, Slot: 0}

	_, err := f.svc.RecordPoint(ctx, tr.ID, ref, pointsOf(math.NaN()))
	assert.ErrorIs(t, err, ErrInvalidPoints)
	_, err = f.svc.RecordPoint(ctx, tr.ID, ref, pointsOf(math.Inf(1)))
	assert.ErrorIs(t, err, ErrInvalidPoints)

	_, err = f.svc.RecordPoint(ctx, tr.ID, SlotRef{Round: 0, Match: 0, Slot: 3}, pointsOf(1))
	assert.ErrorIs(t, err, ErrSlotNotScorable, "slot 4 is a BYE")

	_, err = f.svc.RecordPoint(ctx, tr.ID, SlotRef{Round: 0, Match: 1, Slot: 0}, pointsOf(1))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = f.svc.RecordPoint(ctx, tr.ID, SlotRef{Round: 1, Match: 0, Slot: 0}, pointsOf(1))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	got, err := f.svc.RecordPoint(ctx, tr.ID, ref, pointsOf(-2.5))
	require.NoError(t, err)
	assert.Equal(t, -2.5, *got.Rounds[0].Matches[0].Slots[0].Points)

	got, err = f.svc.RecordPoint(ctx, tr.ID, ref, nil)
	require.NoError(t, err)
	assert.Nil(t, got.Rounds[0].Matches[0].Slots[0].Points)

	f.scoreRound(t, tr.ID, 0)
	got, err = f.svc.ComputeRound(ctx, tr.ID, 0)
	require.NoError(t, err)
	m := got.Rounds[0].Matches[0]
	assert.True(t, m.Complete)
	require.Len(t, m.Placements, 4)
	assert.True(t, m.Placements[3].IsBye())

	_, err = f.svc.RecordPoint(ctx, tr.ID, ref, pointsOf(1))
	assert.ErrorIs(t, err, ErrRoundLocked)
}

func TestRecordPointTracksCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 3)

	got := f.scoreRound(t, tr.ID, 0)

	m := got.Rounds[0].Matches[0]
	assert.True(t, m.Complete)
	assert.Equal(t, "Alpha", m.Placements[0].Name())

	got, err := f.svc.RecordPoint(ctx, tr.ID, SlotRef{Round: 0, Match: 0, Slot: 1}, nil)
	require.NoError(t, err)
	assert.False(t, got.Rounds[0].Matches[0].Complete)
	assert.Empty(t, got.Rounds[0].Matches[0].Placements)
}

func TestAssignSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 8)
	echo := tr.Participants[4]

	_, err := f.svc.RecordPoint(ctx, tr.ID, SlotRef{Round: 0, Match: 0, Slot: 0}, pointsOf(5))
	require.NoError(t, err)
	_, err = f.svc.RecordPoint(ctx, tr.ID, SlotRef{Round: 0, Match: 1, Slot: 0}, pointsOf(6))
	require.NoError(t, err)

	got, err := f.svc.AssignSlot(ctx, tr.ID, SlotRef{Round: 0, Match: 0, Slot: 0}, echo.ID)
	require.NoError(t, err)
	m1, m2 := got.Rounds[0].Matches[0], got.Rounds[0].Matches[1]
	assert.Equal(t, []string{"Echo", "Bravo", "Charlie", "Delta"}, slotNames(m1))
	assert.Equal(t, []string{"Alpha", "Foxtrot", "Golf", "Hotel"}, slotNames(m2))
	assert.Nil(t, m1.Slots[0].Points)
	assert.Nil(t, m2.Slots[0].Points)
	assert.Same(t, got.Participants[4], m1.Slots[0].Competitor.Participant)

	got, err = f.svc.AssignSlot(ctx, tr.ID, SlotRef{Round: 0, Match: 0, Slot: 1}, "")
	require.NoError(t, err)
	assert.True(t, got.Rounds[0].Matches[0].Slots[1].IsEmpty())

	_, err = f.svc.AssignSlot(ctx, tr.ID, SlotRef{Round: 0, Match: 0, Slot: 1}, "nobody")
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestAssignSlotLockedRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 4)
	f.scoreRound(t, tr.ID, 0)
	_, err := f.svc.ComputeRound(ctx, tr.ID, 0)
	require.NoError(t, err)

	_, err = f.svc.AssignSlot(ctx, tr.ID, SlotRef{Round: 0, Match: 0, Slot: 0}, "")
	assert.ErrorIs(t, err, ErrRoundLocked)
}

func TestAssignSlotRejectsBuiltRounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 9)
	india := tr.Participants[8]
	f.scoreRound(t, tr.ID, 0)
	_, err := f.svc.ComputeRound(ctx, tr.ID, 0)
	require.NoError(t, err)
	_, err = f.svc.BuildNextRound(ctx, tr.ID)
	require.NoError(t, err)

	_, err = f.svc.AssignSlot(ctx, tr.ID, SlotRef{Round: 1, Match: 0, Slot: 0}, india.ID)
	assert.ErrorIs(t, err, ErrRoundNotSeedable)
	_, err = f.svc.AssignSlot(ctx, tr.ID, SlotRef{Round: 1, Match: 0, Slot: 1}, "")
	assert.ErrorIs(t, err, ErrRoundNotSeedable)

	got, err := f.svc.GetTournament(ctx, tr.ID)
	require.NoError(t, err)
	final := got.Rounds[1].Matches[0]
	assert.Equal(t, []string{"Alpha", "Bravo", "Foxtrot", "Golf"}, slotNames(final))
	assert.Equal(t, 4, final.PlayerCount())
}

func TestLoadRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.CreateTournament(ctx, "Cup")
	require.NoError(t, err)

	_, err = f.svc.LoadRoster(ctx, tr.ID, "Name\n\n")
	assert.ErrorIs(t, err, ErrRosterEmpty)

	got, err := f.svc.LoadRoster(ctx, tr.ID, rosterCSV(3))
	require.NoError(t, err)
	require.Len(t, got.Participants, 3)
	assert.Equal(t, "Charlie", got.Participants[2].Name)
	assert.Equal(t, "c2", got.Participants[2].Image)

	_, err = f.svc.SeedFirstRound(ctx, tr.ID)
	require.NoError(t, err)
	_, err = f.svc.SeedFirstRound(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrAlreadySeeded)

	_, err = f.svc.LoadRoster(ctx, tr.ID, rosterCSV(5))
	assert.ErrorIs(t, err, ErrRosterLocked)
}

func TestSeedFirstRoundWithoutRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.CreateTournament(ctx, "Cup")
	require.NoError(t, err)

	_, err = f.svc.SeedFirstRound(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrRosterEmpty)
}

func TestFetchRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.CreateTournament(ctx, "Cup")
	require.NoError(t, err)

	f.fetcher.err = errors.New("connection refused")
	_, err = f.svc.FetchRoster(ctx, tr.ID, "https://example.com/roster.csv")
	assert.ErrorIs(t, err, ErrRosterFetchFailed)
	got, err := f.svc.GetTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Participants)

	f.fetcher.err = nil
	f.fetcher.body = "participant\nZed\nAmy\n"
	got, err = f.svc.FetchRoster(ctx, tr.ID, "https://example.com/roster.csv")
	require.NoError(t, err)
	require.Len(t, got.Participants, 2)
	assert.Equal(t, "Zed", got.Participants[0].Name)
	assert.Equal(t, []string{"https://example.com/roster.csv", "https://example.com/roster.csv"}, f.fetcher.urls)
}

func TestPreviewNextRoundDoesNotAppend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 9)
	f.scoreRound(t, tr.ID, 0)

	preview, err := f.svc.PreviewNextRound(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoundNameFinalTable, preview.Name)

	got, err := f.svc.GetTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rounds, 1)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 6)

	got, err := f.svc.Reset(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.Equal(t, "Cup", got.Name)
	assert.Empty(t, got.Participants)
	assert.Empty(t, got.Rounds)
	assert.Contains(t, f.notifier.types(), brackets.EventTournamentReset)

	_, err = f.svc.LoadRoster(ctx, tr.ID, rosterCSV(4))
	assert.NoError(t, err, "roster can be loaded again after a reset")
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.seeded(t, 9)
	f.scoreRound(t, src.ID, 0)
	_, err := f.svc.ComputeRound(ctx, src.ID, 0)
	require.NoError(t, err)
	_, err = f.svc.BuildNextRound(ctx, src.ID)
	require.NoError(t, err)

	exported, err := f.svc.ExportSnapshot(ctx, src.ID)
	require.NoError(t, err)
	data, err := json.Marshal(exported)
	require.NoError(t, err)

	dst, err := f.svc.CreateTournament(ctx, "Copy")
	require.NoError(t, err)
	imported, err := f.svc.ImportSnapshot(ctx, dst.ID, data)
	require.NoError(t, err)
	assert.Equal(t, models.RoundNameFinalTable, imported.Rounds[1].Name)
	assert.True(t, imported.Rounds[0].Computed)

	reexported, err := f.svc.ExportSnapshot(ctx, dst.ID)
	require.NoError(t, err)
	again, err := json.Marshal(reexported)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestImportMalformedSnapshotKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 5)

	for _, body := range []string{
		`{"participants": []}`,
		`{"participants": [], "rounds": {}}`,
		`{"participants": "x", "rounds": []}`,
		`not json`,
	} {
		_, err := f.svc.ImportSnapshot(ctx, tr.ID, []byte(body))
		assert.ErrorIs(t, err, ErrMalformedSnapshot, body)
	}

	got, err := f.svc.GetTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 5)
	assert.Len(t, got.Rounds, 1)
}

func TestPublishSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 4)

	pub, err := f.svc.PublishSnapshot(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pub.Key, "tournaments/"+tr.ID+"/snapshots/"))
	assert.Equal(t, "https://cdn.example.com/tournaments/"+tr.ID+"/latest.json", pub.LatestURL)
	assert.Len(t, f.uploader.objects, 2)

	var snapshot models.Snapshot
	require.NoError(t, json.Unmarshal(f.uploader.objects["tournaments/"+tr.ID+"/latest.json"], &snapshot))
	assert.Len(t, snapshot.Participants, 4)

	f.uploader.failOn = "latest"
	_, err = f.svc.PublishSnapshot(ctx, tr.ID)
	assert.Error(t, err)
}

func TestPublishSnapshotDisabled(t *testing.T) {
	f := newFixture(t)
	svc := f.svc.(*tournamentService)
	svc.uploader = nil
	tr := f.seeded(t, 4)

	_, err := svc.PublishSnapshot(context.Background(), tr.ID)
	assert.ErrorIs(t, err, ErrPublishingDisabled)
}

func TestDeleteTournament(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.seeded(t, 4)

	require.NoError(t, f.svc.DeleteTournament(ctx, tr.ID))
	assert.Equal(t, []string{"tournaments/" + tr.ID + "/latest.json"}, f.uploader.deleted)
	assert.Contains(t, f.notifier.types(), brackets.EventTournamentDeleted)

	_, err := f.svc.GetTournament(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, f.svc.DeleteTournament(ctx, tr.ID), ErrTournamentNotFound)
}
