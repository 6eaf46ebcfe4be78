package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/multiplayer-tournament/brackets"
	"github.com/Dosada05/multiplayer-tournament/models"
	"github.com/Dosada05/multiplayer-tournament/repositories"
	"github.com/Dosada05/multiplayer-tournament/storage"
	"github.com/stretchr/testify/require"
)

type event struct {
	tournamentID string
	eventType    string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *fakeNotifier) Publish(tournamentID, eventType string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{tournamentID, eventType})
}

func (n *fakeNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.eventType
	}
	return out
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failOn  string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.failOn != "" && strings.Contains(key, u.failOn) {
		return nil, errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, key)
	delete(u.objects, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return storage.PublicURL("https://cdn.example.com", key)
}

type fakeFetcher struct {
	body string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.body, f.err
}

type fixture struct {
	svc      TournamentService
	notifier *fakeNotifier
	uploader *fakeUploader
	fetcher  *fakeFetcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		notifier: &fakeNotifier{},
		uploader: newFakeUploader(),
		fetcher:  &fakeFetcher{},
	}
	f.svc = NewTournamentService(
		repositories.NewMemoryTournamentRepository(),
		brackets.NewRoundBuilder(brackets.Options{}),
		f.fetcher,
		f.uploader,
		f.notifier,
		nil,
	)
	return f
}

var phonetic = []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel", "India", "Juliett", "Kilo", "Lima"}

func rosterCSV(n int) string {
	var b strings.Builder
	b.WriteString("Name,Country\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s,c%d\n", phonetic[i], i)
	}
	return b.String()
}

// seeded creates a tournament with n players and a seeded first round.
func (f *fixture) seeded(t *testing.T, n int) *models.Tournament {
	t.Helper()
	ctx := context.Background()
	tr, err := f.svc.CreateTournament(ctx, "Cup")
	require.NoError(t, err)
	_, err = f.svc.LoadRoster(ctx, tr.ID, rosterCSV(n))
	require.NoError(t, err)
	tr, err = f.svc.SeedFirstRound(ctx, tr.ID)
	require.NoError(t, err)
	return tr
}

// scoreRound gives every player 10 minus its slot index.
func (f *fixture) scoreRound(t *testing.T, id string, roundIndex int) *models.Tournament {
	t.Helper()
	ctx := context.Background()
	tr, err := f.svc.GetTournament(ctx, id)
	require.NoError(t, err)
	for mi, m := range tr.Rounds[roundIndex].Matches {
		for si, slot := range m.Slots {
			if !slot.Scorable() {
				continue
			}
			v := float64(10 - si)
			tr, err = f.svc.RecordPoint(ctx, id, SlotRef{Round: roundIndex, Match: mi, Slot: si}, &v)
			require.NoError(t, err)
		}
	}
	return tr
}

func slotNames(m *models.Match) []string {
	out := make([]string, len(m.Slots))
	for i, s := range m.Slots {
		out[i] = s.Competitor.Name()
	}
	return out
}

func pointsOf(v float64) *float64 { return &v }
