package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/Dosada05/multiplayer-tournament/models"
)

type memoryRecord struct {
	tournament models.Tournament
	state      []byte
}

// memoryTournamentRepository keeps encoded copies so callers never share
// state with the store, the same as the SQL implementations.
type memoryTournamentRepository struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

func NewMemoryTournamentRepository() TournamentRepository {
	return &memoryTournamentRepository{records: make(map[string]memoryRecord)}
}

func (r *memoryTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	state, err := encodeState(t)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[t.ID]; ok {
		return ErrTournamentConflict
	}
	r.records[t.ID] = memoryRecord{tournament: header(t), state: state}
	return nil
}

func (r *memoryTournamentRepository) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return rec.load()
}

func (r *memoryTournamentRepository) List(_ context.Context) ([]*models.Tournament, error) {
	r.mu.RLock()
	recs := make([]memoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].tournament, recs[j].tournament
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	tournaments := make([]*models.Tournament, 0, len(recs))
	for _, rec := range recs {
		t, err := rec.load()
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

func (r *memoryTournamentRepository) Update(_ context.Context, t *models.Tournament) error {
	state, err := encodeState(t)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[t.ID]
	if !ok {
		return ErrTournamentNotFound
	}
	rec.tournament.Name = t.Name
	rec.tournament.UpdatedAt = t.UpdatedAt
	rec.state = state
	r.records[t.ID] = rec
	return nil
}

func (r *memoryTournamentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(r.records, id)
	return nil
}

func header(t *models.Tournament) models.Tournament {
	return models.Tournament{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func (rec memoryRecord) load() (*models.Tournament, error) {
	t := rec.tournament
	if err := decodeState(&t, rec.state); err != nil {
		return nil, err
	}
	return &t, nil
}
