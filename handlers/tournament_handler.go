package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/multiplayer-tournament/services"
	"github.com/go-chi/chi/v5"
)

const maxRosterBodyBytes = 5 << 20

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func tournamentID(r *http.Request) string {
	return chi.URLParam(r, "tournamentID")
}

func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/tournaments/"+tournament.ID)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.GetTournament(r.Context(), tournamentID(r))
	h.respondTournament(w, r, tournament, err)
}

func (h *TournamentHandler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.DeleteTournament(r.Context(), tournamentID(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadRoster accepts the roster as raw CSV text in the request body.
func (h *TournamentHandler) LoadRoster(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRosterBodyBytes)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.LoadRoster(r.Context(), tournamentID(r), string(body))
	h.respondTournament(w, r, tournament, err)
}

func (h *TournamentHandler) FetchRoster(w http.ResponseWriter, r *http.Request) {
	var input struct {
		URL string `json:"url"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.URL = strings.TrimSpace(input.URL)
	if !strings.HasPrefix(input.URL, "http://") && !strings.HasPrefix(input.URL, "https://") {
		badRequestResponse(w, r, errors.New("url must be an absolute http(s) address"))
		return
	}

	tournament, err := h.tournamentService.FetchRoster(r.Context(), tournamentID(r), input.URL)
	h.respondTournament(w, r, tournament, err)
}

func (h *TournamentHandler) SeedFirstRound(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.SeedFirstRound(r.Context(), tournamentID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) BuildNextRound(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.BuildNextRound(r.Context(), tournamentID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) PreviewNextRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.tournamentService.PreviewNextRound(r.Context(), tournamentID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) RecordPoint(w http.ResponseWriter, r *http.Request) {
	ref, err := slotRef(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Points *float64 `json:"points"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.RecordPoint(r.Context(), tournamentID(r), ref, input.Points)
	h.respondTournament(w, r, tournament, err)
}

func (h *TournamentHandler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	ref, err := slotRef(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		ParticipantID string `json:"participant_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.AssignSlot(r.Context(), tournamentID(r), ref, input.ParticipantID)
	h.respondTournament(w, r, tournament, err)
}

func (h *TournamentHandler) ComputeRound(w http.ResponseWriter, r *http.Request) {
	roundIndex, err := intURLParam(r, "roundIndex")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.ComputeRound(r.Context(), tournamentID(r), roundIndex)
	h.respondTournament(w, r, tournament, err)
}

func (h *TournamentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.Reset(r.Context(), tournamentID(r))
	h.respondTournament(w, r, tournament, err)
}

// ExportSnapshot writes the bare snapshot document, without an envelope,
// so it can be fed back to ImportSnapshot as is.
func (h *TournamentHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.tournamentService.ExportSnapshot(r.Context(), tournamentID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	headers := make(http.Header)
	headers.Set("Content-Disposition", `attachment; filename="tournament-`+tournamentID(r)+`.json"`)
	if err := writeJSON(w, http.StatusOK, snapshot, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRosterBodyBytes)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.ImportSnapshot(r.Context(), tournamentID(r), body)
	h.respondTournament(w, r, tournament, err)
}

func (h *TournamentHandler) PublishSnapshot(w http.ResponseWriter, r *http.Request) {
	publication, err := h.tournamentService.PublishSnapshot(r.Context(), tournamentID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"publication": publication}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.tournamentService.GetStandings(r.Context(), tournamentID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) respondTournament(w http.ResponseWriter, r *http.Request, tournament interface{}, err error) {
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func slotRef(r *http.Request) (services.SlotRef, error) {
	var ref services.SlotRef
	var err error
	if ref.Round, err = intURLParam(r, "roundIndex"); err != nil {
		return ref, err
	}
	if ref.Match, err = intURLParam(r, "matchIndex"); err != nil {
		return ref, err
	}
	if ref.Slot, err = intURLParam(r, "slotIndex"); err != nil {
		return ref, err
	}
	return ref, nil
}
