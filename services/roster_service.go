package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Dosada05/multiplayer-tournament/models"
	"github.com/google/uuid"
)

const maxRosterBytes = 5 << 20

var (
	nameHeaderPattern  = regexp.MustCompile(`(?i)^(name|participant|participants)$`)
	imageHeaderPattern = regexp.MustCompile(`(?i)^(flag|country|countries)$`)
)

// RosterFetcher downloads roster CSV text from an external source.
type RosterFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type httpRosterFetcher struct {
	client *http.Client
	limit  int64
}

func NewHTTPRosterFetcher(timeout time.Duration) RosterFetcher {
	return &httpRosterFetcher{client: &http.Client{Timeout: timeout}, limit: maxRosterBytes}
}

func (f *httpRosterFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRosterFetchFailed, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRosterFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", ErrRosterFetchFailed, url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.limit+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrRosterFetchFailed, err)
	}
	if int64(len(body)) > f.limit {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", ErrRosterFetchFailed, url, f.limit)
	}
	return string(body), nil
}

// ParseRosterCSV reads a comma separated roster with a header row. The name
// column is the header matching name/participant(s), else the first column;
// the image column is the header matching flag/country/countries, else the
// second. Fields are split on every comma, quoting is not supported.
func ParseRosterCSV(text string) ([]*models.Participant, error) {
	lines := strings.Split(strings.TrimPrefix(text, "\ufeff"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, ErrRosterEmpty
	}

	nameCol, imageCol := 0, 1
	nameFound, imageFound := false, false
	for i, h := range splitRow(lines[0]) {
		if !nameFound && nameHeaderPattern.MatchString(h) {
			nameCol, nameFound = i, true
		}
		if !imageFound && imageHeaderPattern.MatchString(h) {
			imageCol, imageFound = i, true
		}
	}
	if !imageFound && imageCol == nameCol {
		imageCol = -1
	}

	participants := make([]*models.Participant, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitRow(line)
		name := field(fields, nameCol)
		if name == "" {
			continue
		}
		participants = append(participants, &models.Participant{
			ID:    uuid.NewString(),
			Name:  name,
			Image: field(fields, imageCol),
		})
	}
	if len(participants) == 0 {
		return nil, ErrRosterEmpty
	}
	return participants, nil
}

func splitRow(line string) []string {
	fields := strings.Split(strings.TrimRight(line, "\r"), ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
