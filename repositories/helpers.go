package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/Dosada05/multiplayer-tournament/models"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// encodeState serializes the roster and rounds of a tournament.
func encodeState(t *models.Tournament) ([]byte, error) {
	data, err := json.Marshal(t.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode tournament %s state: %w", t.ID, err)
	}
	return data, nil
}

func decodeState(t *models.Tournament, data []byte) error {
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode tournament %s state: %w", t.ID, err)
	}
	s.Relink()
	t.Restore(&s)
	return nil
}

var positionalParam = regexp.MustCompile(`\$\d+`)

// rebind turns $N placeholders into ?. Queries must use each parameter once
// and in ascending order.
func rebind(query string) string {
	return positionalParam.ReplaceAllString(query, "?")
}
