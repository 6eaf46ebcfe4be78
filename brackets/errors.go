package brackets

import "errors"

var (
	ErrEmptyRoster        = errors.New("cannot seed a round from an empty roster")
	ErrNoAdvancers        = errors.New("previous round produced no advancers")
	ErrCannotBuild        = errors.New("cannot build a valid next round")
	ErrTournamentFinished = errors.New("tournament already reached the final table")
)
