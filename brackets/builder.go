package brackets

import (
	"fmt"

	"github.com/Dosada05/multiplayer-tournament/models"
)

const (
	RuleTerminal           = "terminal"
	RuleNoAdvancers        = "no-advancers"
	RuleSemifinalToFinal   = "semifinal-to-final"
	RuleSemifinalFormation = "semifinal-formation"
	RuleByePaddedFinal     = "bye-padded-final"
	RuleDefaultGrouping    = "default-grouping"

	semifinalPoolSize   = 9
	semifinalGroupSize  = 3
	finalTableSize      = 4
	byePaddedMatchCount = 3
)

// Options tune the round builder.
type Options struct {
	// AllowUnderfilled keeps a group smaller than four when no thirds are
	// left to top it up instead of refusing to build the round.
	AllowUnderfilled bool
}

// RoundBuilder turns a completed round into the next one. It holds no state
// besides its options and is safe to call speculatively.
type RoundBuilder struct {
	opts  Options
	rules []shapeRule
}

// BuildResult is the next round together with the rule that produced it.
type BuildResult struct {
	Rule  string
	Round *models.Round
}

type shapeRule struct {
	name    string
	applies func(bc *buildContext) bool
	build   func(bc *buildContext) (*models.Round, error)
}

// buildContext carries everything the rules need about the previous round.
type buildContext struct {
	prev       *models.Round
	roundIndex int
	results    []matchResult
	advancers  []finisher
	winners    []finisher
	seconds    []finisher
	thirds     []finisher
}

type matchResult struct {
	match    *models.Match
	complete bool
	ranked   []finisher
}

func NewRoundBuilder(opts Options) *RoundBuilder {
	b := &RoundBuilder{opts: opts}
	// Evaluated in order, the first rule that applies wins.
	b.rules = []shapeRule{
		{name: RuleTerminal, applies: isFinalTableRound, build: refuseTerminal},
		{name: RuleNoAdvancers, applies: hasNoAdvancers, build: refuseNoAdvancers},
		{name: RuleSemifinalToFinal, applies: isSemifinalRound, build: buildFinalFromSemifinal},
		{name: RuleSemifinalFormation, applies: formsSemifinal, build: buildSemifinal},
		{name: RuleByePaddedFinal, applies: formsByePaddedFinal, build: buildByePaddedFinal},
		{name: RuleDefaultGrouping, applies: always, build: b.buildDefault},
	}
	return b
}

func (b *RoundBuilder) GetName() string {
	return "MultiPlayerElimination"
}

func (b *RoundBuilder) FirstRound(roster []*models.Participant) (*models.Round, error) {
	return SeedFirstRound(roster)
}

// NextRound builds the round following prev. roundIndex is the zero-based
// position of prev in the tournament.
func (b *RoundBuilder) NextRound(prev *models.Round, roundIndex int) (*models.Round, error) {
	res, err := b.Build(prev, roundIndex)
	if err != nil {
		return nil, err
	}
	return res.Round, nil
}

// Build is NextRound plus the name of the rule that fired.
func (b *RoundBuilder) Build(prev *models.Round, roundIndex int) (BuildResult, error) {
	if prev == nil {
		return BuildResult{}, fmt.Errorf("%w: no previous round", ErrCannotBuild)
	}
	bc := newBuildContext(prev, roundIndex)
	for _, rule := range b.rules {
		if !rule.applies(bc) {
			continue
		}
		round, err := rule.build(bc)
		if err != nil {
			return BuildResult{Rule: rule.name}, err
		}
		return BuildResult{Rule: rule.name, Round: round}, nil
	}
	return BuildResult{}, ErrCannotBuild
}

func newBuildContext(prev *models.Round, roundIndex int) *buildContext {
	bc := &buildContext{prev: prev, roundIndex: roundIndex}
	for _, m := range prev.Matches {
		mr := matchResult{match: m, complete: IsMatchComplete(m)}
		if mr.complete {
			mr.ranked = rankMatch(m)
		}
		bc.results = append(bc.results, mr)
		if !mr.complete {
			continue
		}
		for place, f := range mr.ranked {
			if place > 2 {
				break
			}
			if f.competitor.IsBye() {
				continue
			}
			switch place {
			case 0:
				bc.winners = append(bc.winners, f)
				bc.advancers = append(bc.advancers, f)
			case 1:
				bc.seconds = append(bc.seconds, f)
				bc.advancers = append(bc.advancers, f)
			case 2:
				bc.thirds = append(bc.thirds, f)
			}
		}
	}
	return bc
}

// nextOrdinal is the one-based number of the round being built.
func (bc *buildContext) nextOrdinal() int {
	return bc.roundIndex + 2
}

// bestSecond picks the strongest runner-up across the round.
func (bc *buildContext) bestSecond() (finisher, bool) {
	if len(bc.seconds) == 0 {
		return finisher{}, false
	}
	return sortFinishers(bc.seconds)[0], true
}

// finalists are all match winners plus the best second, deduplicated.
func (bc *buildContext) finalists() []finisher {
	candidates := append([]finisher(nil), bc.winners...)
	if best, ok := bc.bestSecond(); ok {
		candidates = append(candidates, best)
	}
	return uniqueFinishers(candidates)
}

// semifinalPool lists winners, then sorted seconds, then sorted thirds,
// each identity once.
func (bc *buildContext) semifinalPool() []finisher {
	pool := make([]finisher, 0, len(bc.advancers)+len(bc.thirds))
	pool = append(pool, bc.winners...)
	pool = append(pool, sortFinishers(bc.seconds)...)
	pool = append(pool, sortFinishers(bc.thirds)...)
	return uniqueFinishers(pool)
}

func uniqueFinishers(in []finisher) []finisher {
	seen := make(map[string]bool, len(in))
	out := make([]finisher, 0, len(in))
	for _, f := range in {
		if seen[f.id()] {
			continue
		}
		seen[f.id()] = true
		out = append(out, f)
	}
	return out
}

func always(*buildContext) bool { return true }

func isFinalTableRound(bc *buildContext) bool {
	return bc.prev.IsFinalTable()
}

func refuseTerminal(*buildContext) (*models.Round, error) {
	return nil, ErrTournamentFinished
}

func hasNoAdvancers(bc *buildContext) bool {
	return len(bc.advancers) == 0
}

func refuseNoAdvancers(bc *buildContext) (*models.Round, error) {
	return nil, fmt.Errorf("%w: round %q", ErrNoAdvancers, bc.prev.Name)
}

func isSemifinalRound(bc *buildContext) bool {
	return bc.prev.IsSemifinal()
}

func buildFinalFromSemifinal(bc *buildContext) (*models.Round, error) {
	for _, mr := range bc.results {
		if !mr.complete || len(mr.ranked) < 2 {
			return nil, fmt.Errorf("%w: semifinal match %s is not fully ranked", ErrCannotBuild, mr.match.ID)
		}
	}
	finalists := bc.finalists()
	if len(finalists) != finalTableSize {
		return nil, fmt.Errorf("%w: semifinal produced %d finalists, need %d", ErrCannotBuild, len(finalists), finalTableSize)
	}
	return newRound(bc.nextOrdinal(), models.RoundNameFinalTable, [][]finisher{finalists}), nil
}

func formsSemifinal(bc *buildContext) bool {
	return !bc.prev.IsSemifinal() && len(bc.semifinalPool()) == semifinalPoolSize
}

func buildSemifinal(bc *buildContext) (*models.Round, error) {
	pool := bc.semifinalPool()
	groups := make([][]finisher, 0, semifinalPoolSize/semifinalGroupSize)
	for i := 0; i < len(pool); i += semifinalGroupSize {
		groups = append(groups, pool[i:i+semifinalGroupSize])
	}
	return newRound(bc.nextOrdinal(), models.RoundNameSemifinal, groups), nil
}

func formsByePaddedFinal(bc *buildContext) bool {
	if len(bc.prev.Matches) != byePaddedMatchCount {
		return false
	}
	for _, m := range bc.prev.Matches {
		if m.PlayerCount() < 2 {
			return false
		}
	}
	return len(bc.finalists()) == finalTableSize
}

func buildByePaddedFinal(bc *buildContext) (*models.Round, error) {
	return newRound(bc.nextOrdinal(), models.RoundNameFinalTable, [][]finisher{bc.finalists()}), nil
}

func (b *RoundBuilder) buildDefault(bc *buildContext) (*models.Round, error) {
	groups := DistributeIntoGroups(bc.advancers)

	seen := make(map[string]bool, len(bc.advancers))
	for _, f := range bc.advancers {
		seen[f.id()] = true
	}
	thirds := sortFinishers(bc.thirds)
	next := 0
	total := 0
	for i := range groups {
		for len(groups[i]) < minGroupSize && next < len(thirds) {
			t := thirds[next]
			next++
			if seen[t.id()] {
				continue
			}
			seen[t.id()] = true
			groups[i] = append(groups[i], t)
		}
		if len(groups[i]) < minGroupSize && !b.opts.AllowUnderfilled {
			return nil, fmt.Errorf("%w: group %d has %d players and no thirds are left to top it up",
				ErrCannotBuild, i+1, len(groups[i]))
		}
		total += len(groups[i])
	}

	if total == finalTableSize {
		merged := make([]finisher, 0, finalTableSize)
		for _, g := range groups {
			merged = append(merged, g...)
		}
		return newRound(bc.nextOrdinal(), models.RoundNameFinalTable, [][]finisher{merged}), nil
	}
	return newRound(bc.nextOrdinal(), models.RoundName(bc.nextOrdinal()), groups), nil
}

// newRound creates fresh unscored matches; competitors are shared with the
// previous round, never copied.
func newRound(ordinal int, name string, groups [][]finisher) *models.Round {
	round := &models.Round{ID: roundID(ordinal), Name: name}
	for i, group := range groups {
		match := &models.Match{ID: matchID(ordinal, i+1), Slots: make([]*models.Slot, 0, len(group))}
		for _, f := range group {
			match.Slots = append(match.Slots, &models.Slot{Competitor: f.competitor})
		}
		round.Matches = append(round.Matches, match)
	}
	return round
}
