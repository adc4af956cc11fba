package game

// Phase 表示房间状态机的当前阶段
type Phase string

const (
	PhaseLobby         Phase = "lobby"
	PhaseSelecting     Phase = "selecting"
	PhaseShowingClue   Phase = "showing_clue"
	PhaseBuzzOpen      Phase = "buzz_open"
	PhaseAnswering     Phase = "answering"
	PhaseShowingAnswer Phase = "showing_answer"
	PhaseDDWagering    Phase = "dd_wagering"
	PhaseRoundEnd      Phase = "round_end"
	PhaseFJWagering    Phase = "fj_wagering"
	PhaseFJAnswering   Phase = "fj_answering"
	PhaseFJReveal      Phase = "fj_reveal"
	PhaseGameOver      Phase = "game_over"
)

// transitions lists the legal phase changes. setPhase checks against it and
// logs a warning on anything else; handlers should make that unreachable.
var transitions = map[Phase][]Phase{
	PhaseLobby:         {PhaseSelecting},
	PhaseSelecting:     {PhaseShowingClue, PhaseDDWagering},
	PhaseShowingClue:   {PhaseBuzzOpen},
	PhaseBuzzOpen:      {PhaseAnswering, PhaseShowingAnswer},
	PhaseAnswering:     {PhaseSelecting, PhaseBuzzOpen, PhaseRoundEnd, PhaseFJWagering, PhaseGameOver},
	PhaseShowingAnswer: {PhaseSelecting, PhaseRoundEnd, PhaseFJWagering, PhaseGameOver},
	PhaseDDWagering:    {PhaseAnswering},
	PhaseRoundEnd:      {PhaseSelecting},
	PhaseFJWagering:    {PhaseFJAnswering, PhaseGameOver},
	PhaseFJAnswering:   {PhaseFJReveal},
	PhaseFJReveal:      {PhaseGameOver},
}

// CanAdvanceTo reports whether next is a legal successor of p.
func (p Phase) CanAdvanceTo(next Phase) bool {
	if p == next {
		return true
	}
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}
