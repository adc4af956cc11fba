// game/game.go

// Package game implements the trivia room state machine: board play,
// buzzer arbitration, Daily Double wagering, the simultaneous final round,
// and the timer/generation discipline that keeps phase timeouts honest.
//
// A Game is single-threaded by contract. The owning room serializes every
// entry point (inbound messages and timer callbacks) under one lock, so no
// field here needs its own synchronization.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/wfunc/triviaserver/clues"
	"github.com/wfunc/triviaserver/logger"
	"github.com/wfunc/triviaserver/models"
	"github.com/wfunc/triviaserver/network"
)

const (
	MaxPlayers = 4
	MinPlayers = 2
	MinDDWager = 5

	// DailyDoublesRound1/2: how many wager slots are hidden per round.
	DailyDoublesRound1 = 1
	DailyDoublesRound2 = 2
)

var (
	ErrRoomFull       = errors.New("room is full")
	ErrGameInProgress = errors.New("game already in progress")
)

// MatchFunc judges a submitted answer against the reference answer.
type MatchFunc func(submitted, reference string) bool

// Emitter delivers outbound events. The room implements it on top of the
// broadcaster; the value is marshalled to JSON once per emit.
type Emitter interface {
	Broadcast(msgID uint16, v interface{})
	SendTo(playerID string, msgID uint16, v interface{})
}

// Scheduler runs a callback after a delay. The room implements it so that
// callbacks re-enter the game under the room lock.
type Scheduler interface {
	After(delay time.Duration, fn func())
}

// Timing holds the phase durations.
type Timing struct {
	ClueDisplay time.Duration
	BuzzWindow  time.Duration
	Answer      time.Duration
	DDWager     time.Duration
	FJWager     time.Duration
	FJAnswer    time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		ClueDisplay: 10 * time.Second,
		BuzzWindow:  10 * time.Second,
		Answer:      15 * time.Second,
		DDWager:     10 * time.Second,
		FJWager:     30 * time.Second,
		FJAnswer:    30 * time.Second,
	}
}

type Player struct {
	ID        string
	Name      string
	Score     int
	Connected bool
}

func (p *Player) Snapshot() models.PlayerSnapshot {
	return models.PlayerSnapshot{ID: p.ID, Name: p.Name, Score: p.Score}
}

// Game 一个房间的完整游戏状态
type Game struct {
	RoomCode string
	HostID   string
	Players  map[string]*Player

	RoundNum     int
	Categories   []string
	Board        *Board
	Values       []int
	DailyDoubles map[Slot]bool
	Answered     map[Slot]bool

	CurrentClue     *clues.Clue
	CurrentCategory string
	CurrentValue    int

	BuzzOpen     bool
	BuzzedPlayer string
	WrongBuzzers map[string]bool

	BoardController string
	DDWager         int
	DDPlayer        string

	ClueShownAt    time.Time
	AnswerDeadline time.Time

	FJEligible  map[string]bool
	FJWagers    map[string]int
	FJAnswers   map[string]string
	fjWagersIn  map[string]bool
	fjAnswersIn map[string]bool

	phase Phase

	// Generation counters. Scheduling a timer captures the counter value
	// after an increment; the callback is a no-op unless its captured value
	// still equals the live counter. buzzGen guards the clue-display and
	// buzz-window timers, answerGen guards the answer/wager timers
	// (including the final round).
	buzzGen   int64
	answerGen int64

	startedAt time.Time

	store    clues.Store
	match    MatchFunc
	emit     Emitter
	sched    Scheduler
	timing   Timing
	onFinish func(*models.GameRecord)
}

func New(roomCode string, store clues.Store, match MatchFunc, emit Emitter, sched Scheduler, timing Timing) *Game {
	return &Game{
		RoomCode:     roomCode,
		Players:      make(map[string]*Player),
		WrongBuzzers: make(map[string]bool),
		DailyDoubles: make(map[Slot]bool),
		Answered:     make(map[Slot]bool),
		phase:        PhaseLobby,
		store:        store,
		match:        match,
		emit:         emit,
		sched:        sched,
		timing:       timing,
	}
}

// SetFinishHook registers a callback invoked exactly once when the game
// reaches game_over. Used for game-record persistence and metrics.
func (g *Game) SetFinishHook(fn func(*models.GameRecord)) {
	g.onFinish = fn
}

func (g *Game) Phase() Phase {
	return g.phase
}

func (g *Game) HasPlayer(playerID string) bool {
	_, exists := g.Players[playerID]
	return exists
}

func (g *Game) PlayerCount() int {
	return len(g.Players)
}

// AddPlayer registers a player. The first player becomes the host. Joining
// is only possible while the room sits in the lobby.
func (g *Game) AddPlayer(playerID, name string) error {
	if g.phase != PhaseLobby {
		return ErrGameInProgress
	}
	if len(g.Players) >= MaxPlayers {
		return ErrRoomFull
	}
	g.Players[playerID] = &Player{ID: playerID, Name: name}
	if g.HostID == "" {
		g.HostID = playerID
	}
	return nil
}

// MarkConnected flips a player's connection flag. Disconnection is not
// removal: scores and pending turns survive, and a reconnect rebinds the
// same player ID.
func (g *Game) MarkConnected(playerID string, connected bool) {
	if p, exists := g.Players[playerID]; exists {
		p.Connected = connected
	}
}

func (g *Game) setPhase(next Phase) {
	if !g.phase.CanAdvanceTo(next) {
		logger.Log.Warnf("room %s: unexpected phase transition %s -> %s", g.RoomCode, g.phase, next)
	}
	g.phase = next
}

// --- Lobby / round setup ---

// StartGame begins round 1. Host only, at least two players.
func (g *Game) StartGame(p *Player) {
	if p.ID != g.HostID || g.phase != PhaseLobby {
		return
	}
	if len(g.Players) < MinPlayers {
		g.sendError(p, fmt.Sprintf("need at least %d players", MinPlayers))
		return
	}

	if err := g.initRound(1); err != nil {
		logger.Log.Errorf("room %s: round 1 setup failed: %v", g.RoomCode, err)
		g.sendError(p, "could not build the board, try again later")
		return
	}

	g.startedAt = time.Now()
	g.emit.Broadcast(network.MsgTypeGameStarted, GameStartedEvent{State: g.Snapshot()})
}

// StartNextRound begins round 2 after round 1 has cleared. Host only.
func (g *Game) StartNextRound(p *Player) {
	if p.ID != g.HostID || g.phase != PhaseRoundEnd {
		return
	}

	if err := g.initRound(2); err != nil {
		logger.Log.Errorf("room %s: round 2 setup failed: %v", g.RoomCode, err)
		g.sendError(p, "could not build the board, try again later")
		return
	}

	g.emit.Broadcast(network.MsgTypeRoundStarted, RoundStartedEvent{RoundNum: 2, State: g.Snapshot()})
}

// initRound builds a fresh board. Any failure leaves the previous phase
// untouched so the host can retry.
func (g *Game) initRound(roundNum int) error {
	values := StandardValues
	ddCount := DailyDoublesRound1
	controller := g.HostID
	if roundNum == 2 {
		values = DoubleValues
		ddCount = DailyDoublesRound2
		controller = g.lowestScorer()
	}

	usable, err := g.store.UsableCategories(roundNum)
	if err != nil {
		return fmt.Errorf("usable categories: %w", err)
	}
	if len(usable) < BoardCategories {
		return fmt.Errorf("clue source has %d usable categories for round %d, need %d",
			len(usable), roundNum, BoardCategories)
	}
	categories := sampleStrings(usable, BoardCategories)

	board, err := NewBoard(categories, values, func(category string, value int) (*clues.Clue, error) {
		return g.store.RandomClue(category, value, roundNum)
	})
	if err != nil {
		return err
	}

	g.RoundNum = roundNum
	g.Values = values
	g.Categories = categories
	g.Board = board
	g.Answered = make(map[Slot]bool)
	g.DailyDoubles = pickDailyDoubles(categories, values, ddCount)
	g.BoardController = controller
	g.clearClueState()
	g.setPhase(PhaseSelecting)
	return nil
}

// lowestScorer picks the round-2 board controller; ties break to the
// smallest player ID so the outcome is deterministic.
func (g *Game) lowestScorer() string {
	var lowest *Player
	for _, id := range g.sortedPlayerIDs() {
		p := g.Players[id]
		if lowest == nil || p.Score < lowest.Score {
			lowest = p
		}
	}
	if lowest == nil {
		return g.HostID
	}
	return lowest.ID
}

// --- Board play ---

// SelectClue reveals a slot. Board controller only, from the selecting
// phase, and only for a slot still in play.
func (g *Game) SelectClue(p *Player, category string, value int) {
	if p.ID != g.BoardController || g.phase != PhaseSelecting {
		return
	}
	if g.Answered[Slot{category, value}] {
		return
	}
	clue, exists := g.Board.Clue(category, value)
	if !exists {
		return
	}

	g.CurrentClue = clue
	g.CurrentCategory = category
	g.CurrentValue = value
	g.WrongBuzzers = make(map[string]bool)
	g.BuzzedPlayer = ""
	g.ClueShownAt = time.Now()

	if g.DailyDoubles[Slot{category, value}] {
		g.startDailyDouble(p)
		return
	}

	g.setPhase(PhaseShowingClue)
	g.buzzGen++
	gen := g.buzzGen

	g.emit.Broadcast(network.MsgTypeClueSelected, ClueSelectedEvent{
		Category:     category,
		Value:        value,
		Question:     clue.Question,
		DisplaySecs:  seconds(g.timing.ClueDisplay),
		SelectorID:   p.ID,
		SelectorName: p.Name,
	})

	g.sched.After(g.timing.ClueDisplay, func() { g.openBuzzer(gen) })
}

// openBuzzer fires after the clue display delay.
func (g *Game) openBuzzer(gen int64) {
	if gen != g.buzzGen || g.phase != PhaseShowingClue {
		return
	}

	g.setPhase(PhaseBuzzOpen)
	g.BuzzOpen = true
	g.buzzGen++
	closeGen := g.buzzGen

	g.emit.Broadcast(network.MsgTypeBuzzOpen, BuzzOpenEvent{BuzzSecs: seconds(g.timing.BuzzWindow)})

	g.sched.After(g.timing.BuzzWindow, func() { g.closeBuzzer(closeGen) })
}

// closeBuzzer fires when the buzz window elapses with nobody locked in.
func (g *Game) closeBuzzer(gen int64) {
	if gen != g.buzzGen {
		return
	}
	if g.phase != PhaseBuzzOpen || g.BuzzedPlayer != "" {
		return
	}

	g.setPhase(PhaseShowingAnswer)
	g.BuzzOpen = false
	g.markCurrentAnswered()

	g.emit.Broadcast(network.MsgTypeBuzzTimeout, BuzzTimeoutEvent{CorrectAnswer: g.CurrentClue.Answer})

	g.checkRoundComplete()
}

// Buzz locks in the first valid buzzer. Strict first-wins: once BuzzedPlayer
// is set every later buzz is ignored.
func (g *Game) Buzz(p *Player) {
	if g.phase != PhaseBuzzOpen || g.WrongBuzzers[p.ID] || g.BuzzedPlayer != "" {
		return
	}

	g.BuzzedPlayer = p.ID
	g.BuzzOpen = false
	g.setPhase(PhaseAnswering)
	g.AnswerDeadline = time.Now().Add(g.timing.Answer)

	// 作答阶段开启新的计时代，旧的关闭抢答计时器随之失效
	g.buzzGen++
	g.answerGen++
	gen := g.answerGen

	g.emit.Broadcast(network.MsgTypePlayerBuzzed, PlayerBuzzedEvent{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		AnswerSecs: seconds(g.timing.Answer),
	})

	g.sched.After(g.timing.Answer, func() { g.answerTimeout(gen) })
}

// SubmitAnswer resolves the locked-in buzzer's answer.
func (g *Game) SubmitAnswer(p *Player, answer string) {
	if g.phase != PhaseAnswering || p.ID != g.BuzzedPlayer {
		return
	}

	g.answerGen++ // invalidate the pending answer timeout
	g.resolveAnswer(p, answer, false)
}

// answerTimeout treats an expired answer window as an incorrect answer with
// no text. Covers both regular and Daily Double answering.
func (g *Game) answerTimeout(gen int64) {
	if gen != g.answerGen || g.phase != PhaseAnswering {
		return
	}
	p, exists := g.Players[g.BuzzedPlayer]
	if !exists {
		return
	}
	g.resolveAnswer(p, "", true)
}

func (g *Game) resolveAnswer(p *Player, answer string, timedOut bool) {
	isDD := g.DDPlayer != ""
	value := g.CurrentValue
	if isDD {
		value = g.DDWager
	}

	correct := !timedOut && g.match(answer, g.CurrentClue.Answer)

	if correct {
		p.Score += value
		g.markCurrentAnswered()
		g.BoardController = p.ID

		g.emit.Broadcast(network.MsgTypeAnswerResult, AnswerResultEvent{
			Correct:            true,
			PlayerID:           p.ID,
			PlayerName:         p.Name,
			Answer:             answer,
			CorrectAnswer:      g.CurrentClue.Answer,
			Value:              value,
			IsDailyDouble:      isDD,
			Scores:             g.scores(),
			NewBoardController: p.ID,
		})

		g.resetDailyDouble()
		g.checkRoundComplete()
		return
	}

	p.Score -= value

	if isDD {
		// Daily Double: no reopening, the slot is burned either way.
		g.markCurrentAnswered()

		g.emit.Broadcast(network.MsgTypeAnswerResult, AnswerResultEvent{
			Correct:       false,
			PlayerID:      p.ID,
			PlayerName:    p.Name,
			Answer:        answer,
			CorrectAnswer: g.CurrentClue.Answer,
			Value:         value,
			IsDailyDouble: true,
			Scores:        g.scores(),
			NoMoreBuzzers: true,
			Timeout:       timedOut,
		})

		g.resetDailyDouble()
		g.BuzzedPlayer = ""
		g.checkRoundComplete()
		return
	}

	g.WrongBuzzers[p.ID] = true
	g.BuzzedPlayer = ""

	if len(g.eligibleBuzzers()) > 0 {
		// Reopen for the remaining players under a fresh generation.
		g.setPhase(PhaseBuzzOpen)
		g.BuzzOpen = true
		g.buzzGen++
		gen := g.buzzGen

		g.emit.Broadcast(network.MsgTypeAnswerResult, AnswerResultEvent{
			Correct:      false,
			PlayerID:     p.ID,
			PlayerName:   p.Name,
			Answer:       answer,
			Value:        value,
			Scores:       g.scores(),
			BuzzReopened: true,
			BuzzSecs:     seconds(g.timing.BuzzWindow),
			WrongBuzzers: g.wrongBuzzerList(),
			Timeout:      timedOut,
		})

		g.sched.After(g.timing.BuzzWindow, func() { g.closeBuzzer(gen) })
		return
	}

	// Everyone missed it; reveal and move on.
	g.markCurrentAnswered()

	g.emit.Broadcast(network.MsgTypeAnswerResult, AnswerResultEvent{
		Correct:       false,
		PlayerID:      p.ID,
		PlayerName:    p.Name,
		Answer:        answer,
		CorrectAnswer: g.CurrentClue.Answer,
		Value:         value,
		Scores:        g.scores(),
		NoMoreBuzzers: true,
		Timeout:       timedOut,
	})

	g.checkRoundComplete()
}

// NextClue clears transient clue state and returns to selection. Board
// controller only.
func (g *Game) NextClue(p *Player) {
	if p.ID != g.BoardController {
		return
	}
	if g.phase != PhaseSelecting && g.phase != PhaseShowingAnswer {
		return
	}

	g.clearClueState()
	g.setPhase(PhaseSelecting)

	g.emit.Broadcast(network.MsgTypeReadyForSelection, ReadyForSelectionEvent{State: g.Snapshot()})
}

// --- Daily Double ---

func (g *Game) startDailyDouble(p *Player) {
	g.setPhase(PhaseDDWagering)
	g.DDPlayer = p.ID
	g.DDWager = 0

	minWager, maxWager := g.ddWagerBounds(p)

	g.answerGen++
	gen := g.answerGen

	// 只公布分类，不公布题面
	g.emit.Broadcast(network.MsgTypeDailyDoubleWager, DailyDoubleWagerEvent{
		Category:    g.CurrentCategory,
		Value:       g.CurrentValue,
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		PlayerScore: p.Score,
		MinWager:    minWager,
		MaxWager:    maxWager,
		WagerSecs:   seconds(g.timing.DDWager),
	})

	g.sched.After(g.timing.DDWager, func() { g.ddWagerTimeout(gen) })
}

// ddWagerBounds: min 5; max is the larger of score and the highest board
// value while the score is positive, otherwise the highest board value.
func (g *Game) ddWagerBounds(p *Player) (int, int) {
	maxBoard := g.Values[len(g.Values)-1]
	maxWager := maxBoard
	if p.Score > 0 && p.Score > maxBoard {
		maxWager = p.Score
	}
	return MinDDWager, maxWager
}

// SubmitDDWager accepts the selector's wager, clamped to the legal bounds.
func (g *Game) SubmitDDWager(p *Player, wager int) {
	if g.phase != PhaseDDWagering || p.ID != g.DDPlayer {
		return
	}
	g.applyDDWager(p, wager)
}

// ddWagerTimeout auto-submits the minimum wager when the selector stalls.
func (g *Game) ddWagerTimeout(gen int64) {
	if gen != g.answerGen || g.phase != PhaseDDWagering {
		return
	}
	p, exists := g.Players[g.DDPlayer]
	if !exists {
		return
	}
	g.applyDDWager(p, MinDDWager)
}

func (g *Game) applyDDWager(p *Player, wager int) {
	minWager, maxWager := g.ddWagerBounds(p)
	wager = clamp(wager, minWager, maxWager)

	g.DDWager = wager
	g.setPhase(PhaseAnswering)
	g.BuzzedPlayer = p.ID
	g.AnswerDeadline = time.Now().Add(g.timing.Answer)

	g.answerGen++
	gen := g.answerGen

	// Wager locked in; now the clue itself is revealed.
	g.emit.Broadcast(network.MsgTypeDailyDoubleClue, DailyDoubleClueEvent{
		Category:   g.CurrentCategory,
		Value:      g.CurrentValue,
		Question:   g.CurrentClue.Question,
		Wager:      wager,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		AnswerSecs: seconds(g.timing.Answer),
	})

	g.sched.After(g.timing.Answer, func() { g.answerTimeout(gen) })
}

func (g *Game) resetDailyDouble() {
	g.DDPlayer = ""
	g.DDWager = 0
}

// --- Round transitions ---

func (g *Game) checkRoundComplete() {
	if len(g.Answered) < g.Board.SlotCount() {
		g.clearClueState()
		g.setPhase(PhaseSelecting)
		return
	}

	switch g.RoundNum {
	case 1:
		g.setPhase(PhaseRoundEnd)
		g.emit.Broadcast(network.MsgTypeRoundComplete, RoundCompleteEvent{
			Round:     1,
			NextRound: 2,
			Scores:    g.scores(),
		})
	case 2:
		g.startFinalRound()
	}
}

// --- Final round ---

func (g *Game) startFinalRound() {
	g.RoundNum = 3

	clue, err := g.store.FinalClue()
	if err != nil {
		logger.Log.Errorf("room %s: no final round clue: %v", g.RoomCode, err)
		g.finishGame("no final round clue available")
		return
	}
	g.CurrentClue = clue

	g.FJEligible = make(map[string]bool)
	for id, p := range g.Players {
		if p.Score > 0 {
			g.FJEligible[id] = true
		}
	}
	g.FJWagers = make(map[string]int)
	g.FJAnswers = make(map[string]string)
	g.fjWagersIn = make(map[string]bool)
	g.fjAnswersIn = make(map[string]bool)

	if len(g.FJEligible) == 0 {
		g.finishGame("no players have a positive score for the final round")
		return
	}

	g.setPhase(PhaseFJWagering)
	g.answerGen++
	gen := g.answerGen

	g.emit.Broadcast(network.MsgTypeFJStartWager, FJStartWagerEvent{
		Category:        clue.Category,
		EligiblePlayers: g.eligibleList(),
		Scores:          g.scores(),
		WagerSecs:       seconds(g.timing.FJWager),
	})

	g.sched.After(g.timing.FJWager, func() { g.fjWagerTimeout(gen) })
}

// SubmitFJWager records an eligible player's secret wager, clamped to
// [0, score]. Negative wagers are not permitted in the final round.
func (g *Game) SubmitFJWager(p *Player, wager int) {
	if g.phase != PhaseFJWagering || !g.FJEligible[p.ID] || g.fjWagersIn[p.ID] {
		return
	}

	g.FJWagers[p.ID] = clamp(wager, 0, p.Score)
	g.fjWagersIn[p.ID] = true

	g.emit.Broadcast(network.MsgTypeFJWagerSubmitted, FJWagerSubmittedEvent{
		PlayerID:       p.ID,
		PlayerName:     p.Name,
		WagersReceived: len(g.fjWagersIn),
		WagersNeeded:   len(g.FJEligible),
	})

	if len(g.fjWagersIn) == len(g.FJEligible) {
		g.startFJCluePhase()
	}
}

// fjWagerTimeout fills $0 for anyone who never wagered.
func (g *Game) fjWagerTimeout(gen int64) {
	if gen != g.answerGen || g.phase != PhaseFJWagering {
		return
	}

	for id := range g.FJEligible {
		if !g.fjWagersIn[id] {
			g.FJWagers[id] = 0
			g.fjWagersIn[id] = true
		}
	}
	g.startFJCluePhase()
}

func (g *Game) startFJCluePhase() {
	g.setPhase(PhaseFJAnswering)
	g.answerGen++
	gen := g.answerGen

	g.emit.Broadcast(network.MsgTypeFJShowClue, FJShowClueEvent{
		Category:        g.CurrentClue.Category,
		Question:        g.CurrentClue.Question,
		EligiblePlayers: g.eligibleList(),
		AnswerSecs:      seconds(g.timing.FJAnswer),
	})

	g.sched.After(g.timing.FJAnswer, func() { g.fjAnswerTimeout(gen) })
}

// SubmitFJAnswer records an eligible player's secret answer.
func (g *Game) SubmitFJAnswer(p *Player, answer string) {
	if g.phase != PhaseFJAnswering || !g.FJEligible[p.ID] || g.fjAnswersIn[p.ID] {
		return
	}

	g.FJAnswers[p.ID] = answer
	g.fjAnswersIn[p.ID] = true

	g.emit.Broadcast(network.MsgTypeFJAnswerSubmitted, FJAnswerSubmittedEvent{
		PlayerID:        p.ID,
		PlayerName:      p.Name,
		AnswersReceived: len(g.fjAnswersIn),
		AnswersNeeded:   len(g.FJEligible),
	})

	if len(g.fjAnswersIn) == len(g.FJEligible) {
		g.revealFJ()
	}
}

// fjAnswerTimeout fills an empty answer for anyone who never answered.
func (g *Game) fjAnswerTimeout(gen int64) {
	if gen != g.answerGen || g.phase != PhaseFJAnswering {
		return
	}

	for id := range g.FJEligible {
		if !g.fjAnswersIn[id] {
			g.FJAnswers[id] = ""
			g.fjAnswersIn[id] = true
		}
	}
	g.revealFJ()
}

// revealFJ judges every entrant, applies wagers, and ends the game.
func (g *Game) revealFJ() {
	g.setPhase(PhaseFJReveal)
	g.answerGen++ // no further submissions count

	var results []FJResultEntry
	for _, id := range g.sortedPlayerIDs() {
		if !g.FJEligible[id] {
			continue
		}
		p := g.Players[id]
		answer := g.FJAnswers[id]
		wager := g.FJWagers[id]
		correct := answer != "" && g.match(answer, g.CurrentClue.Answer)

		if correct {
			p.Score += wager
		} else {
			p.Score -= wager
		}

		results = append(results, FJResultEntry{
			PlayerID:   id,
			PlayerName: p.Name,
			Answer:     answer,
			Wager:      wager,
			Correct:    correct,
			NewScore:   p.Score,
		})
	}

	winner := g.winner()

	g.setPhase(PhaseGameOver)

	g.emit.Broadcast(network.MsgTypeFJResults, FJResultsEvent{
		CorrectAnswer: g.CurrentClue.Answer,
		Results:       results,
		WinnerID:      winner.ID,
		WinnerName:    winner.Name,
		FinalScores:   g.scores(),
	})

	g.fireFinishHook(winner)
}

// finishGame ends the game without a final round (e.g. nobody eligible).
func (g *Game) finishGame(reason string) {
	winner := g.winner()
	g.setPhase(PhaseGameOver)

	g.emit.Broadcast(network.MsgTypeGameOver, GameOverEvent{
		Reason:     reason,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Scores:     g.scores(),
	})

	g.fireFinishHook(winner)
}

// winner is the highest scorer across all players; ties break to the
// smallest player ID.
func (g *Game) winner() *Player {
	var best *Player
	for _, id := range g.sortedPlayerIDs() {
		p := g.Players[id]
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

func (g *Game) fireFinishHook(winner *Player) {
	if g.onFinish == nil {
		return
	}

	record := &models.GameRecord{
		RoomCode:   g.RoomCode,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Rounds:     g.RoundNum,
		StartedAt:  g.startedAt,
		FinishedAt: time.Now(),
	}
	for _, id := range g.sortedPlayerIDs() {
		p := g.Players[id]
		record.Players = append(record.Players, models.PlayerResult{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
			Winner:   p.ID == winner.ID,
		})
	}

	hook := g.onFinish
	g.onFinish = nil
	hook(record)
}

// --- Snapshots and helpers ---

// Snapshot captures the room state a client needs to render. The current
// clue's answer is deliberately absent.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		RoomCode:        g.RoomCode,
		HostID:          g.HostID,
		BoardController: g.BoardController,
		Players:         g.scores(),
		RoundNum:        g.RoundNum,
		Categories:      g.Categories,
		Values:          g.Values,
		Answered:        g.answeredList(),
		CurrentCategory: g.CurrentCategory,
		CurrentValue:    g.CurrentValue,
		BuzzOpen:        g.BuzzOpen,
		BuzzedPlayer:    g.BuzzedPlayer,
		WrongBuzzers:    g.wrongBuzzerList(),
		Phase:           g.phase,
	}
	if g.CurrentClue != nil && g.phase != PhaseDDWagering {
		snap.CurrentQuestion = g.CurrentClue.Question
	}
	return snap
}

func (g *Game) scores() map[string]models.PlayerSnapshot {
	scores := make(map[string]models.PlayerSnapshot, len(g.Players))
	for id, p := range g.Players {
		scores[id] = p.Snapshot()
	}
	return scores
}

func (g *Game) answeredList() []Slot {
	answered := make([]Slot, 0, len(g.Answered))
	for slot := range g.Answered {
		answered = append(answered, slot)
	}
	sort.Slice(answered, func(i, j int) bool {
		if answered[i].Category != answered[j].Category {
			return answered[i].Category < answered[j].Category
		}
		return answered[i].Value < answered[j].Value
	})
	return answered
}

func (g *Game) wrongBuzzerList() []string {
	var ids []string
	for id := range g.WrongBuzzers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) eligibleList() []string {
	var ids []string
	for id := range g.FJEligible {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) eligibleBuzzers() []string {
	var ids []string
	for id := range g.Players {
		if !g.WrongBuzzers[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *Game) sortedPlayerIDs() []string {
	ids := make([]string, 0, len(g.Players))
	for id := range g.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) markCurrentAnswered() {
	slot := Slot{g.CurrentCategory, g.CurrentValue}
	g.Answered[slot] = true
	g.Board.MarkAnswered(slot.Category, slot.Value)
}

func (g *Game) clearClueState() {
	g.CurrentClue = nil
	g.CurrentCategory = ""
	g.CurrentValue = 0
	g.BuzzOpen = false
	g.BuzzedPlayer = ""
	g.WrongBuzzers = make(map[string]bool)
	g.resetDailyDouble()
}

func (g *Game) sendError(p *Player, message string) {
	g.emit.SendTo(p.ID, network.MsgTypeError, ErrorEvent{Message: message})
}

func sampleStrings(pool []string, n int) []string {
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

func pickDailyDoubles(categories []string, values []int, count int) map[Slot]bool {
	positions := make([]Slot, 0, len(categories)*len(values))
	for _, c := range categories {
		for _, v := range values {
			positions = append(positions, Slot{c, v})
		}
	}
	rand.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	picked := make(map[Slot]bool, count)
	for i := 0; i < count && i < len(positions); i++ {
		picked[positions[i]] = true
	}
	return picked
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
