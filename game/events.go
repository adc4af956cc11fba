package game

import (
	"github.com/wfunc/triviaserver/models"
)

// Outbound event payloads. Each carries enough of the room state for a
// client to render without extra queries; seconds fields tell clients how
// long the matching countdown runs.

type Snapshot struct {
	RoomCode        string                           `json:"room_code"`
	HostID          string                           `json:"host_id"`
	BoardController string                           `json:"board_controller"`
	Players         map[string]models.PlayerSnapshot `json:"players"`
	RoundNum        int                              `json:"round_num"`
	Categories      []string                         `json:"categories"`
	Values          []int                            `json:"values"`
	Answered        []Slot                           `json:"answered"`
	CurrentCategory string                           `json:"current_category,omitempty"`
	CurrentValue    int                              `json:"current_value,omitempty"`
	CurrentQuestion string                           `json:"current_question,omitempty"`
	BuzzOpen        bool                             `json:"buzz_open"`
	BuzzedPlayer    string                           `json:"buzzed_player,omitempty"`
	WrongBuzzers    []string                         `json:"wrong_buzzers,omitempty"`
	Phase           Phase                            `json:"phase"`
}

type GameStateEvent struct {
	State  Snapshot `json:"state"`
	YourID string   `json:"your_id"`
}

type PlayerJoinedEvent struct {
	Player models.PlayerSnapshot `json:"player"`
}

type PlayerLeftEvent struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type GameStartedEvent struct {
	State Snapshot `json:"state"`
}

type ClueSelectedEvent struct {
	Category      string `json:"category"`
	Value         int    `json:"value"`
	Question      string `json:"question"`
	IsDailyDouble bool   `json:"is_daily_double"`
	DisplaySecs   int    `json:"clue_display_time"`
	SelectorID    string `json:"selector_id"`
	SelectorName  string `json:"selector_name"`
}

type DailyDoubleWagerEvent struct {
	Category    string `json:"category"`
	Value       int    `json:"value"`
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	PlayerScore int    `json:"player_score"`
	MinWager    int    `json:"min_wager"`
	MaxWager    int    `json:"max_wager"`
	WagerSecs   int    `json:"wager_time"`
}

type DailyDoubleClueEvent struct {
	Category   string `json:"category"`
	Value      int    `json:"value"`
	Question   string `json:"question"`
	Wager      int    `json:"wager"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	AnswerSecs int    `json:"answer_time"`
}

type BuzzOpenEvent struct {
	BuzzSecs int `json:"buzz_time"`
}

type PlayerBuzzedEvent struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	AnswerSecs int    `json:"answer_time"`
}

type AnswerResultEvent struct {
	Correct            bool                             `json:"correct"`
	PlayerID           string                           `json:"player_id"`
	PlayerName         string                           `json:"player_name"`
	Answer             string                           `json:"answer"`
	CorrectAnswer      string                           `json:"correct_answer,omitempty"`
	Value              int                              `json:"value"`
	IsDailyDouble      bool                             `json:"is_daily_double"`
	Scores             map[string]models.PlayerSnapshot `json:"scores"`
	NewBoardController string                           `json:"new_board_controller,omitempty"`
	BuzzReopened       bool                             `json:"buzz_reopened,omitempty"`
	BuzzSecs           int                              `json:"buzz_time,omitempty"`
	WrongBuzzers       []string                         `json:"wrong_buzzers,omitempty"`
	NoMoreBuzzers      bool                             `json:"no_more_buzzers,omitempty"`
	Timeout            bool                             `json:"timeout,omitempty"`
}

type BuzzTimeoutEvent struct {
	CorrectAnswer string `json:"correct_answer"`
}

type ReadyForSelectionEvent struct {
	State Snapshot `json:"state"`
}

type RoundCompleteEvent struct {
	Round     int                              `json:"round"`
	NextRound int                              `json:"next_round"`
	Scores    map[string]models.PlayerSnapshot `json:"scores"`
}

type RoundStartedEvent struct {
	RoundNum int      `json:"round_num"`
	State    Snapshot `json:"state"`
}

type FJStartWagerEvent struct {
	Category        string                           `json:"category"`
	EligiblePlayers []string                         `json:"eligible_players"`
	Scores          map[string]models.PlayerSnapshot `json:"scores"`
	WagerSecs       int                              `json:"wager_time"`
}

type FJWagerSubmittedEvent struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	WagersReceived int    `json:"wagers_received"`
	WagersNeeded   int    `json:"wagers_needed"`
}

type FJShowClueEvent struct {
	Category        string   `json:"category"`
	Question        string   `json:"question"`
	EligiblePlayers []string `json:"eligible_players"`
	AnswerSecs      int      `json:"answer_time"`
}

type FJAnswerSubmittedEvent struct {
	PlayerID        string `json:"player_id"`
	PlayerName      string `json:"player_name"`
	AnswersReceived int    `json:"answers_received"`
	AnswersNeeded   int    `json:"answers_needed"`
}

type FJResultEntry struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Answer     string `json:"answer"`
	Wager      int    `json:"wager"`
	Correct    bool   `json:"correct"`
	NewScore   int    `json:"new_score"`
}

type FJResultsEvent struct {
	CorrectAnswer string                           `json:"correct_answer"`
	Results       []FJResultEntry                  `json:"results"`
	WinnerID      string                           `json:"winner_id"`
	WinnerName    string                           `json:"winner_name"`
	FinalScores   map[string]models.PlayerSnapshot `json:"final_scores"`
}

type GameOverEvent struct {
	Reason     string                           `json:"reason,omitempty"`
	WinnerID   string                           `json:"winner_id,omitempty"`
	WinnerName string                           `json:"winner_name,omitempty"`
	Scores     map[string]models.PlayerSnapshot `json:"scores"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}
