package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/wfunc/triviaserver/clues"
)

var testCategories = []string{"SCIENCE", "HISTORY", "SPORTS", "MOVIES", "MUSIC", "GEOGRAPHY"}

func testFetch(category string, value int) (*clues.Clue, error) {
	return &clues.Clue{
		Category: category,
		Value:    value,
		Question: fmt.Sprintf("clue for %s $%d", category, value),
		Answer:   fmt.Sprintf("answer %s %d", category, value),
	}, nil
}

func TestNewBoard_FullGrid(t *testing.T) {
	board, err := NewBoard(testCategories, StandardValues, testFetch)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	if board.SlotCount() != BoardCategories*BoardRows {
		t.Errorf("expected %d slots, got %d", BoardCategories*BoardRows, board.SlotCount())
	}
	if _, ok := board.Clue("SCIENCE", 200); !ok {
		t.Error("expected a live clue at (SCIENCE, 200)")
	}
}

func TestNewBoard_RejectsWrongDimensions(t *testing.T) {
	if _, err := NewBoard(testCategories[:3], StandardValues, testFetch); err == nil {
		t.Error("expected an error for too few categories")
	}
	if _, err := NewBoard(testCategories, []int{200, 400}, testFetch); err == nil {
		t.Error("expected an error for too few values")
	}
}

func TestNewBoard_FetchFailureIsFatal(t *testing.T) {
	fetchErr := errors.New("no such clue")
	failing := func(category string, value int) (*clues.Clue, error) {
		if category == "MUSIC" && value == 600 {
			return nil, fetchErr
		}
		return testFetch(category, value)
	}
	if _, err := NewBoard(testCategories, StandardValues, failing); !errors.Is(err, fetchErr) {
		t.Errorf("a single missing clue should fail the whole board, got %v", err)
	}
}

func TestBoard_MarkAnswered(t *testing.T) {
	board, err := NewBoard(testCategories, StandardValues, testFetch)
	if err != nil {
		t.Fatal(err)
	}

	if !board.MarkAnswered("HISTORY", 400) {
		t.Fatal("MarkAnswered should succeed for a real slot")
	}
	if !board.IsAnswered("HISTORY", 400) {
		t.Error("slot should read as answered")
	}
	if _, ok := board.Clue("HISTORY", 400); ok {
		t.Error("answered slots must not return a clue")
	}
	if board.MarkAnswered("HISTORY", 9999) {
		t.Error("MarkAnswered should fail for an unknown slot")
	}
	if got := len(board.Remaining()); got != 29 {
		t.Errorf("expected 29 remaining, got %d", got)
	}
}

func TestBoard_Complete(t *testing.T) {
	board, err := NewBoard(testCategories, StandardValues, testFetch)
	if err != nil {
		t.Fatal(err)
	}
	for _, category := range testCategories {
		for _, value := range StandardValues {
			board.MarkAnswered(category, value)
		}
	}
	if !board.Complete() {
		t.Error("board should be complete after all 30 slots are answered")
	}
	if got := len(board.Remaining()); got != 0 {
		t.Errorf("expected nothing remaining, got %d", got)
	}
}

func TestPhase_Transitions(t *testing.T) {
	cases := []struct {
		from, to Phase
		ok       bool
	}{
		{PhaseLobby, PhaseSelecting, true},
		{PhaseSelecting, PhaseShowingClue, true},
		{PhaseSelecting, PhaseDDWagering, true},
		{PhaseShowingClue, PhaseBuzzOpen, true},
		{PhaseBuzzOpen, PhaseAnswering, true},
		{PhaseAnswering, PhaseBuzzOpen, true},
		{PhaseAnswering, PhaseFJWagering, true},
		{PhaseShowingAnswer, PhaseSelecting, true},
		{PhaseRoundEnd, PhaseSelecting, true},
		{PhaseFJWagering, PhaseFJAnswering, true},
		{PhaseFJAnswering, PhaseFJReveal, true},
		{PhaseFJReveal, PhaseGameOver, true},
		{PhaseLobby, PhaseBuzzOpen, false},
		{PhaseGameOver, PhaseSelecting, false},
		{PhaseBuzzOpen, PhaseSelecting, false},
		{PhaseDDWagering, PhaseBuzzOpen, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanAdvanceTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}
