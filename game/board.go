package game

import (
	"fmt"
	"sort"

	"github.com/wfunc/triviaserver/clues"
)

// Board geometry and scoring values. Round 2 doubles every slot value.
var (
	StandardValues = []int{200, 400, 600, 800, 1000}
	DoubleValues   = []int{400, 800, 1200, 1600, 2000}
)

const (
	BoardCategories = 6
	BoardRows       = 5
)

// Slot identifies one cell on the board.
type Slot struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

type BoardSlot struct {
	Clue     *clues.Clue
	Answered bool
}

// Board is the 6x5 clue grid for one round. The structure is immutable
// after creation; only the per-slot Answered flag flips.
type Board struct {
	Categories []string
	Values     []int
	slots      map[Slot]*BoardSlot
}

// NewBoard builds a board by fetching one clue per slot. A slot the fetch
// function cannot fill is a fatal setup error: rounds never begin with an
// incomplete board.
func NewBoard(categories []string, values []int, fetch func(category string, value int) (*clues.Clue, error)) (*Board, error) {
	if len(categories) != BoardCategories {
		return nil, fmt.Errorf("board requires exactly %d categories, got %d", BoardCategories, len(categories))
	}
	if len(values) != BoardRows {
		return nil, fmt.Errorf("board requires exactly %d values, got %d", BoardRows, len(values))
	}

	b := &Board{
		Categories: categories,
		Values:     values,
		slots:      make(map[Slot]*BoardSlot, BoardCategories*BoardRows),
	}

	for _, category := range categories {
		for _, value := range values {
			clue, err := fetch(category, value)
			if err != nil {
				return nil, fmt.Errorf("fetch clue %s $%d: %w", category, value, err)
			}
			b.slots[Slot{category, value}] = &BoardSlot{Clue: clue}
		}
	}
	return b, nil
}

// Clue returns the clue at a slot if the slot exists and is still in play.
func (b *Board) Clue(category string, value int) (*clues.Clue, bool) {
	slot, exists := b.slots[Slot{category, value}]
	if !exists || slot.Answered {
		return nil, false
	}
	return slot.Clue, true
}

// MarkAnswered takes a slot out of play. Idempotent; reports whether the
// slot exists.
func (b *Board) MarkAnswered(category string, value int) bool {
	slot, exists := b.slots[Slot{category, value}]
	if !exists {
		return false
	}
	slot.Answered = true
	return true
}

func (b *Board) IsAnswered(category string, value int) bool {
	slot, exists := b.slots[Slot{category, value}]
	return exists && slot.Answered
}

// Remaining lists unanswered slots in deterministic order.
func (b *Board) Remaining() []Slot {
	var remaining []Slot
	for key, slot := range b.slots {
		if !slot.Answered {
			remaining = append(remaining, key)
		}
	}
	sort.Slice(remaining, func(i, j int) bool {
		if remaining[i].Category != remaining[j].Category {
			return remaining[i].Category < remaining[j].Category
		}
		return remaining[i].Value < remaining[j].Value
	})
	return remaining
}

func (b *Board) Complete() bool {
	for _, slot := range b.slots {
		if !slot.Answered {
			return false
		}
	}
	return true
}

// SlotCount returns the total number of slots (30 for a full board).
func (b *Board) SlotCount() int {
	return len(b.slots)
}
