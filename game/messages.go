package game

import (
	"encoding/json"

	"github.com/wfunc/triviaserver/logger"
	"github.com/wfunc/triviaserver/network"
)

// Inbound message payloads.

type SelectCluePayload struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

// WagerPayload uses json.Number so non-numeric input degrades to the
// minimum wager instead of being rejected.
type WagerPayload struct {
	Wager json.Number `json:"wager"`
}

type AnswerPayload struct {
	Answer string `json:"answer"`
}

// Dispatch routes one inbound message into the state machine. The caller
// (the owning room) must serialize calls. Unknown players, unknown message
// IDs, and malformed payloads are protocol violations: they are logged and
// dropped, never allowed to take the room down.
func (g *Game) Dispatch(playerID string, msgID uint16, data []byte) {
	p, exists := g.Players[playerID]
	if !exists {
		logger.Log.Warnf("room %s: message %d from unknown player %s", g.RoomCode, msgID, playerID)
		return
	}

	switch msgID {
	case network.MsgTypeStartGame:
		g.StartGame(p)

	case network.MsgTypeSelectClue:
		var payload SelectCluePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			logger.Log.Warnf("room %s: bad select_clue payload from %s: %v", g.RoomCode, playerID, err)
			return
		}
		g.SelectClue(p, payload.Category, payload.Value)

	case network.MsgTypeSubmitDDWager:
		g.SubmitDDWager(p, parseWager(data))

	case network.MsgTypeBuzz:
		g.Buzz(p)

	case network.MsgTypeSubmitAnswer:
		var payload AnswerPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			logger.Log.Warnf("room %s: bad submit_answer payload from %s: %v", g.RoomCode, playerID, err)
			return
		}
		g.SubmitAnswer(p, payload.Answer)

	case network.MsgTypeNextClue:
		g.NextClue(p)

	case network.MsgTypeStartNextRound:
		g.StartNextRound(p)

	case network.MsgTypeSubmitFJWager:
		g.SubmitFJWager(p, parseWager(data))

	case network.MsgTypeSubmitFJAnswer:
		var payload AnswerPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			logger.Log.Warnf("room %s: bad submit_fj_answer payload from %s: %v", g.RoomCode, playerID, err)
			return
		}
		g.SubmitFJAnswer(p, payload.Answer)

	default:
		logger.Log.Warnf("room %s: unknown message type %d from %s", g.RoomCode, msgID, playerID)
	}
}

// parseWager extracts a wager, treating anything non-numeric as zero. The
// handlers clamp the result to the valid range, so zero lands on the
// minimum allowed wager.
func parseWager(data []byte) int {
	var payload WagerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0
	}
	w, err := payload.Wager.Int64()
	if err != nil {
		return 0
	}
	return int(w)
}
