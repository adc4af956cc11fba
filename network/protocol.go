package network

// Message IDs of the trivia wire protocol. Inbound player actions live in
// the 1xx range, outbound events in the 3xx range. Every payload is JSON.
const (
	MsgTypeHeartbeat = 1

	// 玩家 -> 服务器
	MsgTypeStartGame      = 101
	MsgTypeSelectClue     = 102
	MsgTypeSubmitDDWager  = 103
	MsgTypeBuzz           = 104
	MsgTypeSubmitAnswer   = 105
	MsgTypeNextClue       = 106
	MsgTypeStartNextRound = 107
	MsgTypeSubmitFJWager  = 108
	MsgTypeSubmitFJAnswer = 109

	// 服务器 -> 玩家
	MsgTypeGameState         = 301
	MsgTypePlayerJoined      = 302
	MsgTypePlayerLeft        = 303
	MsgTypeGameStarted       = 304
	MsgTypeClueSelected      = 305
	MsgTypeDailyDoubleWager  = 306
	MsgTypeDailyDoubleClue   = 307
	MsgTypeBuzzOpen          = 308
	MsgTypePlayerBuzzed      = 309
	MsgTypeAnswerResult      = 310
	MsgTypeBuzzTimeout       = 311
	MsgTypeReadyForSelection = 312
	MsgTypeRoundComplete     = 313
	MsgTypeRoundStarted      = 314
	MsgTypeFJStartWager      = 315
	MsgTypeFJWagerSubmitted  = 316
	MsgTypeFJShowClue        = 317
	MsgTypeFJAnswerSubmitted = 318
	MsgTypeFJResults         = 319
	MsgTypeGameOver          = 320

	MsgTypeError = 400
)
