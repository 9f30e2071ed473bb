package domain

import (
	"time"
)

type MatchType string

const (
	MatchType1v1         MatchType = "1v1"
	MatchTypeMultiplayer MatchType = "multiplayer"
)

type Player struct {
	ID            string
	Name          string
	MatchesPlayed int
	Wins          int
	Losses        int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Match is an immutable, timestamped result event. 1v1 matches carry a
// winner/loser pair; multiplayer matches carry a ranked participant list.
type Match struct {
	ID           string
	MatchType    MatchType
	WinnerID     string
	LoserID      string
	Participants []MatchParticipant
	CreatedAt    time.Time
}

type MatchParticipant struct {
	MatchID  string
	PlayerID string
	Rank     int // 1 = best finish, equal ranks are draws
	IsWinner bool
}

type GameStatus string

const (
	GameStatusLive     GameStatus = "live"
	GameStatusFinished GameStatus = "finished"
)

type Game struct {
	ID        string
	GameType  string // "301" or "501"
	StartRule string // "straight-in" or "double-in"
	EndRule   string // "straight-out" or "double-out"
	Status    GameStatus
	Players   []GamePlayer
	CreatedAt time.Time
	UpdatedAt time.Time
}

type GamePlayer struct {
	GameID       string
	PlayerID     string
	Seat         int // turn order within the game, 0-based
	FinishedRank int // 0 while unfinished
}

type DartThrow struct {
	ID         string
	GameID     string
	PlayerID   string
	TurnNumber int // 1-based, scoped per player
	ThrowIndex int // 0..2 within the turn
	Segment    int // 0, 1..20, 25, 50
	Multiplier int // 1..3, bulls only 1 or 2
	CreatedAt  time.Time
}
