package models

import "time"

type GameStatus string

const (
	StatusLobby    GameStatus = "lobby"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
)

// Game is the persisted match record. Live state lives in the snapshot store.
type Game struct {
	Id        string     `pg:"id,pk" json:"id"`
	Name      string     `pg:"name" json:"name"`
	Status    GameStatus `pg:"status" json:"status"`
	HostId    string     `pg:"host_id" json:"host_id"`
	WinnerId  string     `pg:"winner_id" json:"winner_id,omitempty"`
	CreatedAt time.Time  `pg:"created_at,default:now()" json:"created_at"`
	UpdatedAt time.Time  `pg:"updated_at,default:now()" json:"updated_at"`
}

type GameCreateDto struct {
	Name string `json:"name"`
}

type VerifyGameDto struct {
	Code string `query:"code"`
}
