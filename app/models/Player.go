package models

// Player is a seat at a persisted match.
type Player struct {
	User_id  string `pg:"user_id,pk" json:"user_id"`
	Game_id  string `pg:"game_id,pk" json:"game_id"`
	Username string `pg:"username" json:"username"`
	Seat     int    `pg:"seat,use_zero" json:"seat"`
}
