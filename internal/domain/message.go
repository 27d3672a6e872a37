package domain

import "time"

const (
	DirectionIncoming = "I"
	DirectionOutgoing = "O"
)

type Message struct {
	ID           int64     `db:"id" json:"id"`
	Text         string    `db:"text" json:"text"`
	Direction    string    `db:"direction" json:"direction"`
	Status       string    `db:"status" json:"status"`
	Application  *string   `db:"application" json:"application,omitempty"`
	ConnectionID int64     `db:"connection_id" json:"connection_id"`
	Date         time.Time `db:"date" json:"date"`
}

type Backend struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
