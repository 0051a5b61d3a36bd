package models

import "time"

// Статусы сессии верификации
type SessionStatus string

const (
	StatusPending          SessionStatus = "pending"
	StatusVerified         SessionStatus = "verified"
	StatusFailed           SessionStatus = "failed"
	StatusError            SessionStatus = "error"
	StatusCallbackReceived SessionStatus = "callback_received"
)

// IsTerminal — verified/failed/error дальше не меняются
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case StatusVerified, StatusFailed, StatusError:
		return true
	}
	return false
}

type Session struct {
	ID              string        `json:"id"`
	PhoneNumber     string        `json:"phoneNumber"`
	Status          SessionStatus `json:"status"`
	DeviceIPAddress string        `json:"deviceIpAddress"`
	ErrorDetail     string        `json:"errorDetail,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}
