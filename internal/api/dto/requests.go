// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ConnectRequest represents the request body for opening a session.
type ConnectRequest struct {
	ConnectionString string `json:"connectionString"`
}
