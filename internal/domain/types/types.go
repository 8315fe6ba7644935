// Package types contains common types used across the application
package types

// Entry represents a leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	Repo   string `json:"repo"`
	Score  int    `json:"score"`
	Events int    `json:"events"`
}
