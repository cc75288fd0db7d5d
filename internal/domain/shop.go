package domain

import "time"

// Shop represents one workshop location. Tasks and staff belong to exactly
// one shop; HQ operators can reach across shops.
type Shop struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
