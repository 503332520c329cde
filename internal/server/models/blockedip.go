package models

import "time"

// BlockedIP forward-blocks registrations from an address flagged by the
// signup guard. Unique per IP.
type BlockedIP struct {
	IP        string
	Reason    string
	BlockedAt time.Time
}
