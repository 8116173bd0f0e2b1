package entity

import "time"

// ImportAudit records one catalog import.
type ImportAudit struct {
	ID        string
	Actor     string // "http-admin" or a telegram username
	Source    string // uploaded file name
	Vehicles  int
	Timestamp time.Time
}
