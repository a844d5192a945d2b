package dto

import "time"

// AlertResponse salida de una alerta de saldo bajo.
type AlertResponse struct {
	ID              string     `json:"id"`
	ItemID          string     `json:"item_id"`
	BalanceSnapshot int64      `json:"balance_snapshot"`
	MinimumSnapshot int64      `json:"minimum_snapshot"`
	IsResolved      bool       `json:"is_resolved"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
}

// SweepResponse resultado de un barrido de alertas.
type SweepResponse struct {
	Evaluated int      `json:"evaluated"`
	Created   int      `json:"created"`
	Errors    []string `json:"errors,omitempty"`
}
