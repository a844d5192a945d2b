package entity

import "time"

// LowBalanceAlert alerta de saldo en o bajo el mínimo. Solo puede existir una sin resolver por ítem.
type LowBalanceAlert struct {
	ID              string
	ItemID          string
	BalanceSnapshot int64
	MinimumSnapshot int64
	IsResolved      bool
	CreatedAt       time.Time
	ResolvedAt      *time.Time
	ResolvedBy      string
}
