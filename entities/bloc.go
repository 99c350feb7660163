package entities

import "time"

// Bloc is a mapped land parcel under cultivation. Its area is the fixed
// denominator for every per-hectare figure derived by the engine.
type Bloc struct {
	BlocID       uint    `gorm:"primaryKey" json:"bloc_id"`
	UserID       string  `json:"user_id" gorm:"index"`
	Name         string  `json:"name"`
	AreaHectares float64 `json:"area_hectares"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
