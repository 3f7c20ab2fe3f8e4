package model

import "time"

type Consultant struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"-"`
}

func (Consultant) TableName() string { return "consultants" }
