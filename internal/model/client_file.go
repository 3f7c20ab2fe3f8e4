package model

import "time"

type ClientFile struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ClientID    string    `json:"clientId"`
	StoredName  string    `json:"-"`
	DisplayName string    `json:"displayName"`
	Ext         string    `json:"ext"`
	ContentType string    `json:"contentType"`
	Description *string   `json:"description"`
	FileDate    time.Time `json:"fileDate"`
	Bytes       int64     `json:"bytes"`
	Checksum    string    `json:"checksum"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (ClientFile) TableName() string { return "client_files" }
