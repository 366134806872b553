package entities

// MaxSpeedDialSlots is the number of speed dial positions, numbered from 0.
const MaxSpeedDialSlots = 5

type EmergencyContact struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"not null" json:"name"`
	PhoneNumber  string  `gorm:"not null" json:"phone_number"`
	Relationship string  `gorm:"not null" json:"relationship"`
	IsPrimary    bool    `gorm:"not null" json:"is_primary"`
	PhotoURI     *string `gorm:"column:photo_uri" json:"photo_uri,omitempty"`
	SortOrder    int     `gorm:"not null" json:"sort_order"`
}

func (EmergencyContact) TableName() string {
	return TableEmergencyContacts
}

type SpeedDialContact struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	PhoneNumber string  `gorm:"not null" json:"phone_number"`
	PhotoURI    *string `gorm:"column:photo_uri" json:"photo_uri,omitempty"`
	Position    int     `gorm:"not null" json:"position"`
}

func (SpeedDialContact) TableName() string {
	return TableSpeedDialContacts
}
