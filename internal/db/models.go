package db

import "time"

// User is an account of the development backend.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email     string    `gorm:"index;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
}

// Customer is a stored customer record. Coordinates are nullable so that an
// address without a location can be kept.
type Customer struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"size:255"`
	Email       string `gorm:"size:255;index"`
	MobileNo    string `gorm:"size:64"`
	AddressText string `gorm:"size:512"`
	Latitude    *float64
	Longitude   *float64
	Image       []byte
}

// PasswordReset is a pending reset token.
type PasswordReset struct {
	Token     string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"index;not null"`
	CreatedAt time.Time
}

// Place is a gazetteer entry used for geocoding.
type Place struct {
	ID   uint    `gorm:"primaryKey"`
	Name string  `gorm:"uniqueIndex;size:255;not null"`
	Lat  float64 `gorm:"not null"`
	Lon  float64 `gorm:"not null"`
}
