package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserID is the store-assigned primary key of a User
type UserID uint

// AdminName is the name of the seeded administrator account
const AdminName = "admin"

// User is a player account, mapped to the usuarios table
type User struct {
	ID          UserID    `gorm:"primaryKey"`
	Name        string    `gorm:"size:50;not null"`
	Password    string    `gorm:"not null"` // bcrypt hash
	Email       string    `gorm:"size:100;not null"`
	Antiquity   time.Time `gorm:"type:date;not null"` // set by the caller from its clock
	Ranking     int       `gorm:"not null;default:0"`
	TetrisCount int       `gorm:"default:0"`
	CodCount    int       `gorm:"default:0"`
	IsAdmin     bool      `gorm:"default:false"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "usuarios"
}

// CheckPassword reports whether plain matches the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// PlayCount returns the counter for the given game
func (u *User) PlayCount(game Game) int {
	switch game {
	case GameTetris:
		return u.TetrisCount
	case GameCod:
		return u.CodCount
	default:
		return 0
	}
}

// HashPassword returns the bcrypt hash of plain
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
