package models

import (
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'USER'" json:"role"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:80;not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
}

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Author      string    `json:"author"`
	Category    string    `gorm:"size:80" json:"category"`
	Isbn        string    `gorm:"size:20" json:"isbn"`
	Description string    `json:"description"`
	Available   bool      `gorm:"default:true" json:"available"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

type Loan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LoanUid    string    `gorm:"type:uuid;uniqueIndex;not null" json:"loanUid"`
	UserID     uint      `json:"userId"`
	BookID     uint      `json:"bookId"`
	LoanDate   time.Time `gorm:"not null" json:"loanDate"`
	ExpiryDate time.Time `gorm:"not null" json:"expiryDate"` // loanDate + 3 days
	IsActive   bool      `gorm:"not null" json:"active"`
	Price      float64   `json:"price"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Book Book `gorm:"foreignKey:BookID" json:"book"`
}

// Session is the client-held proof of authentication plus the cached
// role and username shown in navigation.
type Session struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}
