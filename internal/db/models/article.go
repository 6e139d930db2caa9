package models

import "time"

// Article is a piece of content owned by its author.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	Image       *string   `gorm:"size:1024" json:"image"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"isPublished"`
	AuthorID    uint      `gorm:"not null;index" json:"-"`
	Author      Author    `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Article model.
func (Article) TableName() string {
	return "articles"
}

// Author is the public projection of a user embedded in article responses.
type Author struct {
	ID           uint    `json:"id"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// TableName maps Author onto the users table.
func (Author) TableName() string {
	return "users"
}
