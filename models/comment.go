package models

import "time"

// Comment is a remark left by a registered user under a post. ImageURL keeps
// the commenter's avatar as it was at comment time.
type Comment struct {
	ID          uint   `gorm:"primaryKey"`
	CommenterID uint   `gorm:"not null;index"`
	PostID      uint   `gorm:"not null;index"`
	Text        string `gorm:"type:varchar(1000);not null"`
	ImageURL    string `gorm:"type:varchar(1000)"`
	DateTime    time.Time

	Commenter *User `gorm:"foreignKey:CommenterID"`
}

func (Comment) TableName() string {
	return "comments"
}
