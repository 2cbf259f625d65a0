package models

import "time"

// Post is a single blog article.
type Post struct {
	ID       uint   `gorm:"primaryKey"`
	AuthorID uint   `gorm:"not null;index"`
	Title    string `gorm:"type:varchar(250);uniqueIndex;not null"`
	Subtitle string `gorm:"type:varchar(250);not null"`
	Body     string `gorm:"type:text;not null"`
	ImgURL   string `gorm:"type:varchar(250);not null"`
	Date     time.Time
	LastEdit *time.Time

	Author   *User     `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string {
	return "blog_posts"
}
