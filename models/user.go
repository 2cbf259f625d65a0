package models

// AdminID is the identity allowed to author, edit and delete posts. The
// first registered account takes id 1 and becomes the sole admin.
const AdminID uint = 1

// User is a registered reader of the blog.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"type:varchar(500);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Name         string `gorm:"type:varchar(250);not null"`

	Posts    []Post    `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:CommenterID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.ID == AdminID
}
