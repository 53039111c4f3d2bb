package models

import (
	"time"
)

// Admin roles.
const (
	RoleRoot    = "root"
	RoleRegular = "regular"
)

// Content types.
const (
	ContentTypeText  = "text"
	ContentTypePhoto = "photo"
)

// Conversation sender tags.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// User is a registered club visitor. Admins live in a separate identity space.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	Conversations []Conversation `gorm:"foreignKey:UserID" json:"conversations,omitempty"`
}

// Admin is a back-office account. Role is either root or regular; only root
// admins may manage other admin accounts.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"default:'regular'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Activity is a club event with its own bot persona and keyword set.
type Activity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	BotName     string    `gorm:"default:'Activity Bot'" json:"bot_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Keywords []Keyword `gorm:"foreignKey:ActivityID" json:"keywords,omitempty"`
}

// Keyword is a trigger phrase scoped to one activity.
type Keyword struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"index;not null" json:"activity_id"`
	Keyword    string    `gorm:"not null" json:"keyword"`
	CreatedAt  time.Time `json:"created_at"`

	Activity Activity  `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	Content  []Content `gorm:"foreignKey:KeywordID" json:"content,omitempty"`
}

// Content is one reply fragment attached to a keyword. Exactly one of
// ContentText or ContentPhotoPath is populated, matching ContentType; the
// service constructors enforce this rather than a storage constraint.
type Content struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	KeywordID        uint      `gorm:"index;not null" json:"keyword_id"`
	ContentType      string    `gorm:"default:'text'" json:"content_type"`
	ContentText      string    `gorm:"type:text" json:"content_text,omitempty"`
	ContentPhotoPath string    `json:"content_photo_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	Keyword Keyword `gorm:"foreignKey:KeywordID" json:"keyword,omitempty"`
}

// Conversation is one immutable logged chat line. Rows are only ever
// appended; there is no update path.
type Conversation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	ActivityID uint      `gorm:"index;not null" json:"activity_id"`
	KeywordID  uint      `gorm:"index;not null" json:"keyword_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	SenderType string    `gorm:"default:'user'" json:"sender_type"`

	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Activity Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	Keyword  Keyword  `gorm:"foreignKey:KeywordID" json:"keyword,omitempty"`
}

// IsBotMessage reports whether the line was written by the bot.
func (c *Conversation) IsBotMessage() bool {
	return c.SenderType == SenderBot
}

// All lists every persisted model for migration.
func All() []interface{} {
	return []interface{}{
		&User{}, &Admin{}, &Activity{}, &Keyword{}, &Content{}, &Conversation{},
	}
}
