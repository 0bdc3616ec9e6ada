package database

import (
	"time"

	"gorm.io/datatypes"
)

// userModel is the persisted form of entity.User.
type userModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:190;uniqueIndex;not null"`
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Credits      int    `gorm:"not null;default:0"`
	Tier         string `gorm:"size:20;not null;default:'free'"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsVerified   bool   `gorm:"not null;default:false"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time `gorm:"index"`
}

func (userModel) TableName() string { return "users" }

type conversationModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	UserID        string `gorm:"size:36;index;not null"`
	Title         string `gorm:"size:255;not null"`
	IsArchived    bool   `gorm:"not null;default:false"`
	MessageCount  int    `gorm:"not null;default:0"`
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (conversationModel) TableName() string { return "conversations" }

type messageModel struct {
	ID             string         `gorm:"primaryKey;size:36"`
	ConversationID string         `gorm:"size:36;index;not null"`
	Role           string         `gorm:"size:20;not null"`
	Content        string         `gorm:"type:text;not null"`
	Attachments    datatypes.JSON `gorm:"type:json"`
	Meta           datatypes.JSON `gorm:"type:json"`
	CreatedAt      time.Time      `gorm:"index"`
}

func (messageModel) TableName() string { return "messages" }

type generationModel struct {
	ID              string         `gorm:"primaryKey;size:36"`
	UserID          string         `gorm:"size:36;index;not null"`
	ConversationID  string         `gorm:"size:36;index"`
	AlgorithmID     string         `gorm:"size:36;not null"`
	Prompt          string         `gorm:"type:text;not null"`
	ReferenceImages datatypes.JSON `gorm:"type:json"`
	Parameters      datatypes.JSON `gorm:"type:json"`
	Status          string         `gorm:"size:20;index;not null"`
	Progress        int            `gorm:"not null;default:0"`
	ErrorMessage    string         `gorm:"type:text"`
	ResultURL       string         `gorm:"size:500"`
	ResultMeta      datatypes.JSON `gorm:"type:json"`
	CreditsUsed     int            `gorm:"not null;default:0"`
	CreatedAt       time.Time      `gorm:"index"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

func (generationModel) TableName() string { return "generations" }

type algorithmModel struct {
	ID          string         `gorm:"primaryKey;size:36"`
	Name        string         `gorm:"size:50;uniqueIndex;not null"`
	DisplayName string         `gorm:"size:100;not null"`
	Description string         `gorm:"type:text"`
	CostCredits int            `gorm:"not null"`
	IsActive    bool           `gorm:"not null;default:true"`
	Parameters  datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (algorithmModel) TableName() string { return "algorithms" }

type creditTransactionModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"size:36;index;not null"`
	Type        string    `gorm:"size:20;not null"`
	Amount      int       `gorm:"not null"`
	Description string    `gorm:"size:255"`
	ReferenceID string    `gorm:"size:36;index"`
	CreatedAt   time.Time `gorm:"index"`
}

func (creditTransactionModel) TableName() string { return "credit_transactions" }
