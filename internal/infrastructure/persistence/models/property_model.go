package models

import "time"

// HostModel 数据库房东模型
type HostModel struct {
	ID           string `gorm:"primaryKey;size:64"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FirstName    string `gorm:"size:128;not null"`
	LastName     string `gorm:"size:128;not null"`
	Phone        string `gorm:"size:32"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (HostModel) TableName() string {
	return "hosts"
}

// PropertyModel 数据库房源模型
type PropertyModel struct {
	ID            string `gorm:"primaryKey;size:64"`
	HostID        string `gorm:"index;size:64;not null"`
	Name          string `gorm:"size:255;not null"`
	Description   string `gorm:"type:text"`
	Address       string `gorm:"size:255;not null"`
	City          string `gorm:"size:128;not null"`
	Country       string `gorm:"size:128;not null"`
	Equipment     string `gorm:"type:text"` // JSON encoded []string
	AIPrompt      string `gorm:"type:text"`
	AITone        string `gorm:"size:32;not null"`
	AIPersonality string `gorm:"type:text"`
	AccessLink    string `gorm:"size:512;not null"`
	QRCode        string `gorm:"type:text"` // PNG data URL
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PropertyModel) TableName() string {
	return "properties"
}

// KnowledgeItemModel 知识条目
type KnowledgeItemModel struct {
	ID         string `gorm:"primaryKey;size:64"`
	PropertyID string `gorm:"index;size:64;not null"`
	Title      string `gorm:"size:255;not null"`
	Content    string `gorm:"type:text;not null"`
	Category   string `gorm:"size:64"`
	CreatedAt  time.Time
}

func (KnowledgeItemModel) TableName() string {
	return "knowledge_items"
}

// ServiceModel 服务
type ServiceModel struct {
	ID          string `gorm:"primaryKey;size:64"`
	PropertyID  string `gorm:"index;size:64;not null"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	IsAvailable bool   `gorm:"not null"`
	IsPaid      bool   `gorm:"not null"`
	Price       float64
	CreatedAt   time.Time
}

func (ServiceModel) TableName() string {
	return "services"
}

// CheckInStepModel 入住步骤
type CheckInStepModel struct {
	ID          string `gorm:"primaryKey;size:64"`
	PropertyID  string `gorm:"index;size:64;not null"`
	Step        int    `gorm:"not null"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (CheckInStepModel) TableName() string {
	return "check_in_steps"
}

// IssueModel 问题报告
type IssueModel struct {
	ID             string  `gorm:"primaryKey;size:64"`
	PropertyID     string  `gorm:"index;size:64;not null"`
	ConversationID *string `gorm:"size:64"`
	Description    string  `gorm:"type:text;not null"`
	Category       string  `gorm:"size:64;not null"`
	ImageRef       string  `gorm:"type:text"`
	Status         string  `gorm:"size:32;not null"`
	Priority       string  `gorm:"size:32;not null"`
	CreatedAt      time.Time
}

func (IssueModel) TableName() string {
	return "issues"
}

// NotificationModel 房东通知
type NotificationModel struct {
	ID        string `gorm:"primaryKey;size:64"`
	HostID    string `gorm:"index;size:64;not null"`
	Title     string `gorm:"size:255;not null"`
	Message   string `gorm:"type:text;not null"`
	Type      string `gorm:"size:32;not null"`
	Link      string `gorm:"size:512"`
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}
