package models

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Email        string        `gorm:"type:varchar(254);not null;uniqueIndex:uq_users_email"`
	Name         string        `gorm:"type:varchar(100);not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'Pending';index"`
	ImageKey     *string       `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		Name:              m.Name,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
	}
	if m.ImageKey != nil {
		u.ImageKey = *m.ImageKey
	}
	return u
}

// UserModelFromDomain creates a persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
	if u.ImageKey != "" {
		key := u.ImageKey
		m.ImageKey = &key
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

// NotificationModel is the persistence model for the Notification entity.
type NotificationModel struct {
	BaseModel
	UserID  uint   `gorm:"not null;index"`
	Title   string `gorm:"type:varchar(200);not null"`
	Message string `gorm:"type:text;not null"`
	Link    string `gorm:"type:varchar(255)"`
	IsRead  bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification.
func (m *NotificationModel) ToDomain() *identity.Notification {
	return &identity.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Title:      m.Title,
		Message:    m.Message,
		Link:       m.Link,
		IsRead:     m.IsRead,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification.
func NotificationModelFromDomain(n *identity.Notification) *NotificationModel {
	m := &NotificationModel{
		UserID:  n.UserID,
		Title:   n.Title,
		Message: n.Message,
		Link:    n.Link,
		IsRead:  n.IsRead,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}
