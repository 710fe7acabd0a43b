package models

import (
	"time"
)

// User 用户模型，邮箱作为登录名
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:150;not null"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	IsAdmin   bool      `json:"is_admin" gorm:"default:false;index"` // 管理员可查看所有用户的数据
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
