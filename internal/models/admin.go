package models

import (
	"time"
)

// Admin 后台管理员表
type Admin struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                         // 主键
	Username           string     `gorm:"uniqueIndex;not null" json:"username"`         // 登录账号
	DisplayName        string     `gorm:"type:varchar(120)" json:"display_name"`        // 展示名（默认作为文章作者）
	PasswordHash       string     `gorm:"not null" json:"-"`                            // 密码哈希
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`                  // Token 版本（退出登录时递增）
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`                               // 该时间点前签发的 Token 失效
	IsSuper            bool       `gorm:"not null;default:false;index" json:"is_super"` // 超级管理员（跳过 RBAC）
	LastLoginAt        *time.Time `json:"last_login_at"`                                // 最后登录时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                      // 创建时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
