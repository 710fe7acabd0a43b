package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("record not found")
	// ErrNoOwner 写操作必须指定具体用户
	ErrNoOwner = errors.New("owner required")
	// ErrBudgetNotOwned 关联的预算不存在或属于其他用户
	ErrBudgetNotOwned = errors.New("budget not found")
	// ErrInvalidPeriod 结束日期早于开始日期
	ErrInvalidPeriod = errors.New("end date before start date")
	// ErrNegativeAmount 金额为负
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Owner 查询的数据归属
// 所有仓储方法都显式接收 Owner，普通用户只能看到自己的数据，
// Everyone 仅供管理员只读查询使用。
type Owner struct {
	userID uint
	all    bool
}

// ForUser 限定为某个用户
func ForUser(userID uint) Owner {
	return Owner{userID: userID}
}

// Everyone 不限用户（管理员）
func Everyone() Owner {
	return Owner{all: true}
}

// UserID 用户ID，Everyone 时为 0
func (o Owner) UserID() uint {
	return o.userID
}

// IsEveryone 是否为不限用户
func (o Owner) IsEveryone() bool {
	return o.all
}

// scope 给查询加上 user_id 条件
// 零值 Owner 不匹配任何记录
func (o Owner) scope(db *gorm.DB, table string) *gorm.DB {
	if o.all {
		return db
	}
	return db.Where(table+".user_id = ?", o.userID)
}

// writer 写操作使用的用户ID
func (o Owner) writer() (uint, error) {
	if o.all || o.userID == 0 {
		return 0, ErrNoOwner
	}
	return o.userID, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
