package user

import "time"

// User はユーザーエンティティです。ID と CreatedAt はストアが割り当て、以後変更されません。
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
