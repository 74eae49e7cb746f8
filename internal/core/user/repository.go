package user

import "context"

// ListUsersFilter は一覧取得クエリの範囲を指定します。
type ListUsersFilter struct {
	Limit  int
	Offset int
}

// Repository はユーザーエンティティの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*User, error)
	Count(ctx context.Context) (int64, error)
}
