package users

import "context"

// Repo is the relational store surface the auth subsystem needs. Create
// must enforce subject uniqueness atomically with row insertion and
// report a violation as autherr.ErrDuplicatedUser; lookups report a
// missing row as autherr.ErrUserNotFound.
type Repo interface {
	GetBySubject(ctx context.Context, subject string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, subject string, user UserForCreation) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
