package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	byID      map[int64]*users.User
	bySubject map[string]int64
	nextID    int64
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byID:      make(map[int64]*users.User),
		bySubject: make(map[string]int64),
		nextID:    1,
	}
}

func (ur *FakeUserRepo) GetBySubject(_ context.Context, subject string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.bySubject[subject]
	if !ok {
		return nil, autherr.ErrUserNotFound
	}
	return ur.byID[id], nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.byID[id]
	if !ok {
		return nil, autherr.ErrUserNotFound
	}
	return user, nil
}

func (ur *FakeUserRepo) Create(_ context.Context, subject string, user users.UserForCreation) (int64, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, exists := ur.bySubject[subject]; exists {
		return 0, autherr.ErrDuplicatedUser
	}

	id := ur.nextID
	ur.nextID++
	ur.byID[id] = &users.User{
		ID:        id,
		Subject:   subject,
		Username:  user.Username,
		CreatedAt: time.Now(),
	}
	ur.bySubject[subject] = id
	return id, nil
}

func (ur *FakeUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	_, ok := ur.byID[id]
	return ok, nil
}

// Delete removes a user. Only tests use this, to simulate an account
// deleted while its access token is still live.
func (ur *FakeUserRepo) Delete(id int64) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.byID[id]
	if !ok {
		return
	}
	delete(ur.bySubject, user.Subject)
	delete(ur.byID, id)
}
