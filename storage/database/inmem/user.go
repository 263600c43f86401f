// Package inmemrepos provides in-memory implementations of the domain
// repositories. They back the API tests and the no-database dev mode.
package inmemrepos

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []user.User
}

var _ user.Repository = (*UserRepository)(nil) // interface compliance check

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (repo *UserRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.users {
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.ID = uuid.New().String()
	repo.users = append(repo.users, usr)
	return usr, nil
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	users := make([]user.User, 0, len(repo.users))
	for i := len(repo.users) - 1; i >= 0; i-- { // newest first
		usr := repo.users[i]
		if filter.Status != "" && usr.Status != filter.Status {
			continue
		}
		users = append(users, usr)
	}
	return users, nil
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.users {
		if existing.ID == usr.ID {
			repo.users[i] = usr
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}
