package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"authapi/internal/entity"
	"authapi/internal/utils"
)

var _ UserRepository = (*MemoryUserRepository)(nil)

// MemoryUserRepository is a process-local UserRepository. Every operation is
// serialised on one mutex, so read-then-write sequences inside a method are atomic.
type MemoryUserRepository struct {
	mutex  sync.Mutex
	nextID int64
	users  map[int64]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]entity.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.conflictLocked(0, user.Username, user.Email) {
		return ErrConflict
	}
	if user.PasswordResetToken != nil && r.resetTokenTakenLocked(0, *user.PasswordResetToken) {
		return ErrResetTokenTaken
	}
	r.nextID++
	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	found := cloneUser(user)
	return &found, nil
}

func (r *MemoryUserRepository) FindByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	value := utils.NormalizeIdentifier(identifier)
	return r.findFirst(func(user entity.User) bool {
		return utils.NormalizeIdentifier(user.Username) == value || utils.NormalizeIdentifier(user.Email) == value
	}), nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	value := utils.NormalizeIdentifier(email)
	return r.findFirst(func(user entity.User) bool {
		return utils.NormalizeIdentifier(user.Email) == value
	}), nil
}

func (r *MemoryUserRepository) FindByResetToken(_ context.Context, token string) (*entity.User, error) {
	return r.findFirst(func(user entity.User) bool {
		return user.PasswordResetToken != nil && *user.PasswordResetToken == token
	}), nil
}

func (r *MemoryUserRepository) ExistsConflicting(_ context.Context, excludeID int64, username, email string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.conflictLocked(excludeID, username, email), nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *entity.User) error {
	return r.update(user, false)
}

func (r *MemoryUserRepository) UpdateWithPassword(_ context.Context, user *entity.User) error {
	return r.update(user, true)
}

func (r *MemoryUserRepository) ReplacePassword(_ context.Context, userID int64, hash string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	stored.PasswordHash = hash
	stored.MustChangePassword = false
	stored.UpdatedAt = time.Now()
	r.users[userID] = stored
	return nil
}

func (r *MemoryUserRepository) SetResetToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	if r.resetTokenTakenLocked(userID, token) {
		return ErrResetTokenTaken
	}
	stored.PasswordResetToken = &token
	stored.PasswordResetExpiry = &expiresAt
	stored.UpdatedAt = time.Now()
	r.users[userID] = stored
	return nil
}

func (r *MemoryUserRepository) ConsumeResetToken(_ context.Context, userID int64, token string, now time.Time, hash string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.users[userID]
	if !ok || stored.PasswordResetToken == nil || *stored.PasswordResetToken != token {
		return false, nil
	}
	if !stored.HasPendingReset(now) {
		return false, nil
	}
	stored.PasswordHash = hash
	stored.PasswordResetToken = nil
	stored.PasswordResetExpiry = nil
	stored.MustChangePassword = false
	stored.UpdatedAt = now
	r.users[userID] = stored
	return true, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	users := make([]entity.User, 0, len(r.users))
	for _, id := range r.sortedIDsLocked() {
		users = append(users, cloneUser(r.users[id]))
	}
	if offset > 0 {
		if offset >= len(users) {
			return []entity.User{}, nil
		}
		users = users[offset:]
	}
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

func (r *MemoryUserRepository) update(user *entity.User, withPassword bool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if r.conflictLocked(user.ID, user.Username, user.Email) {
		return ErrConflict
	}
	stored.Username = user.Username
	stored.Nome = user.Nome
	stored.Email = user.Email
	stored.Phone = user.Phone
	stored.CodAssessor = user.CodAssessor
	stored.Role = user.Role
	stored.Escritorio = user.Escritorio
	stored.ProfileImageData = append([]byte(nil), user.ProfileImageData...)
	if withPassword {
		stored.PasswordHash = user.PasswordHash
	}
	stored.UpdatedAt = time.Now()
	user.UpdatedAt = stored.UpdatedAt
	r.users[user.ID] = stored
	return nil
}

func (r *MemoryUserRepository) findFirst(match func(entity.User) bool) *entity.User {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, id := range r.sortedIDsLocked() {
		if user := r.users[id]; match(user) {
			found := cloneUser(user)
			return &found
		}
	}
	return nil
}

func (r *MemoryUserRepository) conflictLocked(excludeID int64, username, email string) bool {
	username = utils.NormalizeIdentifier(username)
	email = utils.NormalizeIdentifier(email)
	for id, user := range r.users {
		if id == excludeID {
			continue
		}
		existing := [2]string{utils.NormalizeIdentifier(user.Username), utils.NormalizeIdentifier(user.Email)}
		for _, value := range existing {
			if value == username || value == email {
				return true
			}
		}
	}
	return false
}

func (r *MemoryUserRepository) resetTokenTakenLocked(excludeID int64, token string) bool {
	for id, user := range r.users {
		if id != excludeID && user.PasswordResetToken != nil && *user.PasswordResetToken == token {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) sortedIDsLocked() []int64 {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneUser(user entity.User) entity.User {
	clone := user
	clone.Phone = cloneString(user.Phone)
	clone.CodAssessor = cloneString(user.CodAssessor)
	clone.Escritorio = cloneString(user.Escritorio)
	clone.PasswordResetToken = cloneString(user.PasswordResetToken)
	if user.PasswordResetExpiry != nil {
		expiry := *user.PasswordResetExpiry
		clone.PasswordResetExpiry = &expiry
	}
	if user.ProfileImageData != nil {
		clone.ProfileImageData = append([]byte(nil), user.ProfileImageData...)
	}
	return clone
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
