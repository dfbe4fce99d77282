package repository

import (
	"context"
	"errors"
	"time"

	"authapi/internal/entity"
	"authapi/internal/utils"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByResetToken(ctx context.Context, token string) (*entity.User, error)
	ExistsConflicting(ctx context.Context, excludeID int64, username, email string) (bool, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateWithPassword(ctx context.Context, user *entity.User) error
	ReplacePassword(ctx context.Context, userID int64, hash string) error
	SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, userID int64, token string, now time.Time, hash string) (bool, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

var profileColumns = []string{
	"username", "nome", "email", "phone", "cod_assessor", "role", "escritorio", "profile_image_data", "updated_at",
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	value := utils.NormalizeIdentifier(identifier)
	return r.first(r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", value, value).
		Order("id"))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Where("LOWER(email) = ?", utils.NormalizeIdentifier(email)))
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Where("password_reset_token = ?", token))
}

// ExistsConflicting compares both values against both columns, so no login
// identifier can resolve to two accounts.
func (r *userRepository) ExistsConflicting(ctx context.Context, excludeID int64, username, email string) (bool, error) {
	identifiers := []string{utils.NormalizeIdentifier(username), utils.NormalizeIdentifier(email)}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id <> ?", excludeID).
		Where("LOWER(username) IN ? OR LOWER(email) IN ?", identifiers, identifiers).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.updateColumns(ctx, user, profileColumns)
}

func (r *userRepository) UpdateWithPassword(ctx context.Context, user *entity.User) error {
	return r.updateColumns(ctx, user, append([]string{"password_hash"}, profileColumns...))
}

func (r *userRepository) ReplacePassword(ctx context.Context, userID int64, hash string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash":        hash,
			"must_change_password": false,
			"updated_at":           time.Now(),
		})
	return rowsAffectedOrNotFound(result)
}

func (r *userRepository) SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_reset_token":  token,
			"password_reset_expiry": expiresAt,
			"updated_at":            time.Now(),
		})
	return rowsAffectedOrNotFound(result)
}

// ConsumeResetToken replaces the hash and clears the recovery state only if token
// is still stored for the user and unexpired at now. It reports whether it did.
func (r *userRepository) ConsumeResetToken(ctx context.Context, userID int64, token string, now time.Time, hash string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND password_reset_token = ? AND password_reset_expiry > ?", userID, token, now).
		Updates(map[string]any{
			"password_hash":         hash,
			"password_reset_token":  nil,
			"password_reset_expiry": nil,
			"must_change_password":  false,
			"updated_at":            now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return rowsAffectedOrNotFound(r.db.WithContext(ctx).Delete(&entity.User{}, id))
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	query := r.db.WithContext(ctx).Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) first(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	err := query.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) updateColumns(ctx context.Context, user *entity.User, columns []string) error {
	user.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(user).
		Select(columns).
		Updates(user)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func rowsAffectedOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
