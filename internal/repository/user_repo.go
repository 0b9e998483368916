package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/elucidate-app/elucidate/internal/db"
)

// UserRepository provides data access methods for user records.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// WithTx returns a copy of the repository bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create inserts a new user with credentials only. Profile fields are
// filled in later by profile setup.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*db.User, error) {
	user := db.User{Email: email, PasswordHash: passwordHash}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail looks a user up by email. gorm.ErrRecordNotFound when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks a user up by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether a user with the email already exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// Exists reports whether a user with the id exists.
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// GetAvatar returns the photo reference for a user.
func (r *UserRepository) GetAvatar(ctx context.Context, id uint64) (string, error) {
	var user db.User
	if err := r.db.WithContext(ctx).Select("photo").First(&user, id).Error; err != nil {
		return "", err
	}
	return user.Photo, nil
}

// ProfileUpdate is the set of fields written by profile setup.
type ProfileUpdate struct {
	Name          string
	Photo         string
	Age           int
	Gender        string
	ShowProfileTo string
	ShowToUser    string
}

// UpdateProfile writes the profile fields for an existing user. Intended to
// run inside the profile-setup transaction via WithTx.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint64, p ProfileUpdate) error {
	result := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":            p.Name,
			"photo":           p.Photo,
			"age":             p.Age,
			"gender":          p.Gender,
			"show_profile_to": p.ShowProfileTo,
			"show_to_user":    p.ShowToUser,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
