package gormrepo

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-service/internal/domain/user"
	usecase "user-crud-service/internal/usecase/user"
	"user-crud-service/pkg/logger"
)

// UserRepo implements the usecase Repository with GORM. It works against any
// GORM dialect; the application uses PostgreSQL or SQLite.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ usecase.Repository = (*UserRepo)(nil)

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// Text columns carry no NOT NULL or UNIQUE constraint.
type UserSchema struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"column:first_name;size:80"`
	LastName  string `gorm:"column:last_name;size:80"`
	Email     string `gorm:"column:email;size:120"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// AutoMigrate creates the users table if it does not exist.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

// Transaction runs fn with a repository bound to a single database transaction.
// GORM commits when fn returns nil and rolls back on error or panic.
func (r *UserRepo) Transaction(ctx context.Context, fn func(tx usecase.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepo{db: tx, log: r.log})
	})
}

// List returns all users ordered by ID.
func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		logger.WithContext(ctx, r.log).Error("failed to list users from db", zap.Error(err))
		return nil, err
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = model.toDomain()
	}
	return users, nil
}

// GetByID retrieves a user by ID, returning user.ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithContext(ctx, r.log).Debug("user not found in db", zap.Int64("id", id))
			return nil, user.ErrUserNotFound
		}
		logger.WithContext(ctx, r.log).Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, err
	}

	u := model.toDomain()
	return &u, nil
}

// Create inserts u and sets u.ID to the generated identifier.
func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := fromDomain(u)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		logger.WithContext(ctx, r.log).Error("failed to create user in db", zap.Error(err))
		return err
	}

	u.ID = model.ID
	logger.WithContext(ctx, r.log).Debug("user inserted", zap.Int64("id", model.ID))
	return nil
}

// Update writes every column of u. Empty strings are stored as-is.
func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := fromDomain(u)
	err := r.db.WithContext(ctx).
		Model(&UserSchema{ID: u.ID}).
		Select("first_name", "last_name", "email").
		Updates(&model).Error
	if err != nil {
		logger.WithContext(ctx, r.log).Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return err
	}
	return nil
}

// Delete removes the user with the given ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, id).Error; err != nil {
		logger.WithContext(ctx, r.log).Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return err
	}
	return nil
}

func (m UserSchema) toDomain() user.User {
	return user.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
	}
}

func fromDomain(u *user.User) UserSchema {
	return UserSchema{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
