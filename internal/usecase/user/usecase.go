package user

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-crud-service/internal/domain/user"
	apperrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
)

// Messages returned to API clients.
const (
	MsgMissingFields = "You must include a first name, last name and email"
	MsgUserNotFound  = "User not found"

	msgListFailed   = "Error retrieving users"
	msgGetFailed    = "Error retrieving user"
	msgCreateFailed = "Error creating user"
	msgUpdateFailed = "Error updating user"
	msgDeleteFailed = "Error deleting user"
)

// Repository defines the storage operations the usecase needs.
// Writes are only issued on the Repository handed to the Transaction callback;
// the transaction commits when the callback returns nil and rolls back otherwise.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error) // domain.ErrUserNotFound when absent
	Create(ctx context.Context, u *domain.User) error            // assigns u.ID
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

// Usecase implements the user operations on top of a Repository.
type Usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

var _ UserUsecase = (*Usecase)(nil)

// New creates a new instance of Usecase.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// ListUsers returns every stored user ordered by ID.
func (uc *Usecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, apperrors.NewReadError(msgListFailed, err)
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(du)
	}

	return &ListUsersResponse{Users: users}, nil
}

// GetUser returns the user with the requested ID.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	u, err := uc.lookup(ctx, uc.repo, in.ID, msgGetFailed)
	if err != nil {
		logger.WithContext(ctx, uc.log).Debug("get user failed", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return &GetUserResponse{User: toDTO(*u)}, nil
}

// CreateUser checks that every field is present, then inserts the user in its own transaction.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("create user validation failed", zap.Error(err))
		return nil, apperrors.NewValidationError(MsgMissingFields)
	}

	u := &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}

	err := uc.repo.Transaction(ctx, func(tx Repository) error {
		return tx.Create(ctx, u)
	})
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewCommitError(msgCreateFailed, err)
	}

	log.Info("user created", zap.Int64("id", u.ID))
	return &CreateUserResponse{ID: u.ID}, nil
}

// UpdateUser overwrites the fields present in the request. No validation is applied.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) error {
	log := logger.WithContext(ctx, uc.log).With(zap.Int64("id", in.ID))
	log.Info("updating user")

	err := uc.repo.Transaction(ctx, func(tx Repository) error {
		u, err := uc.lookup(ctx, tx, in.ID, msgUpdateFailed)
		if err != nil {
			return err
		}

		if in.FirstName != nil {
			u.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.Email != nil {
			u.Email = *in.Email
		}

		return tx.Update(ctx, u)
	})
	if err != nil {
		return uc.writeFailure(log, err, msgUpdateFailed)
	}

	return nil
}

// DeleteUser removes the user with the requested ID.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	log := logger.WithContext(ctx, uc.log).With(zap.Int64("id", in.ID))
	log.Info("deleting user")

	err := uc.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := uc.lookup(ctx, tx, in.ID, msgDeleteFailed); err != nil {
			return err
		}
		return tx.Delete(ctx, in.ID)
	})
	if err != nil {
		return uc.writeFailure(log, err, msgDeleteFailed)
	}

	return nil
}

// lookup loads a user through repo, tagging a missing row as NotFound
// and any other storage error as a read failure.
func (uc *Usecase) lookup(ctx context.Context, tx Repository, id int64, msg string) (*domain.User, error) {
	u, err := tx.GetByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NewNotFoundError("user", MsgUserNotFound)
	}
	if err != nil {
		return nil, apperrors.NewReadError(msg, err)
	}
	return u, nil
}

// writeFailure tags an error returned from a write transaction. Errors already tagged
// by lookup pass through; anything else failed while writing or committing.
func (uc *Usecase) writeFailure(log *zap.Logger, err error, msg string) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		log.Warn("user not found")
		return err
	case apperrors.KindRead:
		log.Error("failed to load user", zap.Error(err))
		return err
	default:
		log.Error("transaction rolled back", zap.Error(err))
		return apperrors.NewCommitError(msg, err)
	}
}

func toDTO(u domain.User) User {
	return User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
