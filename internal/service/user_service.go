package service

import (
	"context"
	"fmt"
	"time"

	"openschool/internal/config"
	"openschool/internal/model"
	"openschool/internal/permission"
	"openschool/internal/repository"
	"openschool/internal/util"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// UserService defines account operations: registration, token issuance,
// profile access and the inactive-account sweep.
type UserService interface {
	Register(ctx context.Context, u *model.User, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (access, refresh string, err error)
	Refresh(ctx context.Context, refreshToken string) (access string, err error)
	// Get returns the user and, when the requester is the subject, their
	// payment history. private reports which view the caller is entitled to.
	Get(ctx context.Context, p permission.Principal, id int64) (u *model.User, payments []model.Payment, private bool, err error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, p permission.Principal, id int64, upd model.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, p permission.Principal, id int64) error
	// BlockInactive deactivates accounts that have not logged in for the
	// configured number of days and returns how many were blocked.
	BlockInactive(ctx context.Context) (int64, error)
}

type userService struct {
	repo        repository.UserRepository
	paymentRepo repository.PaymentRepository
	cfg         *config.Config
	logger      zerolog.Logger
}

// NewUserService creates a new UserService with a scoped logger.
func NewUserService(repo repository.UserRepository, paymentRepo repository.PaymentRepository, cfg *config.Config, logger zerolog.Logger) UserService {
	return &userService{
		repo:        repo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
		logger:      logger.With().Str("service", "UserService").Logger(),
	}
}

// Register creates an active account with a hashed password. The password is
// never stored or echoed in clear.
func (s *userService) Register(ctx context.Context, u *model.User, password string) (*model.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.Role = model.RoleUser
	u.IsActive = true
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials, records the login time and issues an
// access/refresh token pair. The role claim is embedded here so the
// permission resolver never has to look it up again.
func (s *userService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if user == nil || !user.IsActive {
		return "", "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to record last login")
	}

	access, err := util.GenerateToken(s.cfg.JWTSecret, user.ID, user.Role, util.TokenTypeAccess,
		time.Duration(s.cfg.AccessTokenTTL)*time.Minute)
	if err != nil {
		return "", "", err
	}
	refresh, err := util.GenerateToken(s.cfg.JWTSecret, user.ID, user.Role, util.TokenTypeRefresh,
		time.Duration(s.cfg.RefreshTokenTTL)*time.Hour)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new access token. The account
// must still exist and be active.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := util.ValidateJWT(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if claims.TokenType != util.TokenTypeRefresh {
		return "", ErrInvalidCredentials
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", ErrInvalidCredentials
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", ErrInvalidCredentials
	}
	return util.GenerateToken(s.cfg.JWTSecret, user.ID, user.Role, util.TokenTypeAccess,
		time.Duration(s.cfg.AccessTokenTTL)*time.Minute)
}

// Get returns the profile. Only the subject themself gets the private view
// with payment history.
func (s *userService) Get(ctx context.Context, p permission.Principal, id int64) (*model.User, []model.Payment, bool, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, nil, false, err
	}
	if user == nil {
		return nil, nil, false, ErrNotFound
	}
	if p.ID != user.ID {
		return user, nil, false, nil
	}
	payments, err := s.paymentRepo.ListPaymentsByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, false, err
	}
	return user, payments, true, nil
}

// List returns all users; callers expose only public fields.
func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// Update changes profile fields, subject only — moderators have no special
// standing on accounts.
func (s *userService) Update(ctx context.Context, p permission.Principal, id int64, upd model.UserUpdate) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if p.ID != user.ID {
		return nil, fmt.Errorf("%w: profile owner required", ErrForbidden)
	}

	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.PhoneNumber != nil {
		user.PhoneNumber = *upd.PhoneNumber
	}
	if upd.Town != nil {
		user.Town = *upd.Town
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = *upd.AvatarURL
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account, subject only. Ownership references elsewhere
// are nulled by the schema.
func (s *userService) Delete(ctx context.Context, p permission.Principal, id int64) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if p.ID != user.ID {
		return fmt.Errorf("%w: profile owner required", ErrForbidden)
	}
	return s.repo.DeleteUser(ctx, id)
}

// BlockInactive deactivates accounts idle longer than the configured window.
func (s *userService) BlockInactive(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.InactiveUserDays)
	n, err := s.repo.DeactivateInactiveSince(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("blocked", n).Msg("Deactivated inactive users")
	}
	return n, nil
}
