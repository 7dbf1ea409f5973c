package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/store"
)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// RegisterInput holds the fields submitted to create an account.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput holds the credentials submitted to obtain a token.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService handles account creation and credential checks.
type AuthService interface {
	// RegisterUser validates input, hashes the password and stores a new user.
	// Every failing field is reported at once in a *domain.ValidationError.
	RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, error)

	// LoginUser checks credentials and issues a token. Unknown emails and
	// wrong passwords both yield ErrInvalidCredentials.
	LoginUser(ctx context.Context, input LoginInput) (*LoginResult, error)

	// CurrentUser returns the user a validated token belongs to.
	CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type authServiceImpl struct {
	users    store.UserStore
	hasher   PasswordHasher
	verifier PasswordVerifier
	tokens   JWTService
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

var _ AuthService = (*authServiceImpl)(nil)

// NewAuthService creates an AuthService.
func NewAuthService(
	users store.UserStore,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	tokens JWTService,
	logger *slog.Logger,
) (AuthService, error) {
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("password hasher cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("password verifier cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("jwt service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &authServiceImpl{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// RegisterUser implements AuthService.RegisterUser
func (s *authServiceImpl) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	verr := &domain.ValidationError{}
	if err := domain.ValidateStruct(input); err != nil {
		var fieldErrs *domain.ValidationError
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		verr = fieldErrs
	}
	if len(input.Password) > maxPasswordBytes {
		verr.Add("password", fmt.Sprintf(
			"The password field must not be greater than %d characters.", maxPasswordBytes))
	}

	if _, failed := verr.Fields["email"]; !failed {
		taken, err := s.emailTaken(ctx, input.Email)
		if err != nil {
			log.Error("failed to check email uniqueness", slog.String("error", err.Error()))
			return nil, err
		}
		if taken {
			verr.Add("email", domain.FieldMessage("email", "unique", ""))
		}
	}
	if err := verr.ErrOrNil(); err != nil {
		log.Debug("registration rejected", slog.Int("invalid_fields", len(verr.Fields)))
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user, err := domain.NewUser(input.Name, input.Email, hashed)
	if err != nil {
		return nil, fmt.Errorf("failed to build user: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domain.NewValidationError("email", domain.FieldMessage("email", "unique", ""))
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// LoginUser implements AuthService.LoginUser
func (s *authServiceImpl) LoginUser(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input.Email = normalizeEmail(input.Email)
	if err := domain.ValidateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to look up user for login", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		// Spend the same bcrypt work as a real comparison.
		_ = s.verifier.Compare(s.dummyPasswordHash(), input.Password)
		log.Debug("login failed: unknown email")
		return nil, ErrInvalidCredentials
	}

	if err := s.verifier.Compare(user.HashedPassword, input.Password); err != nil {
		log.Debug("login failed: password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// CurrentUser implements AuthService.CurrentUser
func (s *authServiceImpl) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load current user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *authServiceImpl) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrUserNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check email: %w", err)
	}
}

// dummyPasswordHash is compared against when the email is unknown. It is
// produced with the configured hasher so its cost matches real hashes.
func (s *authServiceImpl) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.logger.Warn("failed to build dummy password hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hashed
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
