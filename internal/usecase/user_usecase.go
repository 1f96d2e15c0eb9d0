package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// Default signup bonus range, in whole rupees.
const (
	DefaultSignupBonusMin = 1
	DefaultSignupBonusMax = 10000
)

// UserUseCaseConfig wires the user use case.
type UserUseCaseConfig struct {
	TxManager   TransactionManager
	UserRepo    UserRepository
	AccountRepo AccountRepository
	IDGen       IDGenerator
	Hasher      PasswordHasher

	// Optional.
	Limiter  LoginLimiter
	BonusMin int64
	BonusMax int64

	// Bonus returns a whole amount in [min, max]; defaults to a uniform draw.
	Bonus func(min, max int64) int64
}

// UserUseCase handles sign-up, sign-in and profile operations.
type UserUseCase struct {
	txManager   TransactionManager
	userRepo    UserRepository
	accountRepo AccountRepository
	idGen       IDGenerator
	hasher      PasswordHasher
	limiter     LoginLimiter
	bonusMin    int64
	bonusMax    int64
	bonus       func(min, max int64) int64
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(cfg UserUseCaseConfig) *UserUseCase {
	if cfg.BonusMin <= 0 {
		cfg.BonusMin = DefaultSignupBonusMin
	}
	if cfg.BonusMax < cfg.BonusMin {
		cfg.BonusMax = max(cfg.BonusMin, DefaultSignupBonusMax)
	}
	if cfg.Bonus == nil {
		cfg.Bonus = func(lo, hi int64) int64 {
			return lo + rand.Int64N(hi-lo+1)
		}
	}

	return &UserUseCase{
		txManager:   cfg.TxManager,
		userRepo:    cfg.UserRepo,
		accountRepo: cfg.AccountRepo,
		idGen:       cfg.IDGen,
		hasher:      cfg.Hasher,
		limiter:     cfg.Limiter,
		bonusMin:    cfg.BonusMin,
		bonusMax:    cfg.BonusMax,
		bonus:       cfg.Bonus,
	}
}

// SignupInput represents input for creating a user
type SignupInput struct {
	Username      string
	Password      string
	FirstName     string
	LastName      string
	Phone         string
	AcceptedTerms bool
}

func (in SignupInput) validate() error {
	if err := domain.ValidateEmail(in.Username); err != nil {
		return err
	}
	if err := domain.ValidateName("firstName", in.FirstName); err != nil {
		return err
	}
	if err := domain.ValidateName("lastName", in.LastName); err != nil {
		return err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return err
	}
	if err := domain.ValidatePhone(in.Phone); err != nil {
		return err
	}
	if !in.AcceptedTerms {
		return domain.NewValidationError("acceptedTerms", "terms must be accepted")
	}
	return nil
}

// Signup creates a user and their wallet in one transaction. The wallet
// starts with a random whole-number bonus.
func (uc *UserUseCase) Signup(ctx context.Context, input SignupInput) (*domain.User, *domain.Account, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Phone = strings.TrimSpace(input.Phone)

	if err := input.validate(); err != nil {
		return nil, nil, err
	}

	existing, err := uc.userRepo.GetByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, domain.ErrUserExists
	}

	hashedPassword, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Username:       input.Username,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		HashedPassword: hashedPassword,
		AcceptedTerms:  true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		UserID:    user.ID,
		Balance:   decimal.NewFromInt(uc.bonus(uc.bonusMin, uc.bonusMax)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.userRepo.CreateTx(ctx, tx, user); err != nil {
		return nil, nil, err
	}

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	log.Info().Str("user_id", user.ID).Str("balance", account.Balance.String()).Msg("user signed up")

	user.HashedPassword = ""
	return user, account, nil
}

// AuthenticateInput represents authentication input
type AuthenticateInput struct {
	Username string
	Password string

	// ClientKey scopes the attempt counter, usually the client IP.
	ClientKey string
}

// Authenticate verifies user credentials
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	attemptKey := input.ClientKey + ":" + username

	if uc.limiter != nil {
		allowed, err := uc.limiter.Allow(ctx, attemptKey)
		if err != nil {
			log.Warn().Err(err).Msg("login limiter unavailable")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := uc.hasher.Compare(user.HashedPassword, input.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if uc.limiter != nil {
		if err := uc.limiter.Reset(ctx, attemptKey); err != nil {
			log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	user.HashedPassword = ""
	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// UpdateProfileInput represents input for updating a user
type UpdateProfileInput struct {
	UserID    string
	FirstName *string
	LastName  *string
	Password  *string
}

// UpdateProfile updates the caller's names and password.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if err := domain.ValidateName("firstName", name); err != nil {
			return nil, err
		}
		user.FirstName = name
	}

	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if err := domain.ValidateName("lastName", name); err != nil {
			return nil, err
		}
		user.LastName = name
	}

	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hashedPassword, err := uc.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashedPassword
	}

	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// SearchUsers finds users by first or last name, excluding the caller.
func (uc *UserUseCase) SearchUsers(ctx context.Context, filter, callerID string) ([]*domain.User, error) {
	users, err := uc.userRepo.Search(ctx, strings.TrimSpace(filter), callerID, domain.MaxUserSearchResults)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}
