package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	userdom "flipmart/internal/domain/user"
	"flipmart/internal/platform/token"
)

var (
	ErrAuthInvalidArgument    = errors.New("auth_usecase: invalid argument")
	ErrAuthEmailTaken         = errors.New("auth_usecase: email already registered")
	ErrAuthInvalidCredentials = errors.New("auth_usecase: invalid credentials")
)

// Mailer sends transactional mail. Implementations must be safe to call
// from a background goroutine.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// AuthUsecase is the credential issuance collaborator: it registers and
// authenticates users and mints the bearer credential. It never decodes
// credentials on behalf of callers (that is the token package's job).
type AuthUsecase struct {
	users    userdom.Repository
	minter   *token.Minter
	mailer   Mailer
	mailFrom string
	clock    Clock
}

func NewAuthUsecase(users userdom.Repository, minter *token.Minter, mailer Mailer, mailFrom string) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		minter:   minter,
		mailer:   mailer,
		mailFrom: strings.TrimSpace(mailFrom),
		clock:    systemClock{},
	}
}

// NewAuthUsecaseWithClock is useful for tests.
func NewAuthUsecaseWithClock(users userdom.Repository, minter *token.Minter, mailer Mailer, mailFrom string, clock Clock) *AuthUsecase {
	uc := NewAuthUsecase(users, minter, mailer, mailFrom)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// Register creates a user and returns a freshly minted credential.
func (uc *AuthUsecase) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return "", ErrAuthInvalidArgument
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	u, err := userdom.New(uuid.NewString(), name, email, string(hashed), uc.clock.Now())
	if err != nil {
		return "", ErrAuthInvalidArgument
	}

	if err := uc.users.Create(ctx, u); err != nil {
		if errors.Is(err, userdom.ErrEmailTaken) {
			return "", ErrAuthEmailTaken
		}
		return "", err
	}

	// Welcome mail is best-effort and never blocks registration.
	if uc.mailer != nil && uc.mailFrom != "" {
		go func(to, name string) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := uc.mailer.Send(sendCtx, uc.mailFrom, to,
				"Welcome to Flipmart",
				"Hi "+name+",\n\nYour Flipmart account is ready.\n"); err != nil {
				log.Printf("[auth_usecase] welcome mail failed to=%s: %v", to, err)
			}
		}(u.Email, u.Name)
	}

	return uc.minter.Mint(u.ID, u.Name, u.Email)
}

// Login verifies the password and returns a freshly minted credential.
// Unknown email and wrong password are indistinguishable to the caller.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrAuthInvalidArgument
	}

	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userdom.ErrNotFound) {
			return "", ErrAuthInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthInvalidCredentials
	}

	return uc.minter.Mint(u.ID, u.Name, u.Email)
}

// Lookup resolves a previously verified identity to its user record.
// Used by the auth middleware after signature verification.
func (uc *AuthUsecase) Lookup(ctx context.Context, subjectID string) (*userdom.User, error) {
	sid := strings.TrimSpace(subjectID)
	if sid == "" {
		return nil, ErrAuthInvalidArgument
	}
	return uc.users.GetByID(ctx, sid)
}
