package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/masters-arena/arena-server/access"
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

type RegisterInput struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService owns registration, token sessions and sign-out
// notification. It is the auth half of the data service boundary.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Profile, error)
	SignIn(ctx context.Context, input SignInInput) (*models.Profile, string, error)
	// SignOut invalidates nothing server-side (tokens expire on their
	// own) but notifies every auth-state listener of the user, which
	// forces gates to redirect.
	SignOut(ctx context.Context, userID int) error
	// SessionFromToken resolves a bearer token into an identity; nil
	// when the token is absent, expired or forged.
	SessionFromToken(token string) *access.Session
	// SourceForToken adapts one request's bearer token to the access
	// gate's AuthSource.
	SourceForToken(token string) access.AuthSource
}

type authService struct {
	profileRepo repositories.ProfileRepository
	jwtSecret   []byte

	mu        sync.Mutex
	nextSubID int
	listeners map[int]authListener
}

type authListener struct {
	userID int
	fn     func(access.AuthEvent)
}

func NewAuthService(profileRepo repositories.ProfileRepository, jwtSecret string) AuthService {
	return &authService{
		profileRepo: profileRepo,
		jwtSecret:   []byte(jwtSecret),
		listeners:   make(map[int]authListener),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidationFailed)
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Email:        input.Email,
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		Role:         models.RoleMember,
		PasswordHash: string(hashed),
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileEmailConflict) {
			return nil, ErrEmailConflict
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) SignIn(ctx context.Context, input SignInInput) (*models.Profile, string, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find profile by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	claims := jwt.MapClaims{
		"user_id": profile.ID,
		"email":   profile.Email,
		"role":    profile.Role,
		"exp":     time.Now().Add(sessionTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	profile.PasswordHash = ""
	return profile, token, nil
}

func (s *authService) SignOut(ctx context.Context, userID int) error {
	s.mu.Lock()
	listeners := make([]func(access.AuthEvent), 0)
	for _, l := range s.listeners {
		if l.userID == userID {
			listeners = append(listeners, l.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(access.EventSignedOut)
	}
	return nil
}

func (s *authService) SessionFromToken(token string) *access.Session {
	if token == "" {
		return nil
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return nil
	}
	email, _ := claims["email"].(string)
	return &access.Session{
		Identity: models.Identity{UserID: int(userIDFloat), Email: email},
	}
}

func (s *authService) subscribe(userID int, fn func(access.AuthEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = authListener{userID: userID, fn: fn}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// tokenAuthSource binds one request's bearer token to the gate's view
// of the data service.
type tokenAuthSource struct {
	svc   *authService
	token string
}

func (s *authService) SourceForToken(token string) access.AuthSource {
	return &tokenAuthSource{svc: s, token: token}
}

func (t *tokenAuthSource) CurrentSession(ctx context.Context) (*access.Session, error) {
	return t.svc.SessionFromToken(t.token), nil
}

func (t *tokenAuthSource) OnAuthStateChange(fn func(access.AuthEvent)) func() {
	sess := t.svc.SessionFromToken(t.token)
	if sess == nil {
		// Nothing to listen for without a resolvable subject.
		return func() {}
	}
	return t.svc.subscribe(sess.Identity.UserID, fn)
}
