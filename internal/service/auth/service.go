package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"healside/internal/domain"
	userrepo "healside/internal/repository/user"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotAdmin is returned when a non-admin attempts an admin login.
	ErrNotAdmin = errors.New("admin privileges required")
)

// Claims is the JWT payload issued on login.
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Service handles registration, password and social login, and JWT lifecycle.
type Service struct {
	repo        userrepo.Repository
	secret      []byte
	tokenTTL    time.Duration
	passwordMin int
}

func New(repo userrepo.Repository, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		repo:        repo,
		secret:      []byte(secret),
		tokenTTL:    tokenTTL,
		passwordMin: 8,
	}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	ZipCode  string `json:"zipCode"`
	Phone    string `json:"phone"`
}

// Register creates a user and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, "", errors.New("username required")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, "", errors.New("email required")
	}
	if err := validatePassword(in.Password, s.passwordMin); err != nil {
		return nil, "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Address:      in.Address,
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
		ZipCode:      in.ZipCode,
		Phone:        in.Phone,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login validates credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if u.PasswordHash == "" {
		// Social-login account with no password set.
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// LoginAdmin is Login plus an IsAdmin gate.
func (s *Service) LoginAdmin(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, token, err := s.Login(ctx, username, password)
	if err != nil {
		return nil, "", err
	}
	if !u.IsAdmin {
		return nil, "", ErrNotAdmin
	}
	return u, token, nil
}

// Profile is the identity a social provider reports for a user.
type Profile struct {
	Provider string
	Subject  string
	Email    string
	Name     string
	ImageURL string
}

// LoginSocial finds or creates the user for a provider profile. Lookup order:
// provider subject, then email (linking an existing account), then create.
func (s *Service) LoginSocial(ctx context.Context, p Profile) (*domain.User, string, error) {
	if p.Email == "" {
		return nil, "", fmt.Errorf("%s account has no email address", p.Provider)
	}

	u, err := s.lookupSocial(ctx, p)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	if u != nil {
		if p.Name != "" || p.ImageURL != "" {
			updated, err := s.repo.UpdateProfile(ctx, u.ID, userrepo.UpdateProfileInput{
				Name:            nonEmpty(p.Name),
				ProfileImageURL: nonEmpty(p.ImageURL),
			})
			if err == nil {
				u = updated
			}
		}
	} else {
		username := fmt.Sprintf("%s-%d", strings.SplitN(p.Email, "@", 2)[0], rand.Intn(1000))
		newUser := domain.User{
			Username:        username,
			Email:           strings.ToLower(p.Email),
			Name:            p.Name,
			ProfileImageURL: p.ImageURL,
		}
		switch p.Provider {
		case "google":
			newUser.GoogleID = &p.Subject
		case "apple":
			newUser.AppleID = &p.Subject
		}
		u, err = s.repo.Create(ctx, newUser)
		if err != nil {
			return nil, "", err
		}
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) lookupSocial(ctx context.Context, p Profile) (*domain.User, error) {
	var u *domain.User
	var err error
	switch p.Provider {
	case "google":
		u, err = s.repo.GetByGoogleID(ctx, p.Subject)
	case "apple":
		u, err = s.repo.GetByAppleID(ctx, p.Subject)
	default:
		return nil, fmt.Errorf("unknown provider %q", p.Provider)
	}
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	u, err = s.repo.GetByEmail(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	// Existing password account with a matching email gets the provider linked.
	if err := s.repo.LinkProvider(ctx, u.ID, p.Provider, p.Subject); err != nil {
		return nil, err
	}
	return u, nil
}

// Lookup returns the user identified by a valid bearer token.
func (s *Service) Lookup(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	var id int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &id); err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// IssueToken signs a token for the user.
func (s *Service) IssueToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a token's signature and expiry.
func (s *Service) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
