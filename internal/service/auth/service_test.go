package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"healside/internal/domain"
	userrepo "healside/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	linked map[int64]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[int64]*domain.User{}, nextID: 1, linked: map[int64]string{}}
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = &u
	return &u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	for _, u := range s.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByAppleID(_ context.Context, appleID string) (*domain.User, error) {
	for _, u := range s.users {
		if u.AppleID != nil && *u.AppleID == appleID {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id int64, in userrepo.UpdateProfileInput) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.ProfileImageURL != nil {
		u.ProfileImageURL = *in.ProfileImageURL
	}
	return u, nil
}

func (s *stubUserRepo) LinkProvider(_ context.Context, id int64, provider, subject string) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch provider {
	case "google":
		u.GoogleID = &subject
	case "apple":
		u.AppleID = &subject
	}
	s.linked[id] = provider
	return nil
}

func (s *stubUserRepo) List(_ context.Context) ([]domain.User, error) { return nil, nil }
func (s *stubUserRepo) Count(_ context.Context) (int64, error)        { return int64(len(s.users)), nil }

func TestRegisterAndLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, "test-secret", time.Hour)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, RegisterInput{
		Username: "zoe",
		Email:    "zoe@example.com",
		Password: "Sunlight7pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Fatal("Register returned empty token")
	}
	if u.PasswordHash == "Sunlight7pass" {
		t.Fatal("password stored unhashed")
	}

	got, token2, err := svc.Login(ctx, "zoe", "Sunlight7pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID || token2 == "" {
		t.Fatalf("Login returned user %d, token %q", got.ID, token2)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("Correct1pass"), bcrypt.MinCost)
	repo.Create(context.Background(), domain.User{Username: "zoe", Email: "zoe@example.com", PasswordHash: string(hash)})

	svc := New(repo, "test-secret", time.Hour)
	if _, _, err := svc.Login(context.Background(), "zoe", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := New(newStubUserRepo(), "test-secret", time.Hour)
	cases := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, pw := range cases {
		if _, _, err := svc.Register(context.Background(), RegisterInput{
			Username: "u", Email: "u@example.com", Password: pw,
		}); err == nil {
			t.Errorf("password %q accepted", pw)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, "test-secret", time.Hour)
	u, _ := repo.Create(context.Background(), domain.User{Username: "zoe", Email: "zoe@example.com", IsAdmin: true})

	token, err := svc.IssueToken(u)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Username != "zoe" || !claims.IsAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	got, err := svc.Lookup(context.Background(), token)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("Lookup returned user %d, want %d", got.ID, u.ID)
	}
}

func TestParseTokenRejectsForgedToken(t *testing.T) {
	repo := newStubUserRepo()
	u, _ := repo.Create(context.Background(), domain.User{Username: "zoe", Email: "zoe@example.com"})

	other := New(repo, "other-secret", time.Hour)
	forged, _ := other.IssueToken(u)

	svc := New(repo, "test-secret", time.Hour)
	if _, err := svc.ParseToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: expected ErrInvalidToken, got %v", err)
	}
}

func TestLoginAdminRequiresAdmin(t *testing.T) {
	repo := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("Correct1pass"), bcrypt.MinCost)
	repo.Create(context.Background(), domain.User{Username: "zoe", Email: "zoe@example.com", PasswordHash: string(hash)})

	svc := New(repo, "test-secret", time.Hour)
	if _, _, err := svc.LoginAdmin(context.Background(), "zoe", "Correct1pass"); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestLoginSocialCreatesUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, "test-secret", time.Hour)

	u, token, err := svc.LoginSocial(context.Background(), Profile{
		Provider: "google",
		Subject:  "goog-123",
		Email:    "new@example.com",
		Name:     "New Person",
	})
	if err != nil {
		t.Fatalf("LoginSocial: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if u.GoogleID == nil || *u.GoogleID != "goog-123" {
		t.Fatalf("google id not stored: %+v", u)
	}

	// Second login with the same subject must resolve to the same account.
	again, _, err := svc.LoginSocial(context.Background(), Profile{
		Provider: "google",
		Subject:  "goog-123",
		Email:    "new@example.com",
	})
	if err != nil {
		t.Fatalf("second LoginSocial: %v", err)
	}
	if again.ID != u.ID {
		t.Fatalf("second login created user %d, want %d", again.ID, u.ID)
	}
}

func TestLoginSocialLinksByEmail(t *testing.T) {
	repo := newStubUserRepo()
	existing, _ := repo.Create(context.Background(), domain.User{Username: "zoe", Email: "zoe@example.com"})

	svc := New(repo, "test-secret", time.Hour)
	u, _, err := svc.LoginSocial(context.Background(), Profile{
		Provider: "apple",
		Subject:  "apple-9",
		Email:    "zoe@example.com",
	})
	if err != nil {
		t.Fatalf("LoginSocial: %v", err)
	}
	if u.ID != existing.ID {
		t.Fatalf("got user %d, want existing %d", u.ID, existing.ID)
	}
	if repo.linked[existing.ID] != "apple" {
		t.Fatal("provider was not linked to existing account")
	}
}
