package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/masters-arena/arena-server/access"
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
)

type fakeProfileRepo struct {
	profiles []models.Profile
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	for _, existing := range f.profiles {
		if existing.Email == p.Email {
			return repositories.ErrProfileEmailConflict
		}
	}
	p.ID = len(f.profiles) + 1
	p.CreatedAt = time.Now()
	f.profiles = append(f.profiles, *p)
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	for i := range f.profiles {
		if f.profiles[i].ID == id {
			p := f.profiles[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for i := range f.profiles {
		if f.profiles[i].Email == email {
			p := f.profiles[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetRole(ctx context.Context, id int) (models.Role, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil || p.Role == "" {
		return "", repositories.ErrProfileNotFound
	}
	return p.Role, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	for i := range f.profiles {
		if f.profiles[i].ID == p.ID {
			f.profiles[i].Username = p.Username
			f.profiles[i].DisplayName = p.DisplayName
			return nil
		}
	}
	return repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	for i := range f.profiles {
		if f.profiles[i].ID == id {
			f.profiles[i].AvatarKey = avatarKey
			return nil
		}
	}
	return repositories.ErrProfileNotFound
}

func TestRegisterAndSignIn(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewAuthService(repo, "test-secret")

	profile, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ana@example.com",
		Password: "long-enough",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if profile.Role != models.RoleMember {
		t.Errorf("new profiles default to member, got %q", profile.Role)
	}
	if profile.PasswordHash != "" {
		t.Errorf("password hash must not leave the service")
	}

	signed, token, err := svc.SignIn(context.Background(), SignInInput{
		Email:    "ana@example.com",
		Password: "long-enough",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if signed.ID != profile.ID || token == "" {
		t.Fatalf("unexpected sign-in result %+v / %q", signed, token)
	}

	sess := svc.SessionFromToken(token)
	if sess == nil || sess.Identity.UserID != profile.ID || sess.Identity.Email != "ana@example.com" {
		t.Errorf("token did not round-trip: %+v", sess)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewAuthService(repo, "test-secret")

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password: got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long-enough"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long-enough"}); !errors.Is(err, ErrEmailConflict) {
		t.Errorf("duplicate email: got %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewAuthService(repo, "test-secret")
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long-enough"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.SignIn(context.Background(), SignInInput{Email: "a@b.c", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, _, err := svc.SignIn(context.Background(), SignInInput{Email: "nobody@b.c", Password: "long-enough"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestSessionFromTokenRejectsForgery(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewAuthService(repo, "test-secret")
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long-enough"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, token, err := svc.SignIn(context.Background(), SignInInput{Email: "a@b.c", Password: "long-enough"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	other := NewAuthService(repo, "different-secret")
	if sess := other.SessionFromToken(token); sess != nil {
		t.Errorf("token signed under another secret must not resolve")
	}
	if sess := svc.SessionFromToken(""); sess != nil {
		t.Errorf("empty token must not resolve")
	}
	if sess := svc.SessionFromToken("not.a.jwt"); sess != nil {
		t.Errorf("garbage token must not resolve")
	}
}

func TestSignOutNotifiesOnlyThatUser(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewAuthService(repo, "test-secret")
	for _, email := range []string{"a@b.c", "b@b.c"} {
		if _, err := svc.Register(context.Background(), RegisterInput{Email: email, Password: "long-enough"}); err != nil {
			t.Fatalf("register %s: %v", email, err)
		}
	}
	_, tokenA, _ := svc.SignIn(context.Background(), SignInInput{Email: "a@b.c", Password: "long-enough"})
	_, tokenB, _ := svc.SignIn(context.Background(), SignInInput{Email: "b@b.c", Password: "long-enough"})

	var gotA, gotB []access.AuthEvent
	unsubA := svc.SourceForToken(tokenA).OnAuthStateChange(func(ev access.AuthEvent) { gotA = append(gotA, ev) })
	defer unsubA()
	unsubB := svc.SourceForToken(tokenB).OnAuthStateChange(func(ev access.AuthEvent) { gotB = append(gotB, ev) })
	defer unsubB()

	if err := svc.SignOut(context.Background(), 1); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if len(gotA) != 1 || gotA[0] != access.EventSignedOut {
		t.Errorf("user 1 listener: got %v", gotA)
	}
	if len(gotB) != 0 {
		t.Errorf("user 2 listener should stay quiet, got %v", gotB)
	}
}
