package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"openschool/internal/config"
	"openschool/internal/model"
	"openschool/internal/util"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		AccessTokenTTL:   30,
		RefreshTokenTTL:  24,
		InactiveUserDays: 30,
	}
}

func newUserFixture() (*fakeUserRepo, *fakePaymentRepo, UserService) {
	userRepo := newFakeUserRepo()
	paymentRepo := newFakePaymentRepo()
	svc := NewUserService(userRepo, paymentRepo, testConfig(), zerolog.Nop())
	return userRepo, paymentRepo, svc
}

func TestRegister(t *testing.T) {
	userRepo, _, svc := newUserFixture()

	created, err := svc.Register(context.Background(), &model.User{Email: "a@example.com"}, "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", created.Role, model.RoleUser)
	}
	if !created.IsActive {
		t.Error("new account should be active")
	}
	if created.PasswordHash == "s3cret" || created.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	if _, err := svc.Register(context.Background(), &model.User{Email: "a@example.com"}, "other"); !errors.Is(err, ErrEmailAlreadyTaken) {
		t.Errorf("duplicate email: err = %v, want ErrEmailAlreadyTaken", err)
	}
	if len(userRepo.users) != 1 {
		t.Errorf("users = %d, want 1", len(userRepo.users))
	}
}

func TestLogin(t *testing.T) {
	userRepo, _, svc := newUserFixture()
	created, err := svc.Register(context.Background(), &model.User{Email: "a@example.com"}, "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	access, refresh, err := svc.Login(context.Background(), "a@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected both tokens")
	}
	claims, err := util.ValidateJWT(access, "test-secret")
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.TokenType != util.TokenTypeAccess || claims.Role != model.RoleUser {
		t.Errorf("claims = %+v", claims)
	}
	if _, ok := userRepo.lastLoginSet[created.ID]; !ok {
		t.Error("last login should be recorded")
	}

	if _, _, err := svc.Login(context.Background(), "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}

	userRepo.users[created.ID].IsActive = false
	if _, _, err := svc.Login(context.Background(), "a@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("blocked account: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefresh(t *testing.T) {
	_, _, svc := newUserFixture()
	if _, err := svc.Register(context.Background(), &model.User{Email: "a@example.com"}, "s3cret"); err != nil {
		t.Fatal(err)
	}
	access, refresh, err := svc.Login(context.Background(), "a@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	newAccess, err := svc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := util.ValidateJWT(newAccess, "test-secret")
	if err != nil || claims.TokenType != util.TokenTypeAccess {
		t.Fatalf("refreshed token invalid: %v, claims %+v", err, claims)
	}

	// An access token is not accepted in the refresh slot.
	if _, err := svc.Refresh(context.Background(), access); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("access token as refresh: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestGetProfileViews(t *testing.T) {
	_, paymentRepo, svc := newUserFixture()
	created, err := svc.Register(context.Background(), &model.User{Email: "a@example.com"}, "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	uid := created.ID
	paymentRepo.CreatePayment(context.Background(), &model.Payment{UserID: &uid, Amount: 100, Method: model.PaymentMethodCash})

	user, payments, private, err := svc.Get(context.Background(), userPrincipal(uid), uid)
	if err != nil {
		t.Fatalf("self Get: %v", err)
	}
	if !private {
		t.Fatal("subject should get the private view")
	}
	if user.Email != "a@example.com" || len(payments) != 1 {
		t.Errorf("user = %+v, payments = %d", user, len(payments))
	}

	_, payments, private, err = svc.Get(context.Background(), userPrincipal(uid+1), uid)
	if err != nil {
		t.Fatalf("other Get: %v", err)
	}
	if private || payments != nil {
		t.Fatal("another user must only get the public view, no payments")
	}

	if _, _, _, err := svc.Get(context.Background(), userPrincipal(uid), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateAndDeleteAreSubjectOnly(t *testing.T) {
	userRepo, _, svc := newUserFixture()
	created, err := svc.Register(context.Background(), &model.User{Email: "a@example.com"}, "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	town := "Riga"

	if _, err := svc.Update(context.Background(), userPrincipal(created.ID+1), created.ID, model.UserUpdate{Town: &town}); !errors.Is(err, ErrForbidden) {
		t.Errorf("other update: err = %v, want ErrForbidden", err)
	}
	// Moderators have no special standing on accounts.
	if _, err := svc.Update(context.Background(), moderatorPrincipal(created.ID+1), created.ID, model.UserUpdate{Town: &town}); !errors.Is(err, ErrForbidden) {
		t.Errorf("moderator update: err = %v, want ErrForbidden", err)
	}
	updated, err := svc.Update(context.Background(), userPrincipal(created.ID), created.ID, model.UserUpdate{Town: &town})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.Town != "Riga" {
		t.Errorf("town = %q", updated.Town)
	}

	if err := svc.Delete(context.Background(), userPrincipal(created.ID+1), created.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("other delete: err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(context.Background(), userPrincipal(created.ID), created.ID); err != nil {
		t.Fatalf("self delete: %v", err)
	}
	if len(userRepo.users) != 0 {
		t.Error("account should be gone")
	}
}

func TestBlockInactiveUsesConfiguredCutoff(t *testing.T) {
	userRepo, _, svc := newUserFixture()
	userRepo.deactivated = 3

	n, err := svc.BlockInactive(context.Background())
	if err != nil {
		t.Fatalf("BlockInactive: %v", err)
	}
	if n != 3 {
		t.Errorf("blocked = %d, want 3", n)
	}
	want := time.Now().AddDate(0, 0, -30)
	if diff := userRepo.deactivatedAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v, want about %v", userRepo.deactivatedAt, want)
	}
}
