package users

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/printdesk/printdesk/internal/orders"
)

type stubRepo struct {
	byEmail map[string]User
	byID    map[int64]User
	created []User
}

func (s *stubRepo) List(ctx context.Context) ([]User, error) { return nil, nil }

func (s *stubRepo) ListByRole(ctx context.Context, role orders.Role) ([]User, error) {
	var out []User
	for _, u := range s.byID {
		if u.IsActive && u.HasRole(role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (User, error) {
	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) Create(ctx context.Context, u User) (User, error) {
	u.ID = int64(len(s.created) + 1)
	s.created = append(s.created, u)
	return u, nil
}

func (s *stubRepo) UpdateRoles(ctx context.Context, id int64, roles []orders.Role) error { return nil }
func (s *stubRepo) SetActive(ctx context.Context, id int64, active bool) error           { return nil }

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestAuthenticate(t *testing.T) {
	repo := &stubRepo{byEmail: map[string]User{
		"ana@printdesk.mx": {
			ID:           1,
			Email:        "ana@printdesk.mx",
			PasswordHash: hash(t, "correcthorse"),
			IsActive:     true,
			Roles:        []orders.Role{orders.RoleDesigner},
		},
		"off@printdesk.mx": {
			ID:           2,
			Email:        "off@printdesk.mx",
			PasswordHash: hash(t, "correcthorse"),
			IsActive:     false,
		},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "ana@printdesk.mx", "correcthorse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("user = %d", u.ID)
	}

	// Wrong password, unknown account and disabled account all fail
	// with the same error.
	for _, tc := range []struct{ email, password string }{
		{"ana@printdesk.mx", "wrong"},
		{"nobody@printdesk.mx", "correcthorse"},
		{"off@printdesk.mx", "correcthorse"},
	} {
		if _, err := svc.Authenticate(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: err = %v", tc.email, err)
		}
	}
}

func TestCreateValidatesRoles(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserRequest{
		Email:    "ana@printdesk.mx",
		Name:     "Ana",
		Password: "correcthorse",
		Roles:    []orders.Role{"JANITOR"},
	})
	if err == nil {
		t.Fatalf("unknown role accepted")
	}

	u, err := svc.Create(ctx, CreateUserRequest{
		Email:    "ana@printdesk.mx",
		Name:     "Ana",
		Password: "correcthorse",
		Roles:    []orders.Role{orders.RoleDesigner, orders.RoleCounter},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !u.IsActive {
		t.Fatalf("new account not active")
	}
	if u.PasswordHash == "correcthorse" || u.PasswordHash == "" {
		t.Fatalf("password stored unhashed")
	}
}

func TestDesignerName(t *testing.T) {
	repo := &stubRepo{byID: map[int64]User{
		1: {ID: 1, Name: "Ana", IsActive: true, Roles: []orders.Role{orders.RoleDesigner}},
		2: {ID: 2, Name: "Luis", IsActive: true, Roles: []orders.Role{orders.RoleCounter}},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	name, ok := svc.DesignerName(ctx, 1)
	if !ok || name != "Ana" {
		t.Fatalf("got %q %v", name, ok)
	}
	// Non-designers and unknown ids resolve to the unassigned bucket.
	if _, ok := svc.DesignerName(ctx, 2); ok {
		t.Fatalf("counter resolved as designer")
	}
	if _, ok := svc.DesignerName(ctx, 9); ok {
		t.Fatalf("unknown id resolved")
	}
}
