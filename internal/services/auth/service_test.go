package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

type fakeRepository struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*models.User), nextID: 1}
}

func (r *fakeRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, &models.NotFoundError{Resource: "user", Key: username}
	}
	copied := *user
	return &copied, nil
}

func (r *fakeRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.Username] = &copied
	return nil
}

func (r *fakeRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo, logger.New("test")), repo
}

func TestLoginSucceedsWithCorrectPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "chef", "secret-sauce", true)
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.PasswordHash == "secret-sauce" {
		t.Fatal("expected password to be stored hashed")
	}

	user, err := svc.Login(ctx, "chef", "secret-sauce")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Username != "chef" || !user.IsAdmin {
		t.Errorf("unexpected user returned: %+v", user)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "chef", "secret-sauce", false); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	_, err := svc.Login(ctx, "chef", "wrong")
	var authErr *models.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	var authErr *models.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestCreateUserValidatesInput(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"blank username", "   ", "pw"},
		{"empty password", "waiter", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tt.username, tt.password, false)
			var validationErr *models.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	if len(repo.users) != 0 {
		t.Errorf("expected no users persisted, got %d", len(repo.users))
	}
}

func TestCreateUserStoresBcryptHash(t *testing.T) {
	svc, repo := newTestService()

	if _, err := svc.CreateUser(context.Background(), "waiter", "table-7", false); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	stored := repo.users["waiter"]
	if stored == nil {
		t.Fatal("expected user to be persisted")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("table-7")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}
