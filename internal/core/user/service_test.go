package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}

type fakeRepo struct {
	users       []*User
	seq         int
	createCalls int

	createErr error
	listErr   error
	countErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{}
}

func (r *fakeRepo) Create(_ context.Context, user *User) (*User, error) {
	r.createCalls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, ErrEmailAlreadyExists
		}
	}
	r.seq++
	copy := *user
	copy.ID = "user-" + strconv.Itoa(r.seq)
	r.users = append(r.users, &copy)
	return cloneUser(&copy), nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) List(_ context.Context, filter ListUsersFilter) ([]*User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	if filter.Offset >= len(r.users) {
		return []*User{}, nil
	}

	end := filter.Offset + filter.Limit
	if end > len(r.users) {
		end = len(r.users)
	}

	page := make([]*User, 0, end-filter.Offset)
	for _, u := range r.users[filter.Offset:end] {
		page = append(page, cloneUser(u))
	}
	return page, nil
}

func (r *fakeRepo) Count(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.users)), nil
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	copy := *u
	return &copy
}

func seedUsers(t *testing.T, repo *fakeRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := repo.Create(context.Background(), &User{
			Name:  fmt.Sprintf("User %d", i+1),
			Email: fmt.Sprintf("user%d@example.com", i+1),
		}); err != nil {
			t.Fatalf("seed user %d: %v", i+1, err)
		}
	}
	repo.createCalls = 0
}

func TestService_CreateUser_Success(t *testing.T) {
	t.Parallel()

	clk := stubClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	repo := newFakeRepo()
	svc := NewService(repo, &clk, nil)

	created, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:  "  Ann Example  ",
		Email: " ANN@x.com ",
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	if created.ID == "" {
		t.Error("expected assigned id")
	}

	if created.Email != "ann@x.com" {
		t.Errorf("expected normalized email, got %s", created.Email)
	}

	if created.Name != "Ann Example" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}

	if created.CreatedAt != clk.now {
		t.Errorf("expected timestamp from clock, got %v", created.CreatedAt)
	}

	total, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected count 1 after create, got %d", total)
	}
}

func TestService_CreateUser_InvalidInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   CreateUserInput
		wantErr error
	}{
		{name: "empty name", input: CreateUserInput{Name: "   ", Email: "ann@x.com"}, wantErr: ErrInvalidName},
		{name: "empty email", input: CreateUserInput{Name: "Ann", Email: ""}, wantErr: ErrInvalidEmail},
		{name: "email without domain", input: CreateUserInput{Name: "Ann", Email: "ann"}, wantErr: ErrInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepo()
			svc := NewService(repo, nil, nil)

			if _, err := svc.CreateUser(context.Background(), tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			if repo.createCalls != 0 {
				t.Errorf("expected repository untouched, got %d create calls", repo.createCalls)
			}
		})
	}
}

func TestService_CreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "Ann", Email: "ann@x.com"}); err != nil {
		t.Fatalf("first CreateUser returned error: %v", err)
	}

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "Other", Email: "ann@x.com"}); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	total, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected count unchanged at 1, got %d", total)
	}
}

func TestService_CreateUser_StoreConstraintWins(t *testing.T) {
	t.Parallel()

	// 事前チェックをすり抜けた同時挿入はストアの制約違反として返る。
	repo := newFakeRepo()
	repo.createErr = ErrEmailAlreadyExists
	svc := NewService(repo, nil, nil)

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "Ann", Email: "ann@x.com"}); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestService_ListUsers_EmptyStore(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	result, err := svc.ListUsers(context.Background(), ListUsersInput{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}

	if len(result.Users) != 0 {
		t.Errorf("expected no users, got %d", len(result.Users))
	}
	if result.Page != 1 || result.Limit != 10 {
		t.Errorf("unexpected paging %d/%d", result.Page, result.Limit)
	}
	if result.Total != 0 || result.Pages != 0 {
		t.Errorf("expected total 0 and pages 0, got %d and %d", result.Total, result.Pages)
	}
}

func TestService_ListUsers_PageMath(t *testing.T) {
	t.Parallel()

	const total = 25

	repo := newFakeRepo()
	seedUsers(t, repo, total)
	svc := NewService(repo, nil, nil)

	cases := []struct {
		page      int
		limit     int
		wantLen   int
		wantPages int
	}{
		{page: 1, limit: 10, wantLen: 10, wantPages: 3},
		{page: 3, limit: 10, wantLen: 5, wantPages: 3},
		{page: 4, limit: 10, wantLen: 0, wantPages: 3},
		{page: 1, limit: 25, wantLen: 25, wantPages: 1},
		{page: 2, limit: 7, wantLen: 7, wantPages: 4},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("page=%d limit=%d", tc.page, tc.limit), func(t *testing.T) {
			t.Parallel()

			result, err := svc.ListUsers(context.Background(), ListUsersInput{Page: tc.page, Limit: tc.limit})
			if err != nil {
				t.Fatalf("ListUsers returned error: %v", err)
			}

			if len(result.Users) != tc.wantLen {
				t.Errorf("expected %d users, got %d", tc.wantLen, len(result.Users))
			}
			if result.Total != total {
				t.Errorf("expected total %d, got %d", total, result.Total)
			}
			if result.Pages != tc.wantPages {
				t.Errorf("expected %d pages, got %d", tc.wantPages, result.Pages)
			}
		})
	}
}

func TestService_ListUsers_NormalizesPaging(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	seedUsers(t, repo, 3)
	svc := NewService(repo, nil, nil)

	result, err := svc.ListUsers(context.Background(), ListUsersInput{Page: 0, Limit: -5})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if result.Page != 1 || result.Limit != defaultListLimit {
		t.Errorf("expected defaults 1/%d, got %d/%d", defaultListLimit, result.Page, result.Limit)
	}

	result, err = svc.ListUsers(context.Background(), ListUsersInput{Page: 1, Limit: 1000})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if result.Limit != maxListLimit {
		t.Errorf("expected limit capped at %d, got %d", maxListLimit, result.Limit)
	}
}

func TestService_ListUsers_RepositoryError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")

	repo := newFakeRepo()
	repo.listErr = storeErr
	svc := NewService(repo, nil, nil)

	if _, err := svc.ListUsers(context.Background(), ListUsersInput{Page: 1, Limit: 10}); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}

	repo = newFakeRepo()
	repo.countErr = storeErr
	svc = NewService(repo, nil, nil)

	if _, err := svc.ListUsers(context.Background(), ListUsersInput{Page: 1, Limit: 10}); !errors.Is(err, storeErr) {
		t.Fatalf("expected count error to propagate, got %v", err)
	}
}
