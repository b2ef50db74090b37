package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/password"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
	"github.com/magabrotheeeer/gym-tracker/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) UpdatePayment(ctx context.Context, userID int64, paymentDate, expiryDate time.Time) error {
	return m.Called(ctx, userID, paymentDate, expiryDate).Error(0)
}

// memoryRepo хранилище в памяти с теми же правилами уникальности, что и PostgreSQL.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*models.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]*models.User{}}
}

func (r *memoryRepo) CreateUser(_ context.Context, user models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return 0, fmt.Errorf("memory: %w", storage.ErrUserExists)
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Username] = &user
	return user.ID, nil
}

func (r *memoryRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (r *memoryRepo) UpdatePayment(_ context.Context, userID int64, paymentDate, expiryDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.LastPaymentDate = &paymentDate
			u.ExpiryDate = &expiryDate
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(repo UserRepository) *MembershipService {
	return NewMembershipService(repo, password.NewHasher(bcrypt.MinCost), newNoopLogger())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMembershipService_SignUpThenAuthenticate(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	creds := []struct{ username, password, email string }{
		{"alice", "s3cret", "alice@example.com"},
		{"Bob", "p@ss word", "bob@example.com"},
		{"carol_99", "x", "c"},
	}

	for _, c := range creds {
		t.Run(c.username, func(t *testing.T) {
			id, err := svc.SignUp(ctx, c.username, c.password, c.email)
			require.NoError(t, err)
			assert.Positive(t, id)

			user, err := svc.Authenticate(ctx, c.username, c.password)
			require.NoError(t, err)
			assert.Equal(t, id, user.ID)
			assert.NotEqual(t, c.password, user.PasswordHash)
			assert.Nil(t, user.LastPaymentDate)
			assert.Nil(t, user.ExpiryDate)
		})
	}
}

func TestMembershipService_SignUp(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		email      string
		setupMocks func(r *RepoMock)
		wantID     int64
		wantErr    error
	}{
		{
			name:     "success",
			username: "  alice ",
			password: "secret",
			email:    "alice@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Username == "alice" && u.Email == "alice@example.com" &&
						u.PasswordHash != "" && u.PasswordHash != "secret" &&
						u.LastPaymentDate == nil && u.ExpiryDate == nil
				})).Return(int64(5), nil).Once()
			},
			wantID: 5,
		},
		{
			name:       "empty username",
			username:   "   ",
			password:   "secret",
			email:      "alice@example.com",
			setupMocks: func(_ *RepoMock) {},
			wantErr:    models.ErrValidation,
		},
		{
			name:       "empty password",
			username:   "alice",
			email:      "alice@example.com",
			setupMocks: func(_ *RepoMock) {},
			wantErr:    models.ErrValidation,
		},
		{
			name:       "empty email",
			username:   "alice",
			password:   "secret",
			setupMocks: func(_ *RepoMock) {},
			wantErr:    models.ErrValidation,
		},
		{
			name:     "duplicate username detected on insert",
			username: "alice",
			password: "other",
			email:    "other@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(int64(0), fmt.Errorf("storage.CreateUser: %w", storage.ErrUserExists)).Once()
			},
			wantErr: models.ErrDuplicateUsername,
		},
		{
			name:     "storage failure",
			username: "alice",
			password: "secret",
			email:    "alice@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(int64(0), errors.New("connection refused")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := newTestService(repo)

			id, err := svc.SignUp(context.Background(), tt.username, tt.password, tt.email)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantID == 0:
				assert.Error(t, err)
				assert.False(t, errors.Is(err, models.ErrDuplicateUsername))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMembershipService_SignUpDuplicateAlwaysFails(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "alice", "first", "a@example.com")
	require.NoError(t, err)

	for i, c := range []struct{ password, email string }{
		{"first", "a@example.com"},
		{"second", "b@example.com"},
		{"third", "c@example.com"},
	} {
		_, err := svc.SignUp(ctx, "alice", c.password, c.email)
		assert.ErrorIsf(t, err, models.ErrDuplicateUsername, "attempt %d", i)
	}
}

func TestMembershipService_AuthenticateFailsUniformly(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "alice", "right", "a@example.com")
	require.NoError(t, err)

	_, unknownErr := svc.Authenticate(ctx, "nobody", "right")
	_, wrongErr := svc.Authenticate(ctx, "alice", "wrong")

	assert.ErrorIs(t, unknownErr, models.ErrAuthentication)
	assert.ErrorIs(t, wrongErr, models.ErrAuthentication)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	_, err = svc.Authenticate(ctx, "ALICE", "right")
	assert.ErrorIs(t, err, models.ErrAuthentication, "usernames are case sensitive")

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestMembershipService_AuthenticateStorageError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(nil, errors.New("db down")).Once()
	svc := newTestService(repo)

	_, err := svc.Authenticate(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrAuthentication))
	repo.AssertExpectations(t)
}

func TestMembershipService_RecordPayment(t *testing.T) {
	tests := []struct {
		name        string
		paymentDate string
		setupMocks  func(r *RepoMock)
		wantExpiry  time.Time
		wantErr     error
	}{
		{
			name:        "thirty days later",
			paymentDate: "2024-01-15",
			setupMocks: func(r *RepoMock) {
				r.On("UpdatePayment", mock.Anything, int64(1), day(2024, 1, 15), day(2024, 2, 14)).Return(nil).Once()
			},
			wantExpiry: day(2024, 2, 14),
		},
		{
			name:        "crosses leap day",
			paymentDate: "2024-02-10",
			setupMocks: func(r *RepoMock) {
				r.On("UpdatePayment", mock.Anything, int64(1), day(2024, 2, 10), day(2024, 3, 11)).Return(nil).Once()
			},
			wantExpiry: day(2024, 3, 11),
		},
		{
			name:        "crosses year",
			paymentDate: "2023-12-20",
			setupMocks: func(r *RepoMock) {
				r.On("UpdatePayment", mock.Anything, int64(1), day(2023, 12, 20), day(2024, 1, 19)).Return(nil).Once()
			},
			wantExpiry: day(2024, 1, 19),
		},
		{
			name:        "malformed date",
			paymentDate: "15-01-2024",
			setupMocks:  func(_ *RepoMock) {},
			wantErr:     models.ErrValidation,
		},
		{
			name:        "empty date",
			paymentDate: "",
			setupMocks:  func(_ *RepoMock) {},
			wantErr:     models.ErrValidation,
		},
		{
			name:        "user vanished",
			paymentDate: "2024-01-15",
			setupMocks: func(r *RepoMock) {
				r.On("UpdatePayment", mock.Anything, int64(1), mock.Anything, mock.Anything).
					Return(storage.ErrUserNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := newTestService(repo)

			payment, err := svc.RecordPayment(context.Background(), 1, tt.paymentDate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, payment)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.wantExpiry.Equal(payment.ExpiryDate))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMembershipService_RecordPaymentOverwrites(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	id, err := svc.SignUp(ctx, "alice", "secret", "a@example.com")
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, id, "2024-01-15")
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, id, "2024-03-01")
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user.LastPaymentDate)
	require.NotNil(t, user.ExpiryDate)
	assert.True(t, day(2024, 3, 1).Equal(*user.LastPaymentDate))
	assert.True(t, day(2024, 3, 31).Equal(*user.ExpiryDate))
}

func TestMembershipService_GetProfile(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	id, err := svc.SignUp(ctx, "alice", "secret", "a@example.com")
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	byID, err := svc.GetProfileByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = svc.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.GetProfileByID(ctx, id+100)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMembershipService_SeedDemoUserIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	demo := DemoAccount{Username: "user1", Password: "password123", Email: "user1@example.com"}
	now := time.Date(2024, 5, 3, 15, 4, 5, 0, time.UTC)

	for range 3 {
		require.NoError(t, svc.SeedDemoUser(ctx, demo, now))
	}
	assert.Len(t, repo.users, 1)

	user, err := svc.Authenticate(ctx, "user1", "password123")
	require.NoError(t, err)
	require.NotNil(t, user.LastPaymentDate)
	require.NotNil(t, user.ExpiryDate)
	assert.True(t, day(2024, 5, 3).Equal(*user.LastPaymentDate))
	assert.True(t, day(2025, 5, 3).Equal(*user.ExpiryDate))
}

func TestMembershipService_SeedDemoUserLostRace(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUserByUsername", mock.Anything, "user1").Return(nil, storage.ErrUserNotFound).Once()
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(int64(0), storage.ErrUserExists).Once()
	svc := newTestService(repo)

	err := svc.SeedDemoUser(context.Background(), DemoAccount{Username: "user1", Password: "p"}, time.Now())
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestExpiryFor(t *testing.T) {
	assert.Equal(t, day(2024, 2, 14), ExpiryFor(time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)))
}
