package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"authapi/internal/entity"
	"authapi/internal/repository"
	"authapi/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

type fixture struct {
	users       *repository.MemoryUserRepository
	logs        *repository.MemorySecurityLogRepository
	hasher      *Argon2idHasher
	jwt         *utils.JWTManager
	clock       *fakeClock
	notifier    *mockNotifier
	logHook     *test.Hook
	credentials *CredentialService
	admin       *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newFakeClock()
	manager, err := utils.NewJWTManager(utils.TokenConfig{
		Secret:   []byte(testSecret),
		Issuer:   "authapi",
		Audience: "authapi-clients",
	})
	require.NoError(t, err)
	manager = manager.WithClock(clock.Now)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &fixture{
		users:    repository.NewMemoryUserRepository(),
		logs:     repository.NewMemorySecurityLogRepository(),
		hasher:   NewArgon2idHasher(Argon2Params{MemoryKiB: 1024, Time: 1, Threads: 1}),
		jwt:      manager,
		clock:    clock,
		notifier: &mockNotifier{},
		logHook:  hook,
	}
	f.credentials = NewCredentialService(
		f.users, f.logs, f.hasher, JWTTokenIssuer{Manager: manager}, f.notifier, clock, logger,
		CredentialConfig{ResetTokenTTL: 30 * time.Minute},
	)
	f.admin = NewUserService(f.users, f.logs, f.hasher, f.notifier, logger)
	return f
}

// seedUser stores a user directly, bypassing the welcome email.
func (f *fixture) seedUser(t *testing.T, username, email, password string, mustChange bool) *entity.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	user := &entity.User{
		Username:           username,
		Nome:               "Test " + username,
		Email:              email,
		Role:               entity.UserRoleUser,
		PasswordHash:       hash,
		MustChangePassword: mustChange,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) storedUser(t *testing.T, id int64) *entity.User {
	t.Helper()
	user, err := f.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func fixedCodes(codes ...string) ResetCodeGenerator {
	var mutex sync.Mutex
	index := 0
	return func() (string, error) {
		mutex.Lock()
		defer mutex.Unlock()
		code := codes[index%len(codes)]
		index++
		return code, nil
	}
}
