package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tin21habesha/primetrade.ai-backend/adapters/hasher"
	"github.com/Tin21habesha/primetrade.ai-backend/adapters/store"
	"github.com/Tin21habesha/primetrade.ai-backend/adapters/tokenizer"
	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishLogout(ctx context.Context, principalID string, revoked int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, principalID)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type authFixture struct {
	svc    *AuthService
	store  *store.MemoryStore
	events *recordingPublisher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tok, err := tokenizer.NewJWTTokenizer(tokenizer.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "test",
	})
	require.NoError(t, err)

	h, err := hasher.NewBcryptHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)
	t.Cleanup(h.Close)

	mem := store.NewMemoryStore()
	events := &recordingPublisher{}
	svc := NewAuthService(mem.Principals(), mem.Sessions(), tok, h, events, zerolog.Nop())
	return &authFixture{svc: svc, store: mem, events: events}
}

func (f *authFixture) register(t *testing.T) *AuthResult {
	t.Helper()
	result, err := f.svc.Register(context.Background(), "alice@example.com", "password1", "Alice", core.RoleUser)
	require.NoError(t, err)
	return result
}

func TestRegister_IssuesWorkingPair(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)

	assert.Equal(t, "alice@example.com", result.Principal.Email)
	assert.Equal(t, core.RoleUser, result.Principal.Role)
	assert.NotEmpty(t, result.Pair.AccessToken)
	assert.NotEmpty(t, result.Pair.RefreshToken)

	claims, err := f.svc.CurrentSession(result.Pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.Principal.ID, claims.PrincipalID)

	// Both credentials carry the same identity.
	refreshed, err := f.svc.Refresh(context.Background(), result.Pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.Principal.ID, refreshed.Principal.ID)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.Register(context.Background(), "  Bob@Example.COM ", "password1", "Bob", "")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", result.Principal.Email)
	assert.Equal(t, core.RoleUser, result.Principal.Role)
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "", "password1", "Alice", core.RoleUser)
	assert.Equal(t, core.KindValidation, core.KindOf(err))

	_, err = f.svc.Register(ctx, "a@example.com", "short", "Alice", core.RoleUser)
	assert.Equal(t, core.KindValidation, core.KindOf(err))

	_, err = f.svc.Register(ctx, "a@example.com", "password1", "Alice", core.Role("ROOT"))
	assert.Equal(t, core.KindValidation, core.KindOf(err))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.svc.Register(context.Background(), "alice@example.com", "password2", "Other", core.RoleUser)
	require.Error(t, err)
	assert.Equal(t, core.KindConflict, core.KindOf(err))
}

func TestLogin_RoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	result, err := f.svc.Login(context.Background(), "alice@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", result.Principal.Email)
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)
	ctx := context.Background()

	_, wrongPassword := f.svc.Login(ctx, "alice@example.com", "wrong-password")
	require.Error(t, wrongPassword)

	_, unknownEmail := f.svc.Login(ctx, "nobody@example.com", "password1")
	require.Error(t, unknownEmail)

	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, core.KindAuthentication, core.KindOf(wrongPassword))
	assert.Equal(t, core.KindAuthentication, core.KindOf(unknownEmail))
}

func TestRefresh_RotatesAndInvalidatesOld(t *testing.T) {
	f := newAuthFixture(t)
	first := f.register(t)
	ctx := context.Background()

	second, err := f.svc.Refresh(ctx, first.Pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.Pair.RefreshToken, second.Pair.RefreshToken)

	// The consumed credential must not rotate again.
	_, err = f.svc.Refresh(ctx, first.Pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, core.KindSessionInvalid, core.KindOf(err))

	// The replacement still works.
	_, err = f.svc.Refresh(ctx, second.Pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_ConcurrentSingleWinner(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	outcomes := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Refresh(ctx, result.Pair.RefreshToken)
			outcomes <- err
		}()
	}
	wg.Wait()
	close(outcomes)

	var wins, losses int
	for err := range outcomes {
		if err == nil {
			wins++
		} else {
			assert.Equal(t, core.KindSessionInvalid, core.KindOf(err))
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, losses)
}

func TestRefresh_RejectsTamperedToken(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)

	tampered := []byte(result.Pair.RefreshToken)
	tampered[len(tampered)-1] ^= 0x01

	_, err := f.svc.Refresh(context.Background(), string(tampered))
	require.Error(t, err)
	assert.Equal(t, core.KindSessionInvalid, core.KindOf(err))
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)

	_, err := f.svc.Refresh(context.Background(), result.Pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, core.KindSessionInvalid, core.KindOf(err))
}

func TestRefresh_EmptyToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, core.KindSessionInvalid, core.KindOf(err))
}

func TestLogout_RevokesEverySession(t *testing.T) {
	f := newAuthFixture(t)
	first := f.register(t)
	ctx := context.Background()

	// A second device logs in.
	second, err := f.svc.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, first.Pair.RefreshToken))

	_, err = f.svc.Refresh(ctx, first.Pair.RefreshToken)
	require.Error(t, err)
	_, err = f.svc.Refresh(ctx, second.Pair.RefreshToken)
	require.Error(t, err)

	assert.Equal(t, 1, f.events.count())
}

func TestLogout_IdempotentOnGarbage(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Logout(ctx, ""))
	require.NoError(t, f.svc.Logout(ctx, "not-a-token"))
	assert.Equal(t, 0, f.events.count())
}

func TestLogout_NoEventWhenNothingRevoked(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Logout(ctx, result.Pair.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, result.Pair.RefreshToken))

	// The second call found nothing active, so only one event fires.
	assert.Equal(t, 1, f.events.count())
}

func TestCurrentSession_RejectsRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t)

	_, err := f.svc.CurrentSession(result.Pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, core.KindAuthentication, core.KindOf(err))
}

func TestCurrentSession_EmptyToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.CurrentSession("")
	require.Error(t, err)
	assert.Equal(t, core.KindAuthentication, core.KindOf(err))
}
