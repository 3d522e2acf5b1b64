package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
	"github.com/shandysiswandi/gosso/internal/pkg/hash"
	"github.com/shandysiswandi/gosso/internal/pkg/idempotency"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/jwt"
	"github.com/shandysiswandi/gosso/internal/pkg/mfa"
	"github.com/shandysiswandi/gosso/internal/pkg/storage"
	"github.com/shandysiswandi/gosso/internal/pkg/totp"
	"github.com/shandysiswandi/gosso/internal/pkg/validator"
)

// memRepo is an in-memory repoDB used across the usecase tests.
type memRepo struct {
	mu       sync.Mutex
	users    map[int64]*entity.User
	deleted  []entity.DeletedUser
	sessions map[string]*entity.Session
	confs    map[string]*entity.EmailConfirmation
	resets   map[string]*entity.PasswordReset
	otps     map[string]time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:    map[int64]*entity.User{},
		sessions: map[string]*entity.Session{},
		confs:    map[string]*entity.EmailConfirmation{},
		resets:   map[string]*entity.PasswordReset{},
		otps:     map[string]time.Time{},
	}
}

func (m *memRepo) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, goerror.ErrNotFound
}

func (m *memRepo) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (m *memRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (m *memRepo) CreateUser(_ context.Context, user entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return goerror.ErrConflict
		}
	}
	m.users[user.ID] = &user
	return nil
}

func (m *memRepo) CountUsersByField(_ context.Context, field entity.UniqueField, value string, excludeID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, u := range m.users {
		if u.ID == excludeID {
			continue
		}
		if (field == entity.UniqueFieldUsername && u.Username == value) ||
			(field == entity.UniqueFieldEmail && u.Email == value) {
			count++
		}
	}
	return count, nil
}

func (m *memRepo) mutateUser(id int64, fn func(*entity.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return goerror.ErrNotFound
	}
	fn(u)
	return nil
}

func (m *memRepo) UpdateUserPassword(_ context.Context, id int64, hashed, salt []byte) error {
	return m.mutateUser(id, func(u *entity.User) {
		u.PasswordHash, u.PasswordSalt = hashed, salt
	})
}

func (m *memRepo) UpdateUserTOTPSecret(_ context.Context, id int64, secret []byte) error {
	return m.mutateUser(id, func(u *entity.User) {
		u.TOTPSecret = secret
		u.TOTPConfirmed = false
		u.FailedTOTPAttempts = 0
	})
}

func (m *memRepo) SetUserTOTPConfirmed(_ context.Context, id int64) error {
	return m.mutateUser(id, func(u *entity.User) {
		u.TOTPConfirmed = true
		u.FailedTOTPAttempts = 0
	})
}

func (m *memRepo) IncrementFailedTOTPAttempts(_ context.Context, id int64) (int32, error) {
	var attempts int32
	err := m.mutateUser(id, func(u *entity.User) {
		u.FailedTOTPAttempts++
		attempts = u.FailedTOTPAttempts
	})
	return attempts, err
}

func (m *memRepo) SetUserEmailConfirmed(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u.EmailConfirmed = true
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (m *memRepo) UpdateUserAvatar(_ context.Context, id int64, avatarURL string) error {
	return m.mutateUser(id, func(u *entity.User) { u.AvatarURL = avatarURL })
}

func (m *memRepo) MoveUserToDeleted(_ context.Context, user *entity.User, deletedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return goerror.ErrNotFound
	}
	m.deleted = append(m.deleted, entity.DeletedUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		DeletedAt: deletedAt,
	})
	delete(m.users, user.ID)
	for token, s := range m.sessions {
		if s.Username == user.Username {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *memRepo) CreateSession(_ context.Context, in entity.Session) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[in.Token] = &in
	cp := in
	return &cp, nil
}

func (m *memRepo) FindSessionByToken(_ context.Context, token string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, goerror.ErrNotFound
}

func (m *memRepo) SetSessionAuthenticated(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		s.Authenticated = true
		return nil
	}
	return goerror.ErrNotFound
}

func (m *memRepo) DeleteSessionByToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return goerror.ErrNotFound
	}
	delete(m.sessions, token)
	return nil
}

func (m *memRepo) DeleteSessionsByUsername(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.Username == username {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *memRepo) CreateEmailConfirmation(_ context.Context, in entity.EmailConfirmation) (*entity.EmailConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confs[in.Token] = &in
	cp := in
	return &cp, nil
}

func (m *memRepo) FindEmailConfirmationByToken(_ context.Context, token string) (*entity.EmailConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.confs[token]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, goerror.ErrNotFound
}

func (m *memRepo) DeleteEmailConfirmationByToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.confs[token]; !ok {
		return goerror.ErrNotFound
	}
	delete(m.confs, token)
	return nil
}

func (m *memRepo) DeleteEmailConfirmationsByEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, c := range m.confs {
		if c.Email == email {
			delete(m.confs, token)
		}
	}
	return nil
}

func (m *memRepo) ConfirmEmail(ctx context.Context, email, token string) error {
	if err := m.SetUserEmailConfirmed(ctx, email); err != nil {
		return err
	}
	return m.DeleteEmailConfirmationByToken(ctx, token)
}

func (m *memRepo) CreatePasswordReset(_ context.Context, in entity.PasswordReset) (*entity.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[in.Token] = &in
	cp := in
	return &cp, nil
}

func (m *memRepo) FindPasswordResetByToken(_ context.Context, token string) (*entity.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resets[token]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, goerror.ErrNotFound
}

func (m *memRepo) DeletePasswordResetByToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resets[token]; !ok {
		return goerror.ErrNotFound
	}
	delete(m.resets, token)
	return nil
}

func (m *memRepo) DeletePasswordResetsByEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, r := range m.resets {
		if r.Email == email {
			delete(m.resets, token)
		}
	}
	return nil
}

func (m *memRepo) ResetUserPassword(ctx context.Context, userID int64, hashed, salt []byte, resetToken string) error {
	if err := m.UpdateUserPassword(ctx, userID, hashed, salt); err != nil {
		return err
	}
	return m.DeletePasswordResetByToken(ctx, resetToken)
}

func (m *memRepo) MarkTOTPCodeUsed(_ context.Context, claim entity.UsedTOTPCode) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d:%s", claim.UserID, claim.Code)
	if _, ok := m.otps[key]; ok {
		return false, nil
	}
	m.otps[key] = claim.UsedAt
	return true, nil
}

func (m *memRepo) PruneUsedTOTPCodes(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pruned int64
	for key, at := range m.otps {
		if at.Before(before) {
			delete(m.otps, key)
			pruned++
		}
	}
	return pruned, nil
}

func (m *memRepo) PruneExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pruned int64
	for token, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, token)
			pruned++
		}
	}
	for token, c := range m.confs {
		if !c.ExpiresAt.After(now) {
			delete(m.confs, token)
			pruned++
		}
	}
	for token, r := range m.resets {
		if !r.ExpiresAt.After(now) {
			delete(m.resets, token)
			pruned++
		}
	}
	return pruned, nil
}

// memMessaging records published events.
type memMessaging struct {
	mu         sync.Mutex
	registered []UserRegisteredEvent
	resets     []PasswordResetRequestedEvent
	err        error
}

func (m *memMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.registered = append(m.registered, msg)
	return nil
}

func (m *memMessaging) PublishPasswordResetRequested(_ context.Context, msg PasswordResetRequestedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.resets = append(m.resets, msg)
	return nil
}

// passIdemp runs the wrapped function directly.
type passIdemp struct{}

func (passIdemp) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}
func (passIdemp) MarkCompleted(context.Context, string, time.Duration) error { return nil }
func (passIdemp) MarkFailed(context.Context, string, time.Duration) error    { return nil }
func (passIdemp) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	return fn(ctx)
}

// dupIdemp rejects every execution as a duplicate.
type dupIdemp struct{ passIdemp }

func (dupIdemp) Exec(context.Context, string, func(context.Context) error, ...idempotency.Option) error {
	return idempotency.ErrAlreadyInProgress
}

// memStorage is an in-memory object store.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Close() error { return nil }

func (m *memStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data)), ContentType: opts.ContentType}, nil
}

func (m *memStorage) StatObject(_ context.Context, bucket, key string) (storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return storage.ObjectInfo{}, goerror.ErrNotFound
	}
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (m *memStorage) DeleteObject(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memStorage) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + bucket + "/" + key + "?sig=abc", nil
}

// cfgStub serves config values from a flat map. Duration getters treat the
// value as the raw count in the key's unit.
type cfgStub struct{ values map[string]any }

func (c cfgStub) Close() error { return nil }
func (c cfgStub) GetInt(key string) int {
	if v, ok := c.values[key].(int); ok {
		return v
	}
	return 0
}
func (c cfgStub) GetInt64(key string) int64   { return int64(c.GetInt(key)) }
func (c cfgStub) GetUint(key string) uint     { return uint(c.GetInt(key)) }
func (c cfgStub) GetUint64(key string) uint64 { return uint64(c.GetInt(key)) }
func (c cfgStub) GetSecond(key string) time.Duration {
	return time.Duration(c.GetInt(key)) * time.Second
}
func (c cfgStub) GetMinute(key string) time.Duration {
	return time.Duration(c.GetInt(key)) * time.Minute
}
func (c cfgStub) GetHour(key string) time.Duration {
	return time.Duration(c.GetInt(key)) * time.Hour
}
func (c cfgStub) GetDay(key string) time.Duration {
	return time.Duration(c.GetInt(key)) * 24 * time.Hour
}
func (c cfgStub) GetBool(key string) bool {
	if v, ok := c.values[key].(bool); ok {
		return v
	}
	return false
}
func (c cfgStub) GetString(key string) string {
	if v, ok := c.values[key].(string); ok {
		return v
	}
	return ""
}
func (c cfgStub) GetBinary(string) []byte { return nil }
func (c cfgStub) GetArray(key string) []string {
	if v, ok := c.values[key].(string); ok {
		return strings.Split(v, ",")
	}
	return nil
}

// stubClock returns a fixed, advanceable time.
type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seqNumberID hands out sequential int64 ids.
type seqNumberID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqNumberID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// seqStringID hands out deterministic token values.
type seqStringID struct {
	mu   sync.Mutex
	next int
}

func (s *seqStringID) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("token-%04d", s.next)
}

type fixture struct {
	uc      *Usecase
	repo    *memRepo
	mq      *memMessaging
	store   *memStorage
	clock   *stubClock
	totpEng totp.TOTP
}

func newFixture(t *testing.T, overrides map[string]any) *fixture {
	t.Helper()
	return newFixtureIdemp(t, overrides, passIdemp{})
}

func newFixtureIdemp(t *testing.T, overrides map[string]any, idemp idempotency.Idempotency) *fixture {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	values := map[string]any{
		"modules.identity.session_ttl_minutes":          60,
		"modules.identity.email_confirmation_ttl_hours": 48,
		"modules.identity.password_reset_ttl_minutes":   30,
		"modules.identity.register_lock_seconds":        60,
		"modules.identity.totp_max_failed_attempts":     3,
		"modules.identity.avatar_url_ttl_hours":         24,
		"modules.identity.avatar_bucket":                "avatars",
	}
	for k, v := range overrides {
		values[k] = v
	}

	clk := &stubClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}

	signer, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("k", 64)),
		Issuer: "gosso-test",
		TTL:    15 * time.Minute,
		Clock:  clk,
		UUID:   &seqStringID{},
	})
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	repo := newMemRepo()
	mq := &memMessaging{}
	store := newMemStorage()
	engine := totp.NewEngine("gosso-test", 30, 30, otp.DigitsSix, 10)

	uc := New(Dependency{
		RepoDB:        repo,
		RepoMessaging: mq,
		Idempotency:   idemp,
		Validator:     v10,
		Config:        cfgStub{values: values},
		Storage:       store,
		HMAC:          hash.NewHMACSHA256("test-hmac-secret"),
		Password:      hash.NewPBKDF2(1000),
		MFAEncryptor:  mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: []byte("0123456789abcdef0123456789abcdef")}),
		UID:           &seqNumberID{},
		UUID:          &seqStringID{},
		Totp:          engine,
		Clock:         clk,
		JWT:           signer,
		Instrument:    instrument.NewNoop(),
	})

	return &fixture{uc: uc, repo: repo, mq: mq, store: store, clock: clk, totpEng: engine}
}

// registerUser creates a confirmed account directly through the usecase.
func (f *fixture) registerUser(t *testing.T, username, email, password string) *entity.User {
	t.Helper()

	out, err := f.uc.CreateUser(context.Background(), CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Verified: true,
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return out.User
}

// authContext returns a context carrying the user's identity, as the router
// middleware would after verifying a session.
func authContext(user *entity.User, sessionToken string) context.Context {
	return entity.SetAuth(context.Background(), entity.Auth{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		SessionToken: sessionToken,
	})
}

// enableTotp provisions and confirms an authenticator for the user,
// returning a code generator bound to the provisioned secret.
func (f *fixture) enableTotp(t *testing.T, user *entity.User) func(at time.Time) string {
	t.Helper()

	ctx := authContext(user, "")
	out, err := f.uc.GenerateTotpSecret(ctx)
	if err != nil {
		t.Fatalf("GenerateTotpSecret() error = %v", err)
	}

	code, err := f.totpEng.GenerateCode(out.Secret, f.clock.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if err := f.uc.ConfirmTotp(ctx, ConfirmTotpInput{Code: code}); err != nil {
		t.Fatalf("ConfirmTotp() error = %v", err)
	}

	return func(at time.Time) string {
		cd, err := f.totpEng.GenerateCode(out.Secret, at)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		return cd
	}
}

// wantCode asserts err is a structured error carrying the given code.
func wantCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *goerror.Error", err)
	}
	if gerr.Code() != code {
		t.Fatalf("error code = %v, want %v", gerr.Code(), code)
	}
}
