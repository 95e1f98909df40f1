package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
)

// DefaultOpTimeout bounds every store operation so a stuck backend surfaces as
// a transient failure instead of hanging the caller.
const DefaultOpTimeout = 5 * time.Second

// GormStore wraps a relational database and exposes the session, principal and
// product stores over it.
type GormStore struct {
	db        *gorm.DB
	opTimeout time.Duration
}

// Open connects to Postgres. TranslateError lets the store detect uniqueness
// violations through gorm.ErrDuplicatedKey regardless of driver.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

// Migrate creates or updates the backing tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&principalRow{}, &sessionRow{}, &productRow{})
}

// NewGormStore wraps an open database handle. A non-positive opTimeout falls
// back to DefaultOpTimeout.
func NewGormStore(db *gorm.DB, opTimeout time.Duration) *GormStore {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &GormStore{db: db, opTimeout: opTimeout}
}

// Sessions returns the session-record store view.
func (s *GormStore) Sessions() ports.SessionStore { return &gormSessions{s} }

// Principals returns the principal store view.
func (s *GormStore) Principals() ports.PrincipalStore { return &gormPrincipals{s} }

// Products returns the product store view.
func (s *GormStore) Products() ports.ProductStore { return &gormProducts{s} }

func (s *GormStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// translate maps low-level persistence failures into the error taxonomy once,
// at this boundary. Callers above the store never see raw driver errors.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return core.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return core.WrapError(err, core.KindConflict, "duplicate value on unique field")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return core.WrapError(err, core.KindStoreUnavailable, "%s timed out", op)
	default:
		return core.WrapError(err, core.KindStoreUnavailable, "%s failed", op)
	}
}

type gormSessions struct{ *GormStore }

// Create inserts a new active session record and returns its identifier.
func (s *gormSessions) Create(ctx context.Context, principalID, secretHash string, expiresAt time.Time) (string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	row := sessionRow{
		ID:          uuid.New().String(),
		PrincipalID: principalID,
		SecretHash:  secretHash,
		ExpiresAt:   expiresAt,
		Revoked:     false,
		CreatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", translate(err, "create session")
	}
	return row.ID, nil
}

// FindActive returns every non-revoked session record for the principal.
func (s *gormSessions) FindActive(ctx context.Context, principalID string) ([]core.SessionRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var rows []sessionRow
	err := s.db.WithContext(ctx).
		Where("principal_id = ? AND revoked = ?", principalID, false).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "find sessions")
	}
	records := make([]core.SessionRecord, len(rows))
	for i, r := range rows {
		records[i] = r.toCore()
	}
	return records, nil
}

// RevokeIfActive performs the compare-and-swap: a single UPDATE guarded on the
// prior state. The database serializes concurrent attempts, so exactly one of
// two racing callers observes rows-affected 1.
func (s *gormSessions) RevokeIfActive(ctx context.Context, recordID string) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).
		Model(&sessionRow{}).
		Where("id = ? AND revoked = ?", recordID, false).
		Update("revoked", true)
	if res.Error != nil {
		return false, translate(res.Error, "revoke session")
	}
	return res.RowsAffected == 1, nil
}

// RevokeAll revokes every active session record for the principal.
func (s *gormSessions) RevokeAll(ctx context.Context, principalID string) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).
		Model(&sessionRow{}).
		Where("principal_id = ? AND revoked = ?", principalID, false).
		Update("revoked", true)
	if res.Error != nil {
		return 0, translate(res.Error, "revoke sessions")
	}
	return res.RowsAffected, nil
}

type gormPrincipals struct{ *GormStore }

// Create inserts a principal; a duplicate email surfaces as a conflict via the
// translated duplicate-key error.
func (s *gormPrincipals) Create(ctx context.Context, p *core.Principal) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	row := principalRow{
		ID:           p.ID,
		Email:        p.Email,
		Name:         p.Name,
		Role:         string(p.Role),
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
	}
	return translate(s.db.WithContext(ctx).Create(&row).Error, "create principal")
}

// FindByEmail returns the principal with the given email, or (nil, nil) when
// none exists.
func (s *gormPrincipals) FindByEmail(ctx context.Context, email string) (*core.Principal, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var row principalRow
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "find principal")
	}
	p := row.toCore()
	return &p, nil
}

// FindByID returns the principal with the given id, or (nil, nil) when none
// exists.
func (s *gormPrincipals) FindByID(ctx context.Context, id string) (*core.Principal, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var row principalRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "find principal")
	}
	p := row.toCore()
	return &p, nil
}

// List returns all principals, newest first.
func (s *gormPrincipals) List(ctx context.Context) ([]core.Principal, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var rows []principalRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, "list principals")
	}
	out := make([]core.Principal, len(rows))
	for i, r := range rows {
		out[i] = r.toCore()
	}
	return out, nil
}

// Delete removes a principal. Missing rows surface as core.ErrNotFound.
func (s *gormPrincipals) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&principalRow{})
	if res.Error != nil {
		return translate(res.Error, "delete principal")
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

type gormProducts struct{ *GormStore }

// Create inserts a catalog entry.
func (s *gormProducts) Create(ctx context.Context, p *core.Product) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	row := productToRow(p)
	return translate(s.db.WithContext(ctx).Create(&row).Error, "create product")
}

// GetByID returns the product with the given id.
func (s *gormProducts) GetByID(ctx context.Context, id string) (*core.Product, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var row productRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, translate(err, "find product")
	}
	p := row.toCore()
	return &p, nil
}

// List returns all products, newest first.
func (s *gormProducts) List(ctx context.Context) ([]core.Product, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var rows []productRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, "list products")
	}
	out := make([]core.Product, len(rows))
	for i, r := range rows {
		out[i] = r.toCore()
	}
	return out, nil
}

// Update writes the full row. Callers pass the complete entity after a read,
// and Select("*") makes gorm persist zero values (empty description, zero
// stock) instead of skipping them.
func (s *gormProducts) Update(ctx context.Context, p *core.Product) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	row := productToRow(p)
	res := s.db.WithContext(ctx).Model(&productRow{ID: p.ID}).Select("*").Updates(&row)
	if res.Error != nil {
		return translate(res.Error, "update product")
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Delete removes a catalog entry.
func (s *gormProducts) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&productRow{})
	if res.Error != nil {
		return translate(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}
