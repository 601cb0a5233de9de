package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
)

const (
	userKeyPrefix = "users:"
	sessionKey    = "session:current"
)

// Record is the stored value for one user: credentials plus the snapshot.
type Record struct {
	Password string          `json:"password"`
	Data     json.RawMessage `json:"data"`
}

// Repository loads and saves whole user snapshots.
type Repository struct {
	kv       KV
	log      *zap.Logger
	defaults Defaults
}

func NewRepository(kv KV, defaults Defaults, log *zap.Logger) *Repository {
	return &Repository{kv: kv, log: log, defaults: defaults}
}

func userKey(username string) string {
	return userKeyPrefix + username
}

func (r *Repository) record(ctx context.Context, username string) (*Record, error) {
	raw, err := r.kv.Get(ctx, userKey(username))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", apperr.UserNotFound, username)
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", username, err)
	}
	return &rec, nil
}

func (r *Repository) putRecord(ctx context.Context, username string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode user %s: %w", username, err)
	}
	return r.kv.Put(ctx, userKey(username), raw)
}

// Create stores a new user with an initial snapshot.
func (r *Repository) Create(ctx context.Context, username, password string, data *models.UserData) error {
	_, err := r.record(ctx, username)
	if err == nil {
		return fmt.Errorf("%w: %s", apperr.UsernameTaken, username)
	}
	if !errors.Is(err, apperr.UserNotFound) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := r.putRecord(ctx, username, &Record{Password: hash, Data: body}); err != nil {
		return err
	}
	r.log.Info("user created", zap.String("user", username))
	return nil
}

// Authenticate checks the password. Records holding a plain password (from
// the browser store) are rehashed on the first successful login.
func (r *Repository) Authenticate(ctx context.Context, username, password string) error {
	rec, err := r.record(ctx, username)
	if errors.Is(err, apperr.UserNotFound) {
		return apperr.InvalidCredentials
	}
	if err != nil {
		return err
	}

	ok, verr := VerifyPassword(rec.Password, password)
	if verr != nil {
		// legacy plaintext record
		if rec.Password != password {
			return apperr.InvalidCredentials
		}
		hash, err := HashPassword(password)
		if err != nil {
			return err
		}
		rec.Password = hash
		if err := r.putRecord(ctx, username, rec); err != nil {
			return err
		}
		r.log.Info("upgraded plaintext credentials", zap.String("user", username))
		return nil
	}
	if !ok {
		return apperr.InvalidCredentials
	}
	return nil
}

// Load returns the user's snapshot with migration defaults applied.
func (r *Repository) Load(ctx context.Context, username string) (*models.UserData, error) {
	rec, err := r.record(ctx, username)
	if err != nil {
		return nil, err
	}
	data, applied, err := DecodeSnapshot(rec.Data, r.defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %s: %w", username, err)
	}
	if len(applied) > 0 {
		r.log.Info("snapshot migrated", zap.String("user", username), zap.Strings("steps", applied))
	}
	return data, nil
}

// Save replaces the user's snapshot, keeping the stored credentials.
func (r *Repository) Save(ctx context.Context, username string, data *models.UserData) error {
	rec, err := r.record(ctx, username)
	if err != nil {
		return err
	}
	data.SchemaVersion = SchemaVersion
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	rec.Data = body
	if err := r.putRecord(ctx, username, rec); err != nil {
		r.log.Error("snapshot save failed", zap.String("user", username), zap.Error(err))
		return err
	}
	return nil
}

// DecodeSnapshot migrates a stored snapshot document and decodes it.
func DecodeSnapshot(raw []byte, d Defaults) (*models.UserData, []string, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, nil, err
		}
	}

	applied := Migrate(doc, d)

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, err
	}
	var data models.UserData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, nil, err
	}
	return &data, applied, nil
}

// CurrentUser returns the logged-in username, or NotLoggedIn.
func (r *Repository) CurrentUser(ctx context.Context) (string, error) {
	v, err := r.kv.Get(ctx, sessionKey)
	if errors.Is(err, ErrNotFound) || (err == nil && len(v) == 0) {
		return "", apperr.NotLoggedIn
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (r *Repository) SetCurrentUser(ctx context.Context, username string) error {
	return r.kv.Put(ctx, sessionKey, []byte(username))
}

func (r *Repository) ClearCurrentUser(ctx context.Context) error {
	if err := r.kv.Delete(ctx, sessionKey); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
