// Package settings is the typed key-value configuration kept in the store and editable at runtime.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"go.uber.org/zap"
)

var ErrInvalidSetting = errors.New("invalid setting")

type Service struct {
	store  repo.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store repo.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Typed converts the stored text to the setting's declared type.
// Unparseable numbers read as 0 and unparseable JSON as nil.
func Typed(s models.Setting) any {
	switch s.Type {
	case models.SettingNumber:
		v, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
		if err != nil {
			return float64(0)
		}
		return v
	case models.SettingBoolean:
		return parseBool(s.Value)
	case models.SettingJSON:
		var v any
		if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
			return nil
		}
		return v
	default:
		return s.Value
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// Encode renders value as stored text for the given type.
func Encode(value any, typ models.SettingType) (string, error) {
	switch typ {
	case models.SettingString:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return fmt.Sprint(value), nil
	case models.SettingNumber:
		switch v := value.(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return "", fmt.Errorf("%w: %q is not a number", ErrInvalidSetting, v)
			}
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
		return "", fmt.Errorf("%w: %v is not a number", ErrInvalidSetting, value)
	case models.SettingBoolean:
		switch v := value.(type) {
		case bool:
			return strconv.FormatBool(v), nil
		case string:
			return strconv.FormatBool(parseBool(v)), nil
		case float64:
			return strconv.FormatBool(v != 0), nil
		}
		return "", fmt.Errorf("%w: %v is not a boolean", ErrInvalidSetting, value)
	case models.SettingJSON:
		out, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidSetting, err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidSetting, typ)
}

func (s *Service) lookup(ctx context.Context, key string) (models.Setting, bool) {
	st, err := s.store.Repos().Settings.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repo.ErrSettingNotFound) {
			s.logger.Warn("could not read setting", zap.String("key", key), zap.Error(err))
		}
		return models.Setting{}, false
	}
	return st, true
}

// Value returns the typed value of key, or def when the key does not exist.
func (s *Service) Value(ctx context.Context, key string, def any) any {
	st, ok := s.lookup(ctx, key)
	if !ok {
		return def
	}
	return Typed(st)
}

func (s *Service) String(ctx context.Context, key, def string) string {
	st, ok := s.lookup(ctx, key)
	if !ok {
		return def
	}
	return st.Value
}

func (s *Service) Number(ctx context.Context, key string, def float64) float64 {
	if v, ok := s.Value(ctx, key, def).(float64); ok {
		return v
	}
	return def
}

func (s *Service) Bool(ctx context.Context, key string, def bool) bool {
	if v, ok := s.Value(ctx, key, def).(bool); ok {
		return v
	}
	return def
}

func (s *Service) Get(ctx context.Context, key string) (models.Setting, error) {
	return s.store.Repos().Settings.Get(ctx, key)
}

func (s *Service) List(ctx context.Context) ([]models.Setting, error) {
	return s.store.Repos().Settings.List(ctx, "")
}

// Set stores value under key. An empty typ keeps the existing type, or string for new keys.
func (s *Service) Set(ctx context.Context, key string, value any, typ models.SettingType, description string, userID *int) (models.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.Setting{}, fmt.Errorf("%w: key is required", ErrInvalidSetting)
	}
	if typ != "" && !typ.Valid() {
		return models.Setting{}, fmt.Errorf("%w: unknown type %q", ErrInvalidSetting, typ)
	}

	var saved models.Setting
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		st, err := r.Settings.Get(ctx, key)
		if err != nil && !errors.Is(err, repo.ErrSettingNotFound) {
			return err
		}
		if err != nil {
			st = models.Setting{Key: key, Type: models.SettingString}
		}
		if typ != "" {
			st.Type = typ
		}
		if description != "" {
			st.Description = description
		}

		st.Value, err = Encode(value, st.Type)
		if err != nil {
			return err
		}
		st.UpdatedAt = s.now()
		st.UpdatedBy = userID

		saved, err = r.Settings.Upsert(ctx, st)
		return err
	})
	if err != nil {
		return models.Setting{}, err
	}

	s.logger.Info("setting updated", zap.String("key", key), zap.String("type", string(saved.Type)))
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	return s.store.Repos().Settings.Delete(ctx, key)
}

// Group returns the typed settings under prefix, keyed without the prefix.
func (s *Service) Group(ctx context.Context, prefix string) (map[string]any, error) {
	list, err := s.store.Repos().Settings.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(list))
	for _, st := range list {
		out[strings.TrimPrefix(st.Key, prefix)] = Typed(st)
	}
	return out, nil
}

// SeedDefaults inserts the built-in settings that are missing and returns how many were added.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	added := 0
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		for _, d := range defaults {
			ok, err := r.Settings.CreateIfMissing(ctx, models.Setting{
				Key:         d.key,
				Value:       d.value,
				Description: d.description,
				Type:        d.typ,
				UpdatedAt:   s.now(),
			})
			if err != nil {
				return fmt.Errorf("seed %s: %w", d.key, err)
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
