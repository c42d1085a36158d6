package settings

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() *Service {
	return NewService(repo.NewMemoryStore(), zap.NewNop())
}

func TestTyped(t *testing.T) {
	tests := []struct {
		name string
		in   models.Setting
		want any
	}{
		{"string", models.Setting{Type: models.SettingString, Value: "abc"}, "abc"},
		{"number", models.Setting{Type: models.SettingNumber, Value: "12.5"}, 12.5},
		{"bad number", models.Setting{Type: models.SettingNumber, Value: "lots"}, float64(0)},
		{"bool yes", models.Setting{Type: models.SettingBoolean, Value: "yes"}, true},
		{"bool on", models.Setting{Type: models.SettingBoolean, Value: "ON"}, true},
		{"bool 1", models.Setting{Type: models.SettingBoolean, Value: "1"}, true},
		{"bool other", models.Setting{Type: models.SettingBoolean, Value: "enabled"}, false},
		{"json", models.Setting{Type: models.SettingJSON, Value: `{"a":1}`}, map[string]any{"a": float64(1)}},
		{"bad json", models.Setting{Type: models.SettingJSON, Value: `{`}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Typed(tt.in))
		})
	}
}

func TestService_MissingKeyReturnsDefault(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	assert.Equal(t, "fallback", s.String(ctx, "nope", "fallback"))
	assert.Equal(t, 3.0, s.Number(ctx, "nope", 3))
	assert.True(t, s.Bool(ctx, "nope", true))
	assert.Nil(t, s.Value(ctx, "nope", nil))
}

func TestService_SetCoercesToDeclaredType(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	admin := 1

	st, err := s.Set(ctx, KeyExcessLimit, "250", models.SettingNumber, "", &admin)
	require.NoError(t, err)
	assert.Equal(t, "250", st.Value)
	assert.Equal(t, 250.0, s.Number(ctx, KeyExcessLimit, 0))
	assert.Equal(t, &admin, st.UpdatedBy)

	_, err = s.Set(ctx, KeyExcessLimit, "many", "", "", nil)
	assert.ErrorIs(t, err, ErrInvalidSetting)

	_, err = s.Set(ctx, KeyLowStockAlerts, false, models.SettingBoolean, "", nil)
	require.NoError(t, err)
	assert.False(t, s.Bool(ctx, KeyLowStockAlerts, true))

	_, err = s.Set(ctx, "notificacion_destinos", []string{"a@b.c"}, models.SettingJSON, "", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"a@b.c"}, s.Value(ctx, "notificacion_destinos", nil))
}

func TestService_SeedDefaultsKeepsExistingValues(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Set(ctx, KeyQRBaseURL, "https://example.test", models.SettingString, "", nil)
	require.NoError(t, err)

	added, err := s.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(defaults)-1, added)
	assert.Equal(t, "https://example.test", s.String(ctx, KeyQRBaseURL, ""))
	assert.Equal(t, 1000.0, s.Number(ctx, KeyExcessLimit, 0))

	again, err := s.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again)
}

func TestService_GroupStripsPrefix(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	_, err := s.SeedDefaults(ctx)
	require.NoError(t, err)

	group, err := s.Group(ctx, "sistema_")
	require.NoError(t, err)
	assert.Equal(t, true, group["alerta_stock_minimo"])
	assert.Equal(t, "es", group["idioma"])
	_, hasCompany := group["nombre"]
	assert.False(t, hasCompany)
}
