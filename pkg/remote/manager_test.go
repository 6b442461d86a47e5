package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/satchel/pkg/validate"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg: Config{
				RootIdentifier: "window",
				RootMap:        func(map[string]any, any) map[string]any { return nil },
			},
		},
		{
			name:    "missing identifier",
			cfg:     Config{RootMap: func(map[string]any, any) map[string]any { return nil }},
			wantErr: ErrRootIdentifierEmpty,
		},
		{
			name:    "missing root map func",
			cfg:     Config{RootIdentifier: "window"},
			wantErr: ErrRootMapFuncMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func managerFixture(t *testing.T) (*RootManager, map[string]any, map[string]any) {
	t.Helper()
	o1 := map[string]any{"owner": "window"}
	o2 := map[string]any{"owner": "moduleSlot"}
	cfg := Config{
		RootIdentifier: "window",
		RootMap: func(namespace map[string]any, module any) map[string]any {
			return map[string]any{"window": o1, "moduleSlot": o2}
		},
	}
	m, err := NewRootManager(cfg, nil, nil, "", "")
	require.NoError(t, err)
	return m, o1, o2
}

func TestNewRootManagerSelectsInitialRoot(t *testing.T) {
	m, o1, _ := managerFixture(t)
	assert.Equal(t, o1, m.Root())
}

func TestNewRootManagerExplicitIdentifierWins(t *testing.T) {
	o1 := map[string]any{}
	o2 := map[string]any{}
	cfg := Config{
		RootIdentifier: "window",
		RootMap: func(map[string]any, any) map[string]any {
			return map[string]any{"window": o1, "moduleSlot": o2}
		},
	}

	m, err := NewRootManager(cfg, nil, nil, "", "moduleSlot")
	require.NoError(t, err)
	root, ok := m.Root().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, len(o2), len(root))
}

func TestNewRootManagerInvalidConfigIsFatal(t *testing.T) {
	_, err := NewRootManager(Config{}, nil, nil, "", "")
	assert.ErrorIs(t, err, ErrRootIdentifierEmpty)
}

func TestNewRootManagerBadRootMapIsFatal(t *testing.T) {
	cfg := Config{
		RootIdentifier: "window",
		RootMap: func(map[string]any, any) map[string]any {
			return map[string]any{"window": "missing.path"}
		},
	}
	_, err := NewRootManager(cfg, map[string]any{}, nil, "", "")
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestNewRootManagerUnknownIdentifierIsFatal(t *testing.T) {
	cfg := Config{
		RootIdentifier: "ghost",
		RootMap: func(map[string]any, any) map[string]any {
			return map[string]any{"window": nil}
		},
	}
	_, err := NewRootManager(cfg, nil, nil, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, validate.ErrValidation)
}

func TestGetRootDoesNotMutateManager(t *testing.T) {
	m, o1, o2 := managerFixture(t)

	got, err := m.GetRoot("moduleSlot", validate.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, o2, got)
	assert.Equal(t, o1, m.Root(), "getRoot leaves the selected root untouched")
}

func TestSetRootMutatesManager(t *testing.T) {
	m, _, o2 := managerFixture(t)

	require.NoError(t, m.SetRoot("moduleSlot", validate.DefaultPolicy()))

	assert.Equal(t, o2, m.Root())
}

func TestSetRootOnMutatesCallerSlot(t *testing.T) {
	m, o1, o2 := managerFixture(t)
	var slot any

	require.NoError(t, m.SetRootOn("moduleSlot", &slot, validate.DefaultPolicy()))

	assert.Equal(t, o2, slot)
	assert.Equal(t, o1, m.Root(), "the manager's own root stays put")
}

func TestDetermineRootMissingKeyTriState(t *testing.T) {
	m, _, _ := managerFixture(t)

	t.Run("raising", func(t *testing.T) {
		_, err := m.DetermineRoot("ghost", validate.DefaultPolicy())
		require.Error(t, err)
		assert.ErrorIs(t, err, validate.ErrValidation)
		assert.ErrorContains(t, err, "a valid key in the root map")
	})

	t.Run("logging only", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		p := validate.Policy{Log: true, Level: zapcore.ErrorLevel, Logger: zap.New(core)}

		got, err := m.DetermineRoot("ghost", p)
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("silent returns nil sentinel", func(t *testing.T) {
		got, err := m.GetRoot("ghost", validate.Quiet())
		assert.NoError(t, err, "with both flags off no failure leaks")
		assert.Nil(t, got)
	})
}

func TestSetRootMissingKeyDoesNotClobberRoot(t *testing.T) {
	m, o1, _ := managerFixture(t)

	err := m.SetRoot("ghost", validate.Quiet())
	assert.NoError(t, err)
	assert.Equal(t, o1, m.Root(), "a failed lookup never assigns")
}

func TestRootMapNilEntryIsSelectable(t *testing.T) {
	cfg := Config{
		RootIdentifier: "window",
		RootMap: func(map[string]any, any) map[string]any {
			return map[string]any{"window": map[string]any{}, "detached": nil}
		},
	}
	m, err := NewRootManager(cfg, nil, nil, "", "")
	require.NoError(t, err)

	got, err := m.GetRoot("detached", validate.DefaultPolicy())
	assert.NoError(t, err, "a nil entry is a legitimate root value")
	assert.Nil(t, got)
}
