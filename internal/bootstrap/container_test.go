package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"note-service-be/internal/config"
	"note-service-be/internal/pkg/logger"
	"note-service-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenNoteStore(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.DatabaseConfig
		driver string
	}{
		{
			name:   "memory",
			cfg:    config.DatabaseConfig{Driver: config.DriverMemory, ConnectTimeout: time.Second},
			driver: "memory",
		},
		{
			name:   "bolt",
			cfg:    config.DatabaseConfig{Driver: config.DriverBolt, Path: filepath.Join(t.TempDir(), "notes.db"), ConnectTimeout: time.Second},
			driver: "bolt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenNoteStore(context.Background(), tt.cfg)
			require.NoError(t, err)
			defer store.Close(context.Background())

			assert.Equal(t, tt.driver, store.Driver())
			assert.Equal(t, contract.StateConnected, store.State())
		})
	}
}

func TestOpenNoteStoreUnknownDriver(t *testing.T) {
	_, err := OpenNoteStore(context.Background(), config.DatabaseConfig{Driver: "sqlite", ConnectTimeout: time.Second})
	assert.ErrorContains(t, err, `unknown DB_DRIVER "sqlite"`)
}

func TestNewContainerWithMemoryStore(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory, ConnectTimeout: time.Second},
		Events:   config.EventsConfig{Topic: "NOTE_EVENTS"},
	}

	c, err := NewContainer(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)

	assert.NotNil(t, c.NoteController)
	assert.NotNil(t, c.HealthController)
	assert.NotNil(t, c.ConsumerService)
	assert.Nil(t, c.natsPub)

	require.NoError(t, c.ConsumerService.Consume(context.Background()))
	assert.NoError(t, c.Close(context.Background()))
	assert.Equal(t, contract.StateDisconnected, c.NoteStore.State())
}
