package redissvc

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyAddr(t *testing.T) {
	_, err := Connect(context.Background(), Options{})
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	svc, err := Connect(context.Background(), Options{Addr: addr})
	require.NoError(t, err)
	defer svc.Close()

	assert.NoError(t, svc.Rdb().Ping(context.Background()).Err())
}
