package firebase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAuthClient_RequiresCredentials(t *testing.T) {
	_, err := NewAuthClient(context.Background(), "")
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewAuthClient(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
