package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func slowGuildServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		switch r.URL.Path {
		case "/guilds/111222333/members":
			_, _ = w.Write([]byte(`[{"nick":"Cap","user":{"id":"1","username":"cap"}}]`))
		case "/guilds/111222333/roles":
			_, _ = w.Write([]byte(`[{"id":"10","name":"Marketing"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestStartDoesNotBlockOnSlowAPI(t *testing.T) {
	server := slowGuildServer(t, 300*time.Millisecond)
	mappings := NewMappingService(newTestClient(server.URL), time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	begun := time.Now()
	mappings.Start(ctx)
	elapsed := time.Since(begun)

	assert.Less(t, elapsed, 100*time.Millisecond)
	assert.Equal(t, "Unknown User", mappings.Nickname("1"))

	// The background refresh still lands.
	assert.Eventually(t, func() bool {
		return mappings.Nickname("1") == "Cap" && mappings.RoleName("10") == "Marketing"
	}, 3*time.Second, 25*time.Millisecond)
}

func TestRefreshKeepsCacheOnFailure(t *testing.T) {
	server := slowGuildServer(t, 0)
	mappings := NewMappingService(newTestClient(server.URL), time.Hour, zap.NewNop())

	mappings.Refresh(context.Background())
	assert.Equal(t, "Cap", mappings.Nickname("1"))
	assert.Equal(t, "Marketing", mappings.RoleName("10"))

	server.Close()
	mappings.Refresh(context.Background())
	assert.Equal(t, "Cap", mappings.Nickname("1"))
	assert.Equal(t, "Marketing", mappings.RoleName("10"))
}
