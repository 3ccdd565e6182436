package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroprint/waitlist/pkg/form"
	"github.com/zeroprint/waitlist/pkg/models"
)

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["join"])
}

func TestRootCommand_Flags(t *testing.T) {
	for _, name := range []string{"config", "registration-url", "log-level", "log-file"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "c", rootCmd.PersistentFlags().Lookup("config").Shorthand)
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
}

func TestSetVersion(t *testing.T) {
	old := rootCmd.Version
	t.Cleanup(func() { SetVersion(old) })

	SetVersion("1.2.3 (commit: abc, built: today)")
	assert.Equal(t, "1.2.3 (commit: abc, built: today)", rootCmd.Version)
}

func TestLoadConfig_FromFlags(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "waitlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registration:\n  timeout: 4s\n"), 0o644))

	old := cfgFile
	t.Cleanup(func() { cfgFile = old })
	cfgFile = path
	t.Cleanup(func() {
		for _, name := range []string{"port", "registration-url"} {
			f := serveCmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	require.NoError(t, serveCmd.ParseFlags([]string{
		"--port", "9100",
		"--registration-url", "https://example.com/waitlist/register",
	}))

	cfg, err := loadConfig(serveCmd)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "https://example.com/waitlist/register", cfg.Registration.URL)
	assert.Equal(t, 4*time.Second, cfg.Registration.Timeout)
}

func TestNewRegistrar_PostsToConfiguredURL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"You're on the list"}`))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("WAITLIST_REGISTRATION_URL", srv.URL)
	cfg, err := loadConfig(joinCmd)
	require.NoError(t, err)

	resp, err := newRegistrar(cfg, nil, nil).Register(context.Background(), models.RegistrationRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Interest:  "individual",
	})
	require.NoError(t, err)
	assert.Equal(t, "You're on the list", resp.Message)
	assert.Equal(t, int32(1), hits.Load())
}

func TestNewJoinProgram_QueriesBackground(t *testing.T) {
	var queries atomic.Int32
	old := detectBackground
	t.Cleanup(func() { detectBackground = old })
	detectBackground = func() bool {
		queries.Add(1)
		return true
	}

	ctrl := form.NewController(nil)
	t.Cleanup(ctrl.Close)

	p := newJoinProgram(context.Background(), ctrl, nil)
	require.NotNil(t, p)
	assert.Equal(t, int32(1), queries.Load())
}

func TestServe_DoesNotQueryBackground(t *testing.T) {
	var queries atomic.Int32
	old := detectBackground
	t.Cleanup(func() { detectBackground = old })
	detectBackground = func() bool {
		queries.Add(1)
		return true
	}

	t.Setenv("WAITLIST_SERVER_MODE", "bogus")
	err := runServe(serveCmd, nil)
	require.Error(t, err)
	assert.Equal(t, int32(0), queries.Load())
}
