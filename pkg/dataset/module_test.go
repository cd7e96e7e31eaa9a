package dataset

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

func TestModuleProvidesClient(t *testing.T) {
	var client hfhttp.Client
	app := fxtest.New(t,
		Module,
		fx.Invoke(func(c hfhttp.Client) {
			client = c
		}),
	)
	app.RequireStart()
	app.RequireStop()
	require.NotNil(t, client)
}

func TestNewRemoteRepositoryFromViper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := viper.New()
	v.Set("cache_dir", t.TempDir())
	v.Set("endpoint", srv.URL)

	repo, err := NewRemoteRepositoryFromViper("owner/name", hfhttp.New(nil), v, RepositoryParams{})
	require.NoError(t, err)
	require.NotNil(t, repo)
}
