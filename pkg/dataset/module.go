package dataset

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/go-hfdataset/hfdataset/internal/logging"
	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

// RepositoryParams are the optional fx-injected dependencies that
// NewRemoteRepositoryFromViper takes alongside a repoID, adapted from
// the teacher's HubClientParams.
type RepositoryParams struct {
	fx.In

	Logger logging.Interface `name:"dataset_logger" optional:"true"`
}

// NewRemoteRepositoryFromViper builds a RemoteRepository for repoID
// against client, resolving every other RemoteOption from v (config
// files merged into v plus bound environment variables) rather than
// explicit call-site options. Module does not provide it; fx apps call
// it themselves (for example from fx.Invoke) with their own repoID.
func NewRemoteRepositoryFromViper(repoID string, client hfhttp.Client, v *viper.Viper, params RepositoryParams) (Repository, error) {
	opts := []RemoteOption{WithViper(v)}
	if params.Logger != nil {
		opts = append(opts, WithRepoLogger(params.Logger))
	}

	repo, err := NewRemoteRepository(repoID, client, opts...)
	if err != nil {
		return nil, fmt.Errorf("dataset: constructing repository from viper config: %w", err)
	}
	return repo, nil
}

// Module is this package's optional fx wiring: it provides a shared
// hfhttp.Client for any fx app that wants one, the way the teacher's
// pkg/hfutil/hub.Module provides a *HubClient. Nothing in pkg/dataset
// requires fx; callers wire Module in only if they already run an fx
// app and want a managed Client instance.
var Module = fx.Provide(
	func() hfhttp.Client {
		return hfhttp.New(nil)
	},
)
