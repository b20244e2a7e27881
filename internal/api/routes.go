package api

import (
	"net/http"

	"github.com/talus-io/talus/internal/config"
	"github.com/talus-io/talus/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Batches.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Records.Handler().Routes(),
	)
}
