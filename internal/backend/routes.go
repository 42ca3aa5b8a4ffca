package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rileyhilliard/lbdash/internal/logger"
	"github.com/rileyhilliard/lbdash/internal/status"
)

// StatusResponse is the response for GET /api/status.
type StatusResponse struct {
	Body struct {
		Servers status.Snapshot `doc:"Backend servers in pool order" json:"servers"`
	}
}

// AddServerResponse is the response for POST /api/add_server.
type AddServerResponse struct {
	Body struct {
		Server status.ServerRecord `doc:"The server that was added" json:"server"`
	}
}

// RegisterRoutes sets up the status API operations. fail decides per
// request whether GET /api/status answers with an injected 503.
func RegisterRoutes(api huma.API, pool *Pool, fail func() bool, log logger.Logger) {
	tags := []string{"Status"}

	huma.Register(
		api,
		huma.Operation{
			OperationID: "getStatus",
			Method:      http.MethodGet,
			Path:        status.StatusPath,
			Summary:     "List all backend servers with their current metrics",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*StatusResponse, error) {
			return handleStatus(pool, fail)
		},
	)

	huma.Register(
		api,
		huma.Operation{
			OperationID:   "addServer",
			Method:        http.MethodPost,
			Path:          status.AddServerPath,
			Summary:       "Add a new backend server to the pool",
			Tags:          tags,
			DefaultStatus: http.StatusCreated,
		},
		func(ctx context.Context, _ *struct{}) (*AddServerResponse, error) {
			return handleAddServer(pool, log)
		},
	)
}

func handleStatus(pool *Pool, fail func() bool) (*StatusResponse, error) {
	if fail != nil && fail() {
		return nil, huma.Error503ServiceUnavailable("injected failure")
	}

	resp := &StatusResponse{}
	resp.Body.Servers = pool.Snapshot()
	return resp, nil
}

func handleAddServer(pool *Pool, log logger.Logger) (*AddServerResponse, error) {
	s, err := pool.Add()
	if errors.Is(err, ErrPoolFull) {
		log.Warn("add_server refused: %v", err)
		return nil, huma.Error409Conflict(err.Error())
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to add server", err)
	}

	log.Info("added %s at %s", s.ID, s.Address())
	resp := &AddServerResponse{}
	resp.Body.Server = s
	return resp, nil
}
