// Package server exposes a read-only HTTP API over a generated dataset,
// for inspecting counts and spot-checking entities without a SQLite shell.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"worksim/internal/domain"
	"worksim/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Repo     repo.Repo
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"no such project"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError is the error envelope for every non-2xx response.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the dataset inspection API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}

	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("Worksim API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerSummary(group, cfg.Repo)
	registerOrganization(group, cfg.Repo)
	registerUsers(group, cfg.Repo)
	registerProjects(group, cfg.Repo)
	registerTasks(group, cfg.Repo)
	registerValidate(group, cfg.Repo)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

type PageParams struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"500"`
	Offset int `query:"offset" default:"0" minimum:"0"`
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerSummary(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "summary",
		Method:      http.MethodGet,
		Path:        "/summary",
		Summary:     "Row counts per table",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]int `json:"body"`
	}, error) {
		counts, err := r.TableCounts(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]int `json:"body"`
		}{Body: counts}, nil
	})
}

func registerOrganization(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "get-organization",
		Method:      http.MethodGet,
		Path:        "/organization",
		Summary:     "The generated organization",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.Organization `json:"body"`
	}, error) {
		org, err := r.GetOrganization(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Organization `json:"body"`
		}{Body: org}, nil
	})
}

func registerUsers(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, input *PageParams) (*struct {
		Body []domain.User `json:"body"`
	}, error) {
		users, err := r.ListUsers(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.User `json:"body"`
		}{Body: users}, nil
	})
}

func registerProjects(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/projects",
		Summary:     "List projects",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, input *PageParams) (*struct {
		Body []domain.Project `json:"body"`
	}, error) {
		projects, err := r.ListProjects(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Project `json:"body"`
		}{Body: projects}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-project",
		Method:      http.MethodGet,
		Path:        "/projects/{project_id}",
		Summary:     "Project detail",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		ProjectID string `path:"project_id"`
	}) (*struct {
		Body domain.Project `json:"body"`
	}, error) {
		p, err := r.GetProject(ctx, input.ProjectID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Project `json:"body"`
		}{Body: p}, nil
	})
}

func registerTasks(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-project-tasks",
		Method:      http.MethodGet,
		Path:        "/projects/{project_id}/tasks",
		Summary:     "Tasks of a project",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		ProjectID string `path:"project_id"`
		PageParams
	}) (*struct {
		Body []domain.Task `json:"body"`
	}, error) {
		if _, err := r.GetProject(ctx, input.ProjectID); err != nil {
			return nil, handleError(err)
		}
		tasks, err := r.ListTasksByProject(ctx, input.ProjectID, input.Limit, input.Offset)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Task `json:"body"`
		}{Body: tasks}, nil
	})
}

func registerValidate(api huma.API, r repo.Repo) {
	type validateBody struct {
		OK         bool               `json:"ok"`
		Violations []repo.FKViolation `json:"violations,omitempty"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "validate",
		Method:      http.MethodGet,
		Path:        "/validate",
		Summary:     "Referential integrity scan",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body validateBody `json:"body"`
	}, error) {
		violations, err := r.ValidateForeignKeys(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body validateBody `json:"body"`
		}{Body: validateBody{OK: len(violations) == 0, Violations: violations}}, nil
	})
}
