package routes

import (
	"net/http"

	"github.com/goava/di"
	"github.com/gorilla/mux"

	"github.com/hirewire/control-tower/internal/tower/internal/handlers"
	"github.com/hirewire/control-tower/pkg/auth"
	"github.com/hirewire/control-tower/pkg/db"
	coreHandlers "github.com/hirewire/control-tower/pkg/handlers"
	"github.com/hirewire/control-tower/pkg/server"
)

type options struct {
	di.Inject
	ServerConfig   *server.ServerConfig
	AuthMiddleware auth.AuthMiddleware
	TowerHandler   *handlers.TowerHandler
	DB             *db.ConnectionFactory
}

func NewRouteLoader(s options) server.RouteLoader {
	return &s
}

func (s *options) AddRoutes(mainRouter *mux.Router) error {

	//  /api/control_tower
	apiRouter := mainRouter.PathPrefix("/api/control_tower").Subrouter()

	//  /api/control_tower/v1
	apiV1Router := apiRouter.PathPrefix("/v1").Subrouter()

	//  /api/control_tower/v1/errors
	apiV1ErrorsRouter := apiV1Router.PathPrefix("/errors").Subrouter()
	errorsHandler := coreHandlers.NewErrorsHandler()
	apiV1ErrorsRouter.HandleFunc("", errorsHandler.List).Methods(http.MethodGet)
	apiV1ErrorsRouter.HandleFunc("/{id}", errorsHandler.Get).Methods(http.MethodGet)

	//  /api/control_tower/v1/workspaces/{workspace_id}
	apiV1WorkspacesRouter := apiV1Router.PathPrefix("/workspaces/{workspace_id}").Subrouter()
	apiV1WorkspacesRouter.HandleFunc("/overview", s.TowerHandler.Overview).
		Name("overview").Methods(http.MethodGet)
	apiV1WorkspacesRouter.HandleFunc("/audit", s.TowerHandler.AuditTrail).
		Name("audit_trail").Methods(http.MethodGet)

	//  /api/control_tower/v1/workspaces/{workspace_id}/connectors/{key}
	apiV1ConnectorsRouter := apiV1WorkspacesRouter.PathPrefix("/connectors/{key}").Subrouter()
	apiV1ConnectorsRouter.HandleFunc("/toggle", s.TowerHandler.ToggleConnection).
		Name("toggle_connection").Methods(http.MethodPost)
	apiV1ConnectorsRouter.HandleFunc("/credential", s.TowerHandler.RotateCredential).
		Name("rotate_credential").Methods(http.MethodPost)
	apiV1ConnectorsRouter.HandleFunc("/incidents", s.TowerHandler.CreateIncident).
		Name("create_incident").Methods(http.MethodPost)
	apiV1ConnectorsRouter.HandleFunc("/incidents/{id}/resolve", s.TowerHandler.ResolveIncident).
		Name("resolve_incident").Methods(http.MethodPost)
	apiV1ConnectorsRouter.HandleFunc("/field_mappings", s.TowerHandler.UpdateFieldMappings).
		Name("update_field_mappings").Methods(http.MethodPost)
	apiV1ConnectorsRouter.HandleFunc("/role_assignments", s.TowerHandler.UpdateRoleAssignments).
		Name("update_role_assignments").Methods(http.MethodPost)
	apiV1ConnectorsRouter.HandleFunc("/sync", s.TowerHandler.TriggerSync).
		Name("trigger_sync").Methods(http.MethodPost)

	// every workspace route runs inside a request transaction so command
	// mutations and audit entries commit together
	apiV1WorkspacesRouter.Use(db.TransactionMiddleware(s.DB))
	if s.ServerConfig.EnableAuth {
		apiV1WorkspacesRouter.Use(s.AuthMiddleware.RequireActor)
	}

	return nil
}
