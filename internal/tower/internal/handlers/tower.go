package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hirewire/control-tower/internal/tower/constants"
	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/api/public"
	"github.com/hirewire/control-tower/internal/tower/internal/presenters"
	"github.com/hirewire/control-tower/internal/tower/internal/secrets"
	"github.com/hirewire/control-tower/internal/tower/internal/services"
	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/handlers"
	coreServices "github.com/hirewire/control-tower/pkg/services"
)

type TowerHandler struct {
	service services.TowerService
	audit   services.AuditService
}

func NewTowerHandler(service services.TowerService, audit services.AuditService) *TowerHandler {
	return &TowerHandler{
		service: service,
		audit:   audit,
	}
}

func (h *TowerHandler) Overview(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	cfg := &handlers.HandlerConfig{
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			overview, err := h.service.Overview(r.Context(), workspaceID)
			if err != nil {
				return nil, err
			}
			return presenters.PresentOverview(overview), nil
		},
	}
	handlers.HandleGet(w, r, cfg)
}

func (h *TowerHandler) ToggleConnection(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	key := mux.Vars(r)["key"]
	var payload public.ToggleConnectionRequest
	cfg := &handlers.HandlerConfig{
		MarshalInto: &payload,
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
			handlers.Validation("key", &key, handlers.MinLen(1)),
			handlers.Validation("next_status", &payload.NextStatus, handlers.IsOneOf(
				string(dbapi.ConnectorStatusConnected), string(dbapi.ConnectorStatusNotConnected))),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			connector, summary, err := h.service.ToggleConnection(r.Context(), workspaceID, key, dbapi.ConnectorStatus(payload.NextStatus))
			if err != nil {
				return nil, err
			}
			return presenters.PresentCommandResult(connector, summary), nil
		},
	}
	handlers.Handle(w, r, cfg, http.StatusOK)
}

func (h *TowerHandler) RotateCredential(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	key := mux.Vars(r)["key"]
	var payload public.RotateCredentialRequest
	cfg := &handlers.HandlerConfig{
		MarshalInto: &payload,
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
			handlers.Validation("key", &key, handlers.MinLen(1)),
			handlers.Validation("secret", &payload.Secret, handlers.MinLen(1), handlers.MaxLen(secrets.MaxSecretLength)),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			fingerprint, connector, summary, err := h.service.RotateCredential(r.Context(), workspaceID, key, payload.Secret)
			if err != nil {
				return nil, err
			}
			return public.RotateCredentialResponse{
				Fingerprint:   fingerprint,
				DisplayPrefix: secrets.DisplayPrefix(fingerprint),
				Connector:     presenters.PresentConnector(connector),
				Summary:       presenters.PresentSummary(summary),
			}, nil
		},
	}
	handlers.Handle(w, r, cfg, http.StatusOK)
}

func (h *TowerHandler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	key := mux.Vars(r)["key"]
	var payload public.CreateIncidentRequest
	cfg := &handlers.HandlerConfig{
		MarshalInto: &payload,
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
			handlers.Validation("key", &key, handlers.MinLen(1)),
			handlers.Validation("severity", &payload.Severity, handlers.WithDefault(string(dbapi.IncidentSeverityMedium)),
				handlers.IsOneOf(dbapi.AllIncidentSeverities...)),
			handlers.Validation("summary", &payload.Summary, handlers.MinLen(1), handlers.MaxLen(256)),
			handlers.Validation("description", &payload.Description, handlers.MaxLen(2048)),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			connector, summary, err := h.service.CreateIncident(r.Context(), workspaceID, key,
				dbapi.IncidentSeverity(payload.Severity), payload.Summary, payload.Description)
			if err != nil {
				return nil, err
			}
			return presenters.PresentCommandResult(connector, summary), nil
		},
	}
	handlers.Handle(w, r, cfg, http.StatusCreated)
}

func (h *TowerHandler) ResolveIncident(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	key := mux.Vars(r)["key"]
	incidentID := mux.Vars(r)["id"]
	cfg := &handlers.HandlerConfig{
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
			handlers.Validation("key", &key, handlers.MinLen(1)),
			handlers.Validation("id", &incidentID, handlers.MinLen(1)),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			connector, summary, err := h.service.ResolveIncident(r.Context(), workspaceID, key, incidentID)
			if err != nil {
				return nil, err
			}
			return presenters.PresentCommandResult(connector, summary), nil
		},
	}
	handlers.Handle(w, r, cfg, http.StatusOK)
}

func (h *TowerHandler) UpdateFieldMappings(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	key := mux.Vars(r)["key"]
	var payload public.UpdateFieldMappingsRequest
	cfg := &handlers.HandlerConfig{
		MarshalInto: &payload,
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
			handlers.Validation("key", &key, handlers.MinLen(1)),
			validateMapNotEmpty("mappings", &payload.Mappings),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			connector, summary, err := h.service.UpdateFieldMappings(r.Context(), workspaceID, key, payload.Mappings)
			if err != nil {
				return nil, err
			}
			return presenters.PresentCommandResult(connector, summary), nil
		},
	}
	handlers.Handle(w, r, cfg, http.StatusOK)
}

func (h *TowerHandler) UpdateRoleAssignments(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	key := mux.Vars(r)["key"]
	var payload public.UpdateRoleAssignmentsRequest
	cfg := &handlers.HandlerConfig{
		MarshalInto: &payload,
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
			handlers.Validation("key", &key, handlers.MinLen(1)),
			validateMapNotEmpty("assignments", &payload.Assignments),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			connector, summary, err := h.service.UpdateRoleAssignments(r.Context(), workspaceID, key, payload.Assignments)
			if err != nil {
				return nil, err
			}
			return presenters.PresentCommandResult(connector, summary), nil
		},
	}
	handlers.Handle(w, r, cfg, http.StatusOK)
}

func (h *TowerHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	key := mux.Vars(r)["key"]
	var payload public.TriggerSyncRequest
	cfg := &handlers.HandlerConfig{
		MarshalInto: &payload,
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
			handlers.Validation("key", &key, handlers.MinLen(1)),
			handlers.Validation("trigger", &payload.Trigger, handlers.WithDefault(string(constants.SyncTriggerManual)),
				handlers.IsOneOf(constants.AllSyncTriggers...)),
			handlers.Validation("notes", &payload.Notes, handlers.MaxLen(1024)),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			connector, summary, err := h.service.TriggerSync(r.Context(), workspaceID, key,
				constants.SyncTrigger(payload.Trigger), payload.Notes)
			if err != nil {
				return nil, err
			}
			return presenters.PresentCommandResult(connector, summary), nil
		},
	}
	handlers.Handle(w, r, cfg, http.StatusOK)
}

// AuditTrail pages through a workspace's audit history, newest first.
func (h *TowerHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	workspaceID := mux.Vars(r)["workspace_id"]
	cfg := &handlers.HandlerConfig{
		Validate: []handlers.Validate{
			handlers.Validation("workspace_id", &workspaceID, handlers.MinLen(1)),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			listArgs := coreServices.NewListArguments(r.URL.Query())
			entries, paging, err := h.audit.List(r.Context(), workspaceID, listArgs)
			if err != nil {
				return nil, err
			}
			return public.AuditLogEntryList{
				Kind:  "AuditLogEntryList",
				Page:  paging.Page,
				Size:  paging.Size,
				Total: paging.Total,
				Items: presenters.PresentAuditLog(entries),
			}, nil
		},
	}
	handlers.HandleList(w, r, cfg)
}

func validateMapNotEmpty(field string, value *map[string]string) handlers.Validate {
	return func() *errors.ServiceError {
		if value == nil || len(*value) == 0 {
			return errors.Validation("%s is required", field)
		}
		return nil
	}
}
