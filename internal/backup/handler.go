package backup

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/fitness"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/workflows"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type documentSource interface {
	Document(ctx context.Context, session auth.Session) (*fitness.Document, error)
}

type Handler struct {
	documents documentSource
	service   *Service
}

func NewHandler(documents documentSource, service *Service) *Handler {
	return &Handler{
		documents: documents,
		service:   service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/backup", handler.HandleBackup).Methods("POST", "OPTIONS").Name("backup")
}

func (handler *Handler) HandleBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalBackupTracer.Start(r.Context(), "handler.backup")
	defer span.End()

	doc, err := handler.documents.Document(ctx, auth.FromContext(ctx))
	if err != nil {
		if errors.Is(err, workflows.ErrNotAuthenticated) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("backup, load document: %s", err)
		http.Error(w, "error, load document failed", http.StatusInternalServerError)
		return
	}

	report, err := handler.service.Sync(ctx, doc)
	switch {
	case errors.Is(err, ErrUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case err != nil && report == nil:
		log.Errorf("backup: %s", err)
		http.Error(w, "error, backup failed", http.StatusInternalServerError)
	case err != nil:
		pkg.WriteJSON(w, report, http.StatusBadGateway)
	default:
		pkg.WriteJSON(w, report, http.StatusOK)
	}
}
