package grouporders

import (
	"net/http"

	"github.com/sumopedidos/sumo-backend/api/responses"
	"github.com/sumopedidos/sumo-backend/api/validators"
	internal "github.com/sumopedidos/sumo-backend/internal/grouporders"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
)

// PublicDetail renders the participant view of an order: the order, its
// orderable items and the money preview.
func PublicDetail(svc internal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}
		slug, err := validators.RequireParam(r, "slug")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderViewResponse(view, false))
	}
}

// PublicSubmitLine records a participant's line against an open order.
func PublicSubmitLine(svc internal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}
		slug, err := validators.RequireParam(r, "slug")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitLineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitLine(r.Context(), slug, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submitLineResponse{
			Line:         newLineResponse(result.Line, false),
			Notification: result.Notification,
		})
	}
}
