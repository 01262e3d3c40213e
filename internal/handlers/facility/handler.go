package facility

import (
	"net/http"

	"sporti/infras/otel"
	availabilityDto "sporti/internal/domains/availability/dto"
	availabilityService "sporti/internal/domains/availability/service"
	"sporti/internal/domains/facility/model"
	"sporti/internal/domains/facility/model/dto"
	"sporti/internal/domains/facility/service"
	"sporti/shared"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/validator"
	"sporti/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service      service.Facility
	availability availabilityService.Availability
	otel         otel.Otel
}

func New(service service.Facility, availability availabilityService.Availability, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		availability: availability,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/services", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateService)
		routerGroup.Get("/", handler.GetServices)
		routerGroup.Get("/available", handler.GetAvailableServices)
		routerGroup.Get("/{id}", handler.GetServiceByID)
		routerGroup.Patch("/{id}", handler.UpdateService)
		routerGroup.Put("/{id}/block", handler.BlockService)
		routerGroup.Delete("/{id}", handler.DeleteService)
	})
}

// CreateService registers a bookable venue.
// @Summary Create a facility service
// @Tags Facility
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Create Service Request"
// @Success 201 {object} response.Message "Facility service created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services [post]
// @Security BearerAuth
func (handler *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateService")
	defer scope.End()

	req := dto.CreateServiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create facility service")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusCreated, "Facility service created successfully")
}

// GetServices lists facility services.
// @Summary Get all facility services
// @Tags Facility
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param location query string false "Filter by site code"
// @Param type query string false "Filter by service type"
// @Param is_blocked query boolean false "Filter by blocked flag"
// @Success 200 {object} response.Data[dto.GetServicesResponse] "List of facility services"
// @Failure 500 {object} response.Error
// @Router /v1/services [get]
func (handler *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldLocation, model.FieldType} {
		if value := r.URL.Query().Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if blocked := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsBlocked)); blocked != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsBlocked,
			Operator: gDto.FilterOperatorEq,
			Value:    *blocked,
			Table:    model.TableName,
		})
	}

	services, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get facility services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, services)
}

// GetAvailableServices lists venues of a type free for the whole interval that seat the
// requested number of guests.
// @Summary Get available facility services
// @Tags Facility
// @Produce json
// @Param location query string true "Site code"
// @Param type query string true "Service type"
// @Param check_in query string true "Start date"
// @Param check_out query string true "End date"
// @Param guest_count query integer false "Number of guests"
// @Param booking_for query string false "Self or Guest"
// @Param relation query string false "Relation of the occupant"
// @Success 200 {object} response.Data[availabilityDto.AvailableServicesResponse] "Available facility services"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services/available [get]
func (handler *Handler) GetAvailableServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableServices")
	defer scope.End()

	query := availabilityDto.ServiceQuery{}
	query.FromRequest(r)

	if err := validator.ValidateStruct(&query); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	services, err := handler.availability.Services(ctx, query)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve available facility services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, services)
}

// GetServiceByID retrieves a facility service.
// @Summary Get a facility service by ID
// @Tags Facility
// @Produce json
// @Param id path string true "Facility service ID"
// @Success 200 {object} response.Data[dto.ServiceResponse] "Facility service details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services/{id} [get]
func (handler *Handler) GetServiceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServiceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	service, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, service)
}

// UpdateService updates a facility service.
// @Summary Update a facility service by ID
// @Tags Facility
// @Accept json
// @Produce json
// @Param id path string true "Facility service ID"
// @Param request body dto.UpdateServiceRequest true "Update Service Request"
// @Success 200 {object} response.Message "Facility service updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateServiceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update facility service")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Facility service updated successfully")
}

// BlockService takes a venue out of, or back into, availability.
// @Summary Block or unblock a facility service
// @Tags Facility
// @Accept json
// @Produce json
// @Param id path string true "Facility service ID"
// @Param request body dto.BlockServiceRequest true "Block Service Request"
// @Success 200 {object} response.Message "Facility service updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/services/{id}/block [put]
// @Security BearerAuth
func (handler *Handler) BlockService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BlockService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.BlockServiceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.SetBlocked(ctx, id, *req.IsBlocked); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle facility service block")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Facility service updated successfully")
}

// DeleteService removes a facility service.
// @Summary Delete a facility service by ID
// @Tags Facility
// @Produce json
// @Param id path string true "Facility service ID"
// @Success 200 {object} response.Message "Facility service deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete facility service")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Facility service deleted successfully")
}
