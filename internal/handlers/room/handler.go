package room

import (
	"net/http"
	"strconv"
	"strings"

	"sporti/infras/otel"
	availabilityDto "sporti/internal/domains/availability/dto"
	availabilityService "sporti/internal/domains/availability/service"
	"sporti/internal/domains/room/model"
	"sporti/internal/domains/room/model/dto"
	"sporti/internal/domains/room/service"
	"sporti/shared"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/validator"
	"sporti/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service      service.Room
	availability availabilityService.Availability
	otel         otel.Otel
}

func New(service service.Room, availability availabilityService.Availability, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		availability: availability,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/available", handler.GetAvailableRooms)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Put("/{id}/block", handler.BlockRoom)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
	})
}

func formInt64(r *http.Request, key string) *int64 {
	value := r.FormValue(key)
	if value == constant.Empty {
		return nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil
	}

	return &n
}

func formInt(r *http.Request, key string) *int {
	n, err := shared.ConvertStringToInt(r.FormValue(key))
	if err != nil {
		return nil
	}

	return &n
}

// formList accepts repeated keys or a single comma separated value.
func formList(r *http.Request, key string) []string {
	values := r.MultipartForm.Value[key]
	if len(values) == 1 {
		values = strings.Split(values[0], ",")
	}

	list := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != constant.Empty {
			list = append(list, v)
		}
	}

	return list
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a room at a site, optionally with an image.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param location formData string true "Site code"
// @Param category formData string true "Room category"
// @Param floor formData integer false "Floor"
// @Param room_number formData string true "Room number, unique per site"
// @Param member_rate formData integer false "Nightly member rate"
// @Param guest_rate formData integer false "Nightly guest rate"
// @Param facilities formData string false "Comma separated facilities"
// @Param description formData string false "Description"
// @Param is_blocked formData boolean false "Blocked from availability"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Message "Room created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.CreateRoomRequest{
		Location:    r.FormValue(model.FieldLocation),
		Category:    r.FormValue(model.FieldCategory),
		RoomNumber:  r.FormValue(model.FieldRoomNumber),
		Facilities:  formList(r, model.FieldFacilities),
		Description: r.FormValue(model.FieldDescription),
		IsBlocked:   shared.ConvertStringToBool(r.FormValue(model.FieldIsBlocked)),
	}

	if floor := formInt(r, model.FieldFloor); floor != nil {
		req.Floor = *floor
	}

	if rate := formInt64(r, model.FieldMemberRate); rate != nil {
		req.MemberRate = *rate
	}

	if rate := formInt64(r, model.FieldGuestRate); rate != nil {
		req.GuestRate = *rate
	}

	file, fileHeader, err := r.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Room created successfully")
}

// GetRooms retrieves all rooms based on query parameters.
// @Summary Get all rooms
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param location query string false "Filter by site code"
// @Param category query string false "Filter by category"
// @Param is_blocked query boolean false "Filter by blocked flag"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldLocation, model.FieldCategory} {
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

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetAvailableRooms lists rooms free for the whole interval, grouped by floor.
// @Summary Get available rooms
// @Description When booking_for and relation are given each room carries the estimated total cost.
// @Tags Room
// @Produce json
// @Param location query string true "Site code"
// @Param category query string true "Room category"
// @Param check_in query string true "Check-in date"
// @Param check_out query string true "Check-out date"
// @Param booking_for query string false "Self or Guest"
// @Param relation query string false "Relation of the occupant"
// @Success 200 {object} response.Data[availabilityDto.AvailableRoomsResponse] "Available rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/available [get]
func (handler *Handler) GetAvailableRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRooms")
	defer scope.End()

	query := availabilityDto.RoomQuery{}
	query.FromRequest(r)

	if err := validator.ValidateStruct(&query); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	rooms, err := handler.availability.Rooms(ctx, query)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve available rooms")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom updates an existing room by its ID.
// @Summary Update a room by ID
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param category formData string false "Room category"
// @Param floor formData integer false "Floor"
// @Param room_number formData string false "Room number"
// @Param member_rate formData integer false "Nightly member rate"
// @Param guest_rate formData integer false "Nightly guest rate"
// @Param facilities formData string false "Comma separated facilities"
// @Param description formData string false "Description"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message "Room updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateRoomRequest{
		Category:    r.FormValue(model.FieldCategory),
		Floor:       formInt(r, model.FieldFloor),
		RoomNumber:  r.FormValue(model.FieldRoomNumber),
		MemberRate:  formInt64(r, model.FieldMemberRate),
		GuestRate:   formInt64(r, model.FieldGuestRate),
		Description: r.FormValue(model.FieldDescription),
	}

	if facilities := formList(r, model.FieldFacilities); len(facilities) > 0 {
		req.Facilities = facilities
	}

	file, fileHeader, err := r.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// BlockRoom takes a room out of, or back into, availability.
// @Summary Block or unblock a room
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.BlockRoomRequest true "Block Room Request"
// @Success 200 {object} response.Message "Room updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/block [put]
// @Security BearerAuth
func (handler *Handler) BlockRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BlockRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.BlockRoomRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.SetBlocked(ctx, id, *req.IsBlocked); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle room block")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeleteRoom deletes a room by its ID.
// @Summary Delete a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}
