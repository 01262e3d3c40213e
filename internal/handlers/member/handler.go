package member

import (
	"net/http"

	"sporti/infras/otel"
	"sporti/internal/domains/member/model"
	"sporti/internal/domains/member/model/dto"
	"sporti/internal/domains/member/service"
	"sporti/shared"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/failure"
	"sporti/shared/validator"
	"sporti/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Member
	otel    otel.Otel
}

func New(service service.Member, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/members", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMember)
		routerGroup.Get("/", handler.GetMembers)
		routerGroup.Get("/me", handler.GetMe)
		routerGroup.Get("/{id}", handler.GetMemberByID)
		routerGroup.Patch("/{id}", handler.UpdateMember)
	})
}

// CreateMember provisions an officer account.
// @Summary Create a member
// @Tags Member
// @Accept json
// @Produce json
// @Param request body dto.CreateMemberRequest true "Create Member Request"
// @Success 201 {object} response.Message "Member created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/members [post]
// @Security BearerAuth
func (handler *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMember")
	defer scope.End()

	req := dto.CreateMemberRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create member")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Member created successfully")

	response.WithMessage(w, http.StatusCreated, "Member created successfully")
}

// GetMembers lists member accounts.
// @Summary Get all members
// @Tags Member
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param designation query string false "Filter by designation"
// @Param role query string false "Filter by role"
// @Param active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetMembersResponse] "List of members"
// @Failure 500 {object} response.Error
// @Router /v1/members [get]
// @Security BearerAuth
func (handler *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMembers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldDesignation, model.FieldRole} {
		if value := r.URL.Query().Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	members, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get members")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, members)
}

// GetMe returns the signed-in member's profile.
// @Summary Get my profile
// @Tags Member
// @Produce json
// @Success 200 {object} response.Data[dto.MemberResponse] "Member details"
// @Failure 401 {object} response.Error
// @Router /v1/members/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if id == constant.Empty {
		response.WithError(w, failure.Unauthorized("sign in to view your profile"))

		return
	}

	member, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, member)
}

// GetMemberByID retrieves a member account.
// @Summary Get a member by ID
// @Tags Member
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} response.Data[dto.MemberResponse] "Member details"
// @Failure 404 {object} response.Error
// @Router /v1/members/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetMemberByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMemberByID")
	defer scope.End()

	member, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, member)
}

// UpdateMember changes role, designation, contact details or the active flag.
// @Summary Update a member by ID
// @Tags Member
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body dto.UpdateMemberRequest true "Update Member Request"
// @Success 200 {object} response.Message "Member updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/members/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMember")
	defer scope.End()

	req := dto.UpdateMemberRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update member")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Member updated successfully")
}
