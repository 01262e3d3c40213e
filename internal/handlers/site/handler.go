package site

import (
	"net/http"

	"sporti/internal/domains/site"
	"sporti/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	catalog *site.Catalog
}

func New(catalog *site.Catalog) Handler {
	return Handler{catalog: catalog}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/sites", handler.GetSites)
}

// GetSites returns the locations with their room categories and service types.
// @Summary Get the site catalogue
// @Tags Site
// @Produce json
// @Success 200 {object} response.Data[site.Catalog] "Site catalogue"
// @Router /v1/sites [get]
func (handler *Handler) GetSites(w http.ResponseWriter, _ *http.Request) {
	response.WithJSON(w, http.StatusOK, handler.catalog)
}
