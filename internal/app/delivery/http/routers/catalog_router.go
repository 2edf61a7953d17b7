package routers

import (
	"detection-service/internal/app/delivery/http/controllers"
	"detection-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachCatalogRoutes(router chi.Router, middlewares *middlewares.Middlewares, catalogController *controllers.CatalogController) {
	router.Get("/questions", catalogController.FindQuestions)
	router.Get("/suggestions", catalogController.FindSuggestions)
}
