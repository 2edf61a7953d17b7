package routers

import (
	"detection-service/internal/app/delivery/http/controllers"
	"detection-service/internal/app/delivery/http/middlewares"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func attachDetectionRoutes(router chi.Router, middlewares *middlewares.Middlewares, submissionLimiter func(http.Handler) http.Handler, detectionController *controllers.DetectionController) {
	router.With(submissionLimiter, middlewares.BodyLimit).Post("/", detectionController.SubmitDetection)
	router.Get("/state", detectionController.FindDetectionState)
}
