package handler

import (
	"net/http"
	"sync"

	"sporti/config"
	"sporti/di"
	"sporti/shared/logger"
	sportiHTTP "sporti/transport/http"
)

var (
	app  *sportiHTTP.HTTP
	once sync.Once
)

// Handler is the serverless entry point. Warm invocations reuse the router and its pools.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	app.ServeHTTP(w, r)
}
