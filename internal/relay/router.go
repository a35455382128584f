// internal/relay/router.go
package relay

import (
	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Handler        *Handler
	Logger         logger.Logger
	Observability  *observability.Observability
	AllowedOrigins []string
	MetricsEnabled bool
}

// NewRouter registers the relay routes on a fresh gin engine.
func NewRouter(opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	router.Use(CORS(opts.AllowedOrigins))
	router.Use(Metrics(opts.Observability))

	router.POST(RouteApply, opts.Handler.Apply)
	router.GET("/health", opts.Handler.Health)

	calc := router.Group("/calculator")
	calc.GET("/emi", opts.Handler.EMI)
	calc.GET("/eligibility", opts.Handler.Eligibility)

	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}
