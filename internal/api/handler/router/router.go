package router

import (
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/commerce-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/commerce-analytics-api/pkg/metrics"
	"github.com/vfg2006/commerce-analytics-api/pkg/middleware"
)

var (
	WithRoutes = func(routes ...Route) ConfigRouter {
		return func(router *Router) {
			router.routes = append(router.routes, routes...)
		}
	}

	// WithMetrics instrumenta todas as rotas com o padrão do caminho como label
	WithMetrics = func(m *metrics.Metrics) ConfigRouter {
		return func(router *Router) {
			router.metrics = m
		}
	}
)

type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler // Lista de middlewares específicos para esta rota
}

type Router struct {
	router  *httprouter.Router
	routes  []Route
	metrics *metrics.Metrics
}

type ConfigRouter func(router *Router)

// New aplica as configurações e só então registra as rotas, então a ordem das opções não importa
func New(configs ...ConfigRouter) Router {
	hr := httprouter.New()
	hr.NotFound = apiErrors.NotFoundHandler()
	hr.MethodNotAllowed = apiErrors.MethodNotAllowedHandler()
	// OPTIONS é respondido pelo middleware de CORS antes de chegar aqui
	hr.HandleOPTIONS = false

	router := &Router{
		router: hr,
	}

	for _, config := range configs {
		config(router)
	}

	for _, route := range router.routes {
		router.register(route)
	}

	return *router
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Routes retorna "MÉTODO caminho" de cada rota registrada, em ordem alfabética
func (r Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for _, route := range r.routes {
		out = append(out, route.Method+" "+route.Path)
	}
	sort.Strings(out)
	return out
}

func (r *Router) register(route Route) {
	var handler http.Handler = route.Handler

	// Aplicar middlewares específicos da rota, do último para o primeiro
	for i := len(route.Middlewares) - 1; i >= 0; i-- {
		handler = route.Middlewares[i](handler)
	}

	if r.metrics != nil {
		handler = middleware.Instrument(r.metrics, route.Path)(handler)
	}

	r.router.Handler(route.Method, route.Path, handler)
}
