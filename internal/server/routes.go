package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"spaceapp/internal/shared/response"
)

// Endpoint is the CRUD surface every resource exposes to the router.
type Endpoint interface {
	List(w http.ResponseWriter, r *http.Request)
	Retrieve(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	PartialUpdate(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// Route mounts an Endpoint under <prefix>/<Name>/.
type Route struct {
	Name     string
	Endpoint Endpoint
}

type Routes struct {
	prefix string
	routes []Route
	health http.Handler
}

// NewRoutes takes the complete route list up front; nothing registers
// itself later. prefix is "" or a path like "/api" without trailing slash.
func NewRoutes(prefix string, routes []Route, health http.Handler) *Routes {
	return &Routes{
		prefix: prefix,
		routes: routes,
		health: health,
	}
}

func (rt *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes", "prefix", rt.prefix)

	mux := http.NewServeMux()

	if rt.health != nil {
		mux.Handle("GET /health", rt.health)
	}

	mux.HandleFunc(fmt.Sprintf("GET %s/{$}", rt.prefix), rt.apiRoot)

	endpoints := make([]string, 0, len(rt.routes))
	for _, route := range rt.routes {
		collection := fmt.Sprintf("%s/%s", rt.prefix, route.Name)
		item := collection + "/{id}"

		// Both the canonical trailing-slash form and the bare form are served.
		for _, path := range []string{collection + "/{$}", collection} {
			mux.HandleFunc("GET "+path, route.Endpoint.List)
			mux.HandleFunc("POST "+path, route.Endpoint.Create)
		}
		for _, path := range []string{item + "/{$}", item} {
			mux.HandleFunc("GET "+path, route.Endpoint.Retrieve)
			mux.HandleFunc("PUT "+path, route.Endpoint.Update)
			mux.HandleFunc("PATCH "+path, route.Endpoint.PartialUpdate)
			mux.HandleFunc("DELETE "+path, route.Endpoint.Delete)
		}

		endpoints = append(endpoints, collection+"/")
	}

	logger.Info("Routes configured successfully",
		"prefix", rt.prefix,
		"resource_endpoints", endpoints,
	)

	return mux
}

// apiRoot lists the absolute collection URL of every resource.
func (rt *Routes) apiRoot(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	links := make(map[string]string, len(rt.routes))
	for _, route := range rt.routes {
		links[route.Name] = fmt.Sprintf("%s://%s%s/%s/", scheme, r.Host, rt.prefix, route.Name)
	}

	response.Success(w, http.StatusOK, links)
}
