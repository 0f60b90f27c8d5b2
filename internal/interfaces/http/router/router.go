package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouteGroup collects routes under a prefix before they are mounted, so a
// group's middleware applies to every subgroup added later.
type RouteGroup struct {
	prefix     string
	routes     []route
	subgroups  []*RouteGroup
	middleware []gin.HandlerFunc
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewRouteGroup(prefix string) *RouteGroup {
	return &RouteGroup{prefix: prefix}
}

// Use adds middleware to this group and all of its subgroups
func (g *RouteGroup) Use(middleware ...gin.HandlerFunc) *RouteGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Group adds a subgroup
func (g *RouteGroup) Group(prefix string) *RouteGroup {
	sub := NewRouteGroup(prefix)
	g.subgroups = append(g.subgroups, sub)
	return sub
}

func (g *RouteGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *RouteGroup {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

func (g *RouteGroup) GET(path string, h ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodGet, path, h...)
}

func (g *RouteGroup) POST(path string, h ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodPost, path, h...)
}

func (g *RouteGroup) PUT(path string, h ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodPut, path, h...)
}

func (g *RouteGroup) PATCH(path string, h ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodPatch, path, h...)
}

// DELETE registers a DELETE route. Bulk deletes carry their ids in the body.
func (g *RouteGroup) DELETE(path string, h ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodDelete, path, h...)
}

// Mount registers the group and its subgroups on parent
func (g *RouteGroup) Mount(parent gin.IRouter) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, r := range g.routes {
		rg.Handle(r.method, r.path, r.handlers...)
	}
	for _, sub := range g.subgroups {
		sub.Mount(rg)
	}
}

// Routes lists "METHOD /path" for every route of the group and its
// subgroups, relative to the group's parent
func (g *RouteGroup) Routes() []string {
	var out []string
	for _, r := range g.routes {
		out = append(out, r.method+" "+joinPath(g.prefix, r.path))
	}
	for _, sub := range g.subgroups {
		for _, r := range sub.Routes() {
			method, path, _ := strings.Cut(r, " ")
			out = append(out, method+" "+joinPath(g.prefix, path))
		}
	}
	return out
}

func joinPath(prefix, path string) string {
	joined := strings.TrimSuffix(prefix, "/") + path
	if joined == "" {
		return "/"
	}
	return joined
}
