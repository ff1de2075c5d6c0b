package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// route is one entry of the authorization policy table.
type route struct {
	method  string
	pattern string
	access  access
	handler http.HandlerFunc
}

// routeTable lists every endpoint together with who may call it.
func routeTable(h *routeHandlers) []route {
	routes := []route{
		{http.MethodGet, "/api/health", public, h.healthHandler.check()},

		{http.MethodPost, "/api/auth/signup", public, h.authHandler.signup()},
		{http.MethodPost, "/api/auth/signin", public, h.authHandler.signin()},
		{http.MethodPost, "/api/auth/signout", public, h.authHandler.signout()},
		{http.MethodGet, "/api/auth/me", authenticated, h.authHandler.me()},

		{http.MethodGet, "/api/projects", public, h.projectHandler.listProjects()},
		{http.MethodGet, "/api/projects/{id}", public, h.projectHandler.getProject()},
		{http.MethodPost, "/api/projects", admin, h.projectHandler.createProject()},
		{http.MethodPut, "/api/projects/{id}", admin, h.projectHandler.updateProject()},
		{http.MethodDelete, "/api/projects/{id}", admin, h.projectHandler.deleteProject()},

		{http.MethodGet, "/api/qualifications", public, h.qualificationHandler.listQualifications()},
		{http.MethodGet, "/api/qualifications/{id}", public, h.qualificationHandler.getQualification()},
		{http.MethodPost, "/api/qualifications", admin, h.qualificationHandler.createQualification()},
		{http.MethodPut, "/api/qualifications/{id}", admin, h.qualificationHandler.updateQualification()},
		{http.MethodDelete, "/api/qualifications/{id}", admin, h.qualificationHandler.deleteQualification()},
		{http.MethodDelete, "/api/qualifications", admin, h.qualificationHandler.deleteAllQualifications()},

		{http.MethodPost, "/api/contacts", public, h.contactHandler.createContact()},
		{http.MethodGet, "/api/contacts", admin, h.contactHandler.listContacts()},
		{http.MethodGet, "/api/contacts/{id}", admin, h.contactHandler.getContact()},
		{http.MethodPut, "/api/contacts/{id}", admin, h.contactHandler.updateContact()},
		{http.MethodDelete, "/api/contacts/{id}", admin, h.contactHandler.deleteContact()},
		{http.MethodDelete, "/api/contacts", admin, h.contactHandler.deleteAllContacts()},

		{http.MethodGet, "/api/users", admin, h.userHandler.listUsers()},
		{http.MethodGet, "/api/users/{id}", adminOrSelf, h.userHandler.getUser()},
		{http.MethodPut, "/api/users/{id}", adminOrSelf, h.userHandler.updateUser()},
		{http.MethodDelete, "/api/users/{id}", admin, h.userHandler.deleteUser()},
	}

	if h.uploadHandler != nil {
		routes = append(routes, route{http.MethodPost, "/api/uploads", admin, h.uploadHandler.uploadImage()})
	}
	return routes
}

// setupRoutes registers the table. Policy middleware is attached per route so
// it runs after routing and can read URL parameters.
func setupRoutes(r chi.Router, routes []route, authz authorizer) {
	for _, rt := range routes {
		r.With(authz.enforce(rt.access)).Method(rt.method, rt.pattern, rt.handler)
	}
}
