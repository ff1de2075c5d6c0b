package client

import (
	"net/http"
	"strings"
)

// Endpoint is one route of the REST API.
type Endpoint struct {
	Method string
	Path   string
}

// Expand substitutes the {id} placeholder.
func (e Endpoint) Expand(id string) string {
	return strings.Replace(e.Path, "{id}", id, 1)
}

const (
	Health = "health"

	Signin  = "signin"
	Signup  = "signup"
	Signout = "signout"
	Me      = "me"

	ListProjects  = "listProjects"
	GetProject    = "getProject"
	CreateProject = "createProject"
	UpdateProject = "updateProject"
	DeleteProject = "deleteProject"

	ListQualifications  = "listQualifications"
	GetQualification    = "getQualification"
	CreateQualification = "createQualification"
	UpdateQualification = "updateQualification"
	DeleteQualification = "deleteQualification"

	SendContact   = "sendContact"
	ListContacts  = "listContacts"
	GetContact    = "getContact"
	UpdateContact = "updateContact"
	DeleteContact = "deleteContact"

	ListUsers  = "listUsers"
	GetUser    = "getUser"
	UpdateUser = "updateUser"
	DeleteUser = "deleteUser"

	UploadImage = "uploadImage"
)

// Endpoints maps every operation name to its route.
var Endpoints = map[string]Endpoint{
	Health: {http.MethodGet, "/api/health"},

	Signin:  {http.MethodPost, "/api/auth/signin"},
	Signup:  {http.MethodPost, "/api/auth/signup"},
	Signout: {http.MethodPost, "/api/auth/signout"},
	Me:      {http.MethodGet, "/api/auth/me"},

	ListProjects:  {http.MethodGet, "/api/projects"},
	GetProject:    {http.MethodGet, "/api/projects/{id}"},
	CreateProject: {http.MethodPost, "/api/projects"},
	UpdateProject: {http.MethodPut, "/api/projects/{id}"},
	DeleteProject: {http.MethodDelete, "/api/projects/{id}"},

	ListQualifications:  {http.MethodGet, "/api/qualifications"},
	GetQualification:    {http.MethodGet, "/api/qualifications/{id}"},
	CreateQualification: {http.MethodPost, "/api/qualifications"},
	UpdateQualification: {http.MethodPut, "/api/qualifications/{id}"},
	DeleteQualification: {http.MethodDelete, "/api/qualifications/{id}"},

	SendContact:   {http.MethodPost, "/api/contacts"},
	ListContacts:  {http.MethodGet, "/api/contacts"},
	GetContact:    {http.MethodGet, "/api/contacts/{id}"},
	UpdateContact: {http.MethodPut, "/api/contacts/{id}"},
	DeleteContact: {http.MethodDelete, "/api/contacts/{id}"},

	ListUsers:  {http.MethodGet, "/api/users"},
	GetUser:    {http.MethodGet, "/api/users/{id}"},
	UpdateUser: {http.MethodPut, "/api/users/{id}"},
	DeleteUser: {http.MethodDelete, "/api/users/{id}"},

	UploadImage: {http.MethodPost, "/api/uploads"},
}
