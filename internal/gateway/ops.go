package gateway

import (
	"net/http"
	"strings"
)

// route maps an abstract operation name to its HTTP shape. The path may
// contain an {id} placeholder.
type route struct {
	method string
	path   string
}

var routes = map[string]route{
	"auth.login":   {http.MethodPost, "/api/auth/login"},
	"auth.refresh": {http.MethodPost, "/api/auth/refresh"},

	"candidates.uploadCVs":             {http.MethodPost, "/api/candidates/upload"},
	"candidates.getByStage":            {http.MethodGet, "/api/candidates"},
	"candidates.getByRequirement":      {http.MethodGet, "/api/candidates"},
	"candidates.getById":               {http.MethodGet, "/api/candidates/{id}"},
	"candidates.updateShortlist":       {http.MethodPost, "/api/candidates/{id}/shortlist"},
	"candidates.updateTelephonic":      {http.MethodPost, "/api/candidates/{id}/telephonic"},
	"candidates.updateOwnerDiscussion": {http.MethodPost, "/api/candidates/{id}/owner-discussion"},
	"candidates.scheduleInterview":     {http.MethodPost, "/api/candidates/{id}/schedule"},
	"candidates.updateWalkin":          {http.MethodPost, "/api/candidates/{id}/walkin"},
	"candidates.updateHRInterview":     {http.MethodPost, "/api/candidates/{id}/hr-interview"},
	"candidates.updateTests":           {http.MethodPost, "/api/candidates/{id}/tests"},
	"candidates.updateFinalReview":     {http.MethodPost, "/api/candidates/{id}/final-review"},
	"candidates.reject":                {http.MethodPost, "/api/candidates/{id}/reject"},
	"candidates.generateMessage":       {http.MethodPost, "/api/candidates/{id}/message"},

	"requirements.getAll":  {http.MethodGet, "/api/requirements"},
	"requirements.create":  {http.MethodPost, "/api/requirements"},
	"requirements.approve": {http.MethodPost, "/api/requirements/{id}/approve"},
	"requirements.reject":  {http.MethodPost, "/api/requirements/{id}/reject"},
}

func (r route) url(baseURL, id, query string) string {
	path := strings.Replace(r.path, "{id}", id, 1)
	u := strings.TrimRight(baseURL, "/") + path
	if query != "" {
		u += "?" + query
	}
	return u
}
