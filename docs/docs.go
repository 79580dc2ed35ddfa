package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "MaintainAI Backend",
    "description": "Maintenance issue reporting, AI triage and lifecycle tracking",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/healthz": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
    "/api/issues": {
      "get": {"tags": ["issues"], "summary": "List issues, newest first", "responses": {"200": {"description": "issues with reporter"}}},
      "post": {"tags": ["issues"], "summary": "Submit a report", "responses": {"201": {"description": "created"}, "400": {"description": "validation error"}, "429": {"description": "rate limited"}}}
    },
    "/api/issues/nearby": {"get": {"tags": ["issues"], "summary": "Issues near a point", "responses": {"200": {"description": "issues with distance"}}}},
    "/api/issues/{id}": {
      "get": {"tags": ["issues"], "summary": "Get issue", "responses": {"200": {"description": "issue"}, "404": {"description": "not found"}}},
      "patch": {"tags": ["issues"], "summary": "Update issue", "responses": {"200": {"description": "issue"}, "404": {"description": "not found"}, "409": {"description": "lifecycle rule violated"}}},
      "delete": {"tags": ["issues"], "summary": "Delete issue", "responses": {"204": {"description": "deleted"}, "404": {"description": "not found"}}}
    },
    "/api/issues/{id}/upvote": {"post": {"tags": ["issues"], "summary": "Toggle upvote", "responses": {"200": {"description": "upvote result"}, "404": {"description": "not found"}}}},
    "/api/issues/{id}/assign": {"post": {"tags": ["issues"], "summary": "Assign technician", "responses": {"200": {"description": "issue"}, "409": {"description": "no technician"}}}},
    "/api/issues/{id}/comments": {
      "get": {"tags": ["comments"], "summary": "List comments", "responses": {"200": {"description": "comments"}}},
      "post": {"tags": ["comments"], "summary": "Add comment", "responses": {"201": {"description": "comment"}}}
    },
    "/api/technicians": {
      "get": {"tags": ["technicians"], "summary": "List technicians", "responses": {"200": {"description": "technicians"}}},
      "post": {"tags": ["technicians"], "summary": "Create technician", "responses": {"201": {"description": "technician"}}}
    },
    "/api/users": {"post": {"tags": ["users"], "summary": "Create user", "responses": {"201": {"description": "user"}, "409": {"description": "duplicate"}}}},
    "/api/users/{id}/issues": {"get": {"tags": ["users"], "summary": "Issues reported by a user", "responses": {"200": {"description": "issues"}}}},
    "/api/stats": {"get": {"tags": ["stats"], "summary": "Dashboard stats", "responses": {"200": {"description": "stats"}}}},
    "/api/geocode": {"get": {"tags": ["geocode"], "summary": "Geocode an address", "responses": {"200": {"description": "place"}}}},
    "/api/reverse-geocode": {"get": {"tags": ["geocode"], "summary": "Reverse geocode", "responses": {"200": {"description": "place"}}}},
    "/api/classify": {"post": {"tags": ["classify"], "summary": "Preview classification", "responses": {"200": {"description": "analysis"}}}},
    "/api/admin/reset": {"post": {"tags": ["admin"], "summary": "Reset demo data", "responses": {"200": {"description": "ok"}}}}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
