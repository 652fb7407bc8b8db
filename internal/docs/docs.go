// Package docs регистрирует OpenAPI-описание для /swagger/*.
// Пересборка: swag init -g cmd/portfolio-api/main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/auth/register": {"post": {"tags": ["auth"], "summary": "Register new user", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/auth/login": {"post": {"tags": ["auth"], "summary": "Authenticate user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/v1/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout (revoke token)", "responses": {"200": {"description": "OK"}}}},
        "/v1/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/v1/onboarding": {"post": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Complete onboarding", "responses": {"200": {"description": "OK"}}}},
        "/v1/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Get own profile", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Update own profile", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/{resource}": {
            "get": {"tags": ["content"], "summary": "List resource records", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["content"], "summary": "Create record", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/v1/{resource}/{id}": {
            "get": {"tags": ["content"], "summary": "Get one record", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}, {"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["content"], "summary": "Update record (partial)", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}, {"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["content"], "summary": "Delete record", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}, {"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/v1/contact": {"post": {"tags": ["contact"], "summary": "Send contact message", "responses": {"201": {"description": "Created"}, "429": {"description": "Too Many Requests"}}}},
        "/v1/messages": {"get": {"security": [{"BearerAuth": []}], "tags": ["contact"], "summary": "List received messages", "responses": {"200": {"description": "OK"}}}},
        "/v1/messages/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["contact"], "summary": "Delete message", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/v1/messages/{id}/read": {"patch": {"security": [{"BearerAuth": []}], "tags": ["contact"], "summary": "Mark message as read", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/v1/dashboard/stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Dashboard statistics", "responses": {"200": {"description": "OK"}}}},
        "/v1/portfolio/{user_id}": {"get": {"tags": ["dashboard"], "summary": "Public portfolio", "parameters": [{"type": "string", "name": "user_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/media": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "tags": ["media"], "summary": "Upload image", "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"201": {"description": "Created"}, "503": {"description": "Service Unavailable"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["media"], "summary": "Delete own image", "parameters": [{"type": "string", "name": "key", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/healthz": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/v1/readyz": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Portfolio API",
	Description:      "Portfolio content store: projects, testimonials, services, skills, contact messages and profile.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
