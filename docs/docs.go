// Package docs registers the OpenAPI document of the stats API with swag so
// gin-swagger can serve it under /swagger. Keep it in sync with the godoc
// annotations in internal/http/handlers.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.HealthResponse"}
                    }
                }
            }
        },
        "/stats/{chat}": {
            "get": {
                "description": "Returns daily, hourly and weekday message counts plus a per-user leaderboard for one chat.\nDays are UTC epoch days shifted by offset hours. from and to must be given together.",
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Chat statistics",
                "parameters": [
                    {"type": "string", "description": "Chat alias (e.g. @golang) or public id", "name": "chat", "in": "path", "required": true},
                    {"type": "integer", "description": "First day (inclusive, epoch days)", "name": "from", "in": "query"},
                    {"type": "integer", "description": "Last day (inclusive, epoch days)", "name": "to", "in": "query"},
                    {"type": "integer", "default": 0, "description": "UTC offset in hours, -12..12", "name": "offset", "in": "query"},
                    {"type": "string", "description": "Restrict to one user (public id)", "name": "user", "in": "query"},
                    {"type": "integer", "description": "Keep only this weekday, 0 = Monday .. 6 = Sunday", "name": "weekday", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.StatsResult"}},
                    "400": {"description": "invalid offset, dates, weekday or parameters", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "chat or user not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.LeaderboardEntry": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string", "example": "a8Xk2Lq0"},
                "name": {"type": "string", "example": "Ada Lovelace"},
                "messages": {"type": "integer", "example": 42}
            }
        },
        "domain.StatsResult": {
            "type": "object",
            "properties": {
                "chat_id": {"type": "string", "example": "Q3vT9bZx"},
                "chat_name": {"type": "string", "example": "Go Developers"},
                "first_hour": {"type": "integer"},
                "last_hour": {"type": "integer"},
                "start_day": {"type": "integer"},
                "skip_day": {"type": "integer"},
                "daily_users": {"type": "array", "items": {"type": "integer"}},
                "daily_messages": {"type": "array", "items": {"type": "integer"}},
                "messages_by_hour": {"type": "array", "items": {"type": "integer"}},
                "messages_by_weekday": {"type": "array", "items": {"type": "integer"}},
                "leaderboard": {"type": "array", "items": {"$ref": "#/definitions/domain.LeaderboardEntry"}}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "code": {"type": "string", "example": "chat_not_found"},
                "error": {"type": "string", "example": "chat not found"}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "chat-stats API",
	Description:      "Read-only message statistics for ingested group chats.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
