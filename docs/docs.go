// Package docs содержит описание API для Swagger UI.
//
// Файл соответствует выводу `swag init -g cmd/subsense/main.go` и обновляется вместе с аннотациями обработчиков.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка готовности",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/subscriptions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Возвращает подписки текущего пользователя, новые первыми.",
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Список подписок",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Subscription"}}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Создает подписку для текущего пользователя. Стоимость принимается числом или строкой.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Создать подписку",
                "parameters": [
                    {"description": "Данные новой подписки", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.DummySubscription"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Subscription"}},
                    "400": {"description": "Некорректный запрос", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/subscriptions/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "monthlyTotal складывает стоимости без учёта периода, normalizedMonthlyTotal приводит их к месяцу.",
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Метрики дашборда",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Summary"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/subscriptions/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Subscriptions"],
                "summary": "Выгрузка подписок в XLSX",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/subscriptions/{id}/deactivate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Деактивировать подписку",
                "parameters": [
                    {"type": "string", "description": "ID подписки", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Subscription"}},
                    "400": {"description": "Некорректный ID", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Подписка или пользователь не найдены", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.DummySubscription": {
            "type": "object",
            "required": ["billingCycle", "category", "cost", "name", "nextPayment"],
            "properties": {
                "name": {"type": "string"},
                "cost": {"type": "string", "example": "9.99"},
                "billingCycle": {"type": "string", "enum": ["weekly", "monthly", "yearly"]},
                "nextPayment": {"type": "string", "example": "2025-12-01"},
                "category": {"type": "string", "enum": ["Entertainment", "Productivity", "Health & Fitness", "Education", "News & Media", "Shopping", "Other"]},
                "description": {"type": "string"}
            }
        },
        "models.Subscription": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "name": {"type": "string"},
                "cost": {"type": "number"},
                "currency": {"type": "string"},
                "billingCycle": {"type": "string"},
                "nextPayment": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string", "x-nullable": true},
                "isActive": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        },
        "models.CategoryTotal": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "total": {"type": "number"},
                "count": {"type": "integer"}
            }
        },
        "models.Summary": {
            "type": "object",
            "properties": {
                "monthlyTotal": {"type": "number"},
                "activeCount": {"type": "integer"},
                "yearlyProjection": {"type": "number"},
                "normalizedMonthlyTotal": {"type": "number"},
                "byCategory": {"type": "array", "items": {"$ref": "#/definitions/models.CategoryTotal"}}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Error"},
                "error": {"type": "string", "example": "Missing required fields"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"},
                "data": {}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Subsense API",
	Description:      "API для учёта подписок и метрик дашборда",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
