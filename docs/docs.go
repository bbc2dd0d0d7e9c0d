// Package docs registers the OpenAPI description served under /swagger.
//
// The operation annotations live on the handlers in internal/handler;
// regenerate this file with `swag init -g cmd/server/main.go` after changing them.
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
        "/companies": {
            "get": {"tags": ["companies"], "summary": "List companies", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["companies"], "summary": "Create company", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/companies/{id}": {
            "get": {"tags": ["companies"], "summary": "Get company", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["companies"], "summary": "Update company", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/companies/{id}/reminders/due": {
            "get": {"tags": ["reminders"], "summary": "List invoices due for a reminder", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "date", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/companies/{id}/reminders/due/export": {
            "get": {"tags": ["reminders"], "summary": "Export due reminders", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "format", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/invoices": {
            "get": {"tags": ["invoices"], "summary": "List invoices of a company", "parameters": [{"type": "string", "name": "company_id", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["invoices"], "summary": "Create draft invoice", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/invoices/{id}": {
            "get": {"tags": ["invoices"], "summary": "Get invoice", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/invoices/{id}/items": {
            "put": {"tags": ["invoices"], "summary": "Replace line items", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/invoices/{id}/items/reorder": {
            "post": {"tags": ["invoices"], "summary": "Reorder line items", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/invoices/{id}/items/{itemId}/move": {
            "post": {"tags": ["invoices"], "summary": "Move a line item up or down", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "itemId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/invoices/{id}/totals/recompute": {
            "post": {"tags": ["invoices"], "summary": "Recompute and store totals", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/invoices/{id}/totals/verify": {
            "get": {"tags": ["invoices"], "summary": "Compare stored totals with a fresh computation", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/invoices/{id}/send": {
            "post": {"tags": ["invoices"], "summary": "Mark draft invoice as sent", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/invoices/{id}/pay": {
            "post": {"tags": ["invoices"], "summary": "Mark invoice as paid", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/invoices/{id}/reminder-eligibility": {
            "get": {"tags": ["reminders"], "summary": "Evaluate reminder eligibility", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "date", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/invoices/{id}/reminders": {
            "get": {"tags": ["reminders"], "summary": "List reminders sent for an invoice", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["reminders"], "summary": "Send next reminder", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Faktura API",
	Description:      "Invoice totals and payment reminders for German small businesses.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
