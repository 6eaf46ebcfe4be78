// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "summary": "Exchange the organizer password for a JWT",
                "tags": ["auth"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}],
                "responses": {"200": {"description": "token"}, "401": {"description": "invalid password"}}
            }
        },
        "/tournaments": {
            "get": {"summary": "List tournaments", "tags": ["tournaments"], "responses": {"200": {"description": "summaries"}}},
            "post": {
                "summary": "Create a tournament",
                "tags": ["tournaments"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTournamentInput"}}],
                "responses": {"201": {"description": "created"}}
            }
        },
        "/tournaments/{tournamentID}": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "get": {"summary": "Tournament state", "tags": ["tournaments"], "responses": {"200": {"description": "tournament"}, "404": {"description": "not found"}}},
            "delete": {"summary": "Delete a tournament", "tags": ["tournaments"], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "deleted"}}}
        },
        "/tournaments/{tournamentID}/roster": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "put": {
                "summary": "Load the roster from CSV text",
                "tags": ["roster"],
                "consumes": ["text/csv"],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "tournament"}, "409": {"description": "rounds already exist"}, "422": {"description": "no participants"}}
            }
        },
        "/tournaments/{tournamentID}/roster/fetch": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "post": {
                "summary": "Download the roster CSV from a URL",
                "tags": ["roster"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/FetchRosterInput"}}],
                "responses": {"200": {"description": "tournament"}, "502": {"description": "fetch failed"}}
            }
        },
        "/tournaments/{tournamentID}/rounds": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "post": {"summary": "Seed the first round from the roster", "tags": ["rounds"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "tournament"}, "409": {"description": "already seeded"}}}
        },
        "/tournaments/{tournamentID}/rounds/next": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "post": {"summary": "Build the next round", "tags": ["rounds"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "tournament"}, "409": {"description": "build blocked"}}}
        },
        "/tournaments/{tournamentID}/rounds/next/preview": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "get": {"summary": "Preview the next round without storing it", "tags": ["rounds"], "responses": {"200": {"description": "round"}, "409": {"description": "build blocked"}}}
        },
        "/tournaments/{tournamentID}/rounds/{roundIndex}/compute": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/roundIndex"}],
            "post": {"summary": "Lock the standings of a round", "tags": ["rounds"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "tournament"}, "422": {"description": "missing points"}}}
        },
        "/tournaments/{tournamentID}/rounds/{roundIndex}/matches/{matchIndex}/slots/{slotIndex}/points": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/roundIndex"}, {"$ref": "#/parameters/matchIndex"}, {"$ref": "#/parameters/slotIndex"}],
            "put": {
                "summary": "Record or clear the points of a slot",
                "tags": ["rounds"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RecordPointInput"}}],
                "responses": {"200": {"description": "tournament"}, "409": {"description": "round locked"}}
            }
        },
        "/tournaments/{tournamentID}/rounds/{roundIndex}/matches/{matchIndex}/slots/{slotIndex}/participant": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/roundIndex"}, {"$ref": "#/parameters/matchIndex"}, {"$ref": "#/parameters/slotIndex"}],
            "put": {
                "summary": "Seat a participant in a slot or empty it",
                "tags": ["rounds"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AssignSlotInput"}}],
                "responses": {"200": {"description": "tournament"}, "409": {"description": "round locked"}}
            }
        },
        "/tournaments/{tournamentID}/reset": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "post": {"summary": "Discard the roster and all rounds", "tags": ["tournaments"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "tournament"}}}
        },
        "/tournaments/{tournamentID}/snapshot": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "get": {"summary": "Export the snapshot document", "tags": ["snapshot"], "responses": {"200": {"description": "snapshot"}}},
            "put": {"summary": "Import a snapshot document", "tags": ["snapshot"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "tournament"}, "422": {"description": "malformed snapshot"}}}
        },
        "/tournaments/{tournamentID}/snapshot/publish": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "post": {"summary": "Upload the snapshot to object storage", "tags": ["snapshot"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "publication"}, "503": {"description": "publishing disabled"}}}
        },
        "/tournaments/{tournamentID}/standings": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "get": {"summary": "Champion and final table", "tags": ["tournaments"], "responses": {"200": {"description": "standings"}}}
        },
        "/ws/tournaments/{tournamentID}": {
            "parameters": [{"$ref": "#/parameters/tournamentID"}],
            "get": {"summary": "WebSocket stream of tournament events", "tags": ["realtime"], "responses": {"101": {"description": "switching protocols"}}}
        }
    },
    "parameters": {
        "tournamentID": {"name": "tournamentID", "in": "path", "required": true, "type": "string"},
        "roundIndex": {"name": "roundIndex", "in": "path", "required": true, "type": "integer", "minimum": 0},
        "matchIndex": {"name": "matchIndex", "in": "path", "required": true, "type": "integer", "minimum": 0},
        "slotIndex": {"name": "slotIndex", "in": "path", "required": true, "type": "integer", "minimum": 0}
    },
    "definitions": {
        "LoginInput": {"type": "object", "properties": {"password": {"type": "string"}}},
        "CreateTournamentInput": {"type": "object", "properties": {"name": {"type": "string"}}},
        "FetchRosterInput": {"type": "object", "properties": {"url": {"type": "string"}}},
        "RecordPointInput": {"type": "object", "properties": {"points": {"type": "number", "x-nullable": true}}},
        "AssignSlotInput": {"type": "object", "properties": {"participant_id": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Multiplayer Tournament API",
	Description:      "Multi-player elimination tournaments: roster, rounds, points and standings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
