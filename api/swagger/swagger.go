package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutoring Schedule API",
        "description": "Room and teacher availability checks and branch day agendas",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Booking conflict detection"},
        {"name": "Agenda", "description": "Branch daily occupancy timeline"}
    ],
    "paths": {
        "/availability/check": {
            "post": {
                "tags": ["Availability"],
                "summary": "Check room and teacher availability",
                "description": "Always 200 unless the request is invalid; available=false carries the issues.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/AvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verdict", "schema": {"$ref": "#/definitions/AvailabilityEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/branches/{id}/agenda": {
            "get": {
                "tags": ["Agenda"],
                "summary": "Branch day agenda",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "date", "type": "string", "format": "date", "description": "Defaults to today"}
                ],
                "responses": {
                    "200": {"description": "Agenda; meta.cache_hit reports cache use", "schema": {"$ref": "#/definitions/AgendaEnvelope"}},
                    "400": {"description": "Invalid date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/branches/{id}/agenda/export": {
            "get": {
                "tags": ["Agenda"],
                "summary": "Download a branch day agenda",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "date", "type": "string", "format": "date"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Invalid date or format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "AvailabilityRequest": {
            "type": "object",
            "required": ["date", "start_time", "end_time", "branch_id"],
            "properties": {
                "date": {"type": "string", "format": "date", "example": "2024-06-04"},
                "start_time": {"type": "string", "example": "10:30"},
                "end_time": {"type": "string", "example": "11:00"},
                "branch_id": {"type": "string"},
                "room_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "exclude_class_id": {"type": "string"},
                "exclude_makeup_id": {"type": "string"}
            }
        },
        "Conflict": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["class", "makeup"]},
                "source_id": {"type": "string"},
                "name": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "Issue": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["holiday", "room_conflict", "teacher_conflict", "unavailable"]},
                "message": {"type": "string"},
                "conflict": {"$ref": "#/definitions/Conflict"}
            }
        },
        "AvailabilityResult": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"},
                "issues": {"type": "array", "items": {"$ref": "#/definitions/Issue"}}
            }
        },
        "TrialDetail": {
            "type": "object",
            "properties": {
                "trial_id": {"type": "string"},
                "student_name": {"type": "string"},
                "subject_name": {"type": "string"},
                "status": {"type": "string"},
                "attended": {"type": "boolean"}
            }
        },
        "BusySlot": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["class", "makeup", "trial"]},
                "source_id": {"type": "string"},
                "name": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "room_id": {"type": "string"},
                "room_name": {"type": "string"},
                "teacher_id": {"type": "string"},
                "teacher_name": {"type": "string"},
                "subject_name": {"type": "string"},
                "trial_count": {"type": "integer"},
                "trial_details": {"type": "array", "items": {"$ref": "#/definitions/TrialDetail"}}
            }
        },
        "DayAgenda": {
            "type": "object",
            "properties": {
                "branch_id": {"type": "string"},
                "date": {"type": "string", "format": "date-time"},
                "is_holiday": {"type": "boolean"},
                "holiday_name": {"type": "string"},
                "busy_slots": {"type": "array", "items": {"$ref": "#/definitions/BusySlot"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "AvailabilityEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/AvailabilityResult"}
            }
        },
        "AgendaEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/DayAgenda"},
                "meta": {"type": "object", "properties": {"cache_hit": {"type": "boolean"}}}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
