package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "iTeach Web",
        "description": "Lesson dialogs and student schedule fragments in front of the lesson API. Every route answers text/html fragments or the JSON envelope depending on the Accept header.",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "produces": ["application/json", "text/html"],
    "tags": [
        {"name": "Lessons", "description": "Lesson create, edit and delete dialogs"},
        {"name": "Dialogs", "description": "The single open dialog of a browser session"},
        {"name": "Students", "description": "A student's lessons, month by month"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/teacher/lessons/new": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Open the create lesson dialog on a picked slot",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "from", "in": "query", "type": "string", "required": true},
                    {"name": "to", "in": "query", "type": "string", "required": true},
                    {"name": "success", "in": "query", "type": "string", "description": "reload, event:<name> or redirect:<route>"},
                    {"name": "cancel", "in": "query", "type": "string", "description": "reload, event:<name> or redirect:<route>"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DialogEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/lessons/edit": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Open the edit lesson dialog from the lesson page fields",
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "parameters": [
                    {"name": "lesson-id", "in": "formData", "type": "integer", "required": true},
                    {"name": "lesson-student", "in": "formData", "type": "string"},
                    {"name": "lesson-date", "in": "formData", "type": "string"},
                    {"name": "lesson-from", "in": "formData", "type": "string"},
                    {"name": "lesson-to", "in": "formData", "type": "string"},
                    {"name": "lesson-location", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DialogEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/lessons/{id}/delete": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Ask for confirmation before deleting a lesson",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/lessons/{id}": {
            "delete": {
                "tags": ["Lessons"],
                "summary": "Delete a lesson once confirmed",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted; navigate home", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Rejected by the lesson API", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Lesson API unreachable or failing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dialogs/current": {
            "get": {
                "tags": ["Dialogs"],
                "summary": "Re-render the open dialog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DialogEnvelope"}},
                    "404": {"description": "No dialog is open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dialogs/submit": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Submit the open lesson dialog",
                "description": "Always answers with a dialog outcome, never with a redirect.",
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DialogFields"}}
                ],
                "responses": {
                    "200": {"description": "Dialog closed", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}},
                    "400": {"description": "Invalid fields; dialog stays open", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}},
                    "404": {"description": "No dialog is open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "A submission is already in flight", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}},
                    "422": {"description": "Rejected by the lesson API; dialog stays open", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}},
                    "502": {"description": "Lesson API failure; dialog stays open", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}}
                }
            }
        },
        "/dialogs/cancel": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Cancel the open lesson dialog",
                "responses": {
                    "200": {"description": "Dialog closed", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}},
                    "404": {"description": "No dialog is open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Initialise a student's schedule on the current month",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}},
                    "502": {"description": "Lesson API failure; error shown inline", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}}
                }
            }
        },
        "/student/{id}/lessons": {
            "get": {
                "tags": ["Students"],
                "summary": "Reload the current month",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}}
                }
            }
        },
        "/student/{id}/lessons/nextMonth": {
            "get": {
                "tags": ["Students"],
                "summary": "Move one month forward",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}},
                    "409": {"description": "Superseded by a newer navigation; the committed month is returned", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}}
                }
            }
        },
        "/student/{id}/lessons/previousMonth": {
            "get": {
                "tags": ["Students"],
                "summary": "Move one month back",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}},
                    "409": {"description": "Superseded by a newer navigation; the committed month is returned", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}}
                }
            }
        },
        "/student/{id}/lessons/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Download the displayed month",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "DialogAction": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["none", "event", "redirect", "reload"]},
                "target": {"type": "string"}
            }
        },
        "DialogFields": {
            "type": "object",
            "properties": {
                "lessonDate": {"type": "string"},
                "lessonFrom": {"type": "string"},
                "lessonTo": {"type": "string"},
                "lessonStudent": {"type": "string"},
                "lessonLocation": {"type": "string"}
            }
        },
        "DatePicker": {
            "type": "object",
            "properties": {
                "format": {"type": "string"},
                "placeholder": {"type": "string"},
                "value": {"type": "string"},
                "showOtherMonths": {"type": "boolean"},
                "selectOtherMonths": {"type": "boolean"}
            }
        },
        "DialogView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string", "enum": ["create", "edit"]},
                "lessonId": {"type": "integer"},
                "title": {"type": "string"},
                "width": {"type": "integer"},
                "submitLabel": {"type": "string"},
                "cancelLabel": {"type": "string"},
                "fields": {"$ref": "#/definitions/DialogFields"},
                "datePicker": {"$ref": "#/definitions/DatePicker"},
                "state": {"type": "string", "enum": ["open", "submitting", "closed"]},
                "error": {"type": "string"}
            }
        },
        "DialogOutcome": {
            "type": "object",
            "properties": {
                "closed": {"type": "boolean"},
                "action": {"$ref": "#/definitions/DialogAction"},
                "dialog": {"$ref": "#/definitions/DialogView"}
            }
        },
        "LessonEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "link": {"type": "string"},
                "schedule": {"type": "string"},
                "location": {"type": "string"}
            }
        },
        "ScheduleView": {
            "type": "object",
            "properties": {
                "studentId": {"type": "integer"},
                "referenceDate": {"type": "string"},
                "monthHeader": {"type": "string"},
                "lessons": {"type": "array", "items": {"$ref": "#/definitions/LessonEntry"}},
                "totalHours": {"type": "string"},
                "hoursLabel": {"type": "string"},
                "previousLabel": {"type": "string"},
                "nextLabel": {"type": "string"},
                "error": {"type": "string"}
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
        "DialogEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/DialogView"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        },
        "OutcomeEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/DialogOutcome"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        },
        "ScheduleEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ScheduleView"},
                "error": {"$ref": "#/definitions/APIError"}
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
