package errors

import "net/http"

var ErrNotAuthorized = &Exception{
	Message:    "actor is not a member or owner of this project",
	StatusCode: http.StatusForbidden,
}
