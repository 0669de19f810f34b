package errors

import "net/http"

var ErrMemberExists = &Exception{
	Message:    "user is already a member of this project",
	StatusCode: http.StatusConflict,
}
