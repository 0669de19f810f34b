package errors

import "net/http"

var ErrActorRequired = &Exception{
	Message:    "acting user id is required",
	StatusCode: http.StatusUnauthorized,
}
