package sdk

import "fmt"

// UserFacingError is implemented by every error in the API error taxonomy. The
// request pipeline normalizes all HTTP failures into one of these types, so
// callers display UserMessage() verbatim and never re-derive wording from raw
// status codes.
type UserFacingError interface {
	error
	UserMessage() string
}

type ErrAuthentication struct {
	Reason string `json:"reason"`
}

func NewErrAuthentication(reason string) *ErrAuthentication {
	return &ErrAuthentication{Reason: reason}
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("could not authenticate the request: %s", e.Reason)
}

func (e *ErrAuthentication) UserMessage() string {
	return "Your email address or password is incorrect."
}

type ErrAuthorization struct {
	Reason string `json:"reason,omitempty"`
}

func NewErrAuthorization() *ErrAuthorization {
	return &ErrAuthorization{}
}

func (e *ErrAuthorization) Error() string {
	return "the request is not authorized"
}

func (e *ErrAuthorization) UserMessage() string {
	return "You are not allowed to perform this action."
}

type ErrBadRequest struct {
	Reason  string   `json:"reason"`
	Details []string `json:"details,omitempty"`
}

func NewErrBadRequest(reason string, details ...string) *ErrBadRequest {
	return &ErrBadRequest{Reason: reason, Details: details}
}

func (e *ErrBadRequest) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("bad request: %s", e.Reason)
	}
	msg := fmt.Sprintf("bad request: %s:", e.Reason)
	for i, detail := range e.Details {
		msg = fmt.Sprintf("%s\n  %d. %s", msg, i, detail)
	}
	return msg
}

func (e *ErrBadRequest) UserMessage() string {
	return "The request was rejected. Please review the submitted values."
}

type ErrNotFound struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func NewErrNotFound(tipe, id string) *ErrNotFound {
	return &ErrNotFound{Type: tipe, ID: id}
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Type, e.ID)
}

func (e *ErrNotFound) UserMessage() string {
	return "The requested resource could not be found."
}

type ErrConflict struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func NewErrConflict(tipe, id string) *ErrConflict {
	return &ErrConflict{Type: tipe, ID: id}
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("a %s with the ID %q already exists", e.Type, e.ID)
}

func (e *ErrConflict) UserMessage() string {
	return "This record conflicts with one that already exists."
}

type ErrInternalServer struct{}

func NewErrInternalServer() *ErrInternalServer {
	return &ErrInternalServer{}
}

func (e *ErrInternalServer) Error() string {
	return "an internal server error occurred"
}

func (e *ErrInternalServer) UserMessage() string {
	return "Something went wrong on our side. Please try again later."
}

// ErrUnrecognized covers any server status the taxonomy has no dedicated type
// for. It carries the raw status and whatever message the server sent.
type ErrUnrecognized struct {
	StatusCode int    `json:"statusCode"`
	Reason     string `json:"reason,omitempty"`
}

func NewErrUnrecognized(statusCode int, reason string) *ErrUnrecognized {
	return &ErrUnrecognized{StatusCode: statusCode, Reason: reason}
}

func (e *ErrUnrecognized) Error() string {
	return fmt.Sprintf("received %d from API server: %s", e.StatusCode, e.Reason)
}

func (e *ErrUnrecognized) UserMessage() string {
	return fmt.Sprintf(
		"The server returned an unexpected response (%d). %s",
		e.StatusCode,
		e.Reason,
	)
}

// ErrClientSide indicates the request never produced a response: DNS failure,
// refused connection, canceled context, and the like.
type ErrClientSide struct {
	Cause error
}

func NewErrClientSide(cause error) *ErrClientSide {
	return &ErrClientSide{Cause: cause}
}

func (e *ErrClientSide) Error() string {
	return fmt.Sprintf("client-side error invoking API: %s", e.Cause)
}

func (e *ErrClientSide) UserMessage() string {
	return "The server could not be reached. Please check your connection."
}

func (e *ErrClientSide) Unwrap() error {
	return e.Cause
}
