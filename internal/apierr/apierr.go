package apierr

import (
  "errors"
  "fmt"
  "net/http"
)

const (
  CodeValidation = "validation_error"
  CodeAuth       = "auth_error"
  CodeNotFound   = "not_found"
  CodeUpstream   = "upstream_error"
  CodeServer     = "server_error"
)

type Error struct {
  Status int
  Code   string
  Err    error
}

func (e *Error) Error() string {
  if e == nil {
    return ""
  }
  if e.Err != nil {
    return e.Err.Error()
  }
  if e.Code != "" {
    return e.Code
  }
  if e.Status != 0 {
    return fmt.Sprintf("api error (%d)", e.Status)
  }
  return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
  return &Error{Status: status, Code: code, Err: err}
}

func Validation(err error) *Error {
  return New(http.StatusBadRequest, CodeValidation, err)
}

func Auth(err error) *Error {
  return New(http.StatusUnauthorized, CodeAuth, err)
}

func NotFound(err error) *Error {
  return New(http.StatusNotFound, CodeNotFound, err)
}

// Upstream covers failures of external collaborators (the document store and
// the language model). They surface as 500s; the distinct code lets handlers
// suppress the raw message in production.
func Upstream(err error) *Error {
  return New(http.StatusInternalServerError, CodeUpstream, err)
}

func Server(err error) *Error {
  return New(http.StatusInternalServerError, CodeServer, err)
}

// From normalizes any error into an *Error, defaulting to a server error.
func From(err error) *Error {
  if err == nil {
    return nil
  }
  var apiErr *Error
  if errors.As(err, &apiErr) {
    return apiErr
  }
  return Server(err)
}
