// Package apperr is the closed error taxonomy surfaced to HTTP clients.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUnauthorized     Code = "unauthorized"
	CodeNotFound         Code = "not_found"
	CodeNotInGame        Code = "not_in_game"
	CodeAlreadyInGame    Code = "already_in_game"
	CodeMaxPlayerReached Code = "max_player_reached"
	CodeNotEnoughPlayers Code = "not_enough_players"
	CodeInvalidName      Code = "invalid_name"
	CodeIncorrectState   Code = "incorrect_state"
	CodeVotesClosed      Code = "votes_closed"
	CodeBadRequest       Code = "bad_request"
	CodeInternal         Code = "internal"
)

// Error is the only error type that crosses the transport boundary.
// Msg is set for internal and bad request errors only.
type Error struct {
	Code Code   `json:"error"`
	Msg  string `json:"msg,omitempty"`
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return string(e.Code) + ": " + e.Msg
	}
	return string(e.Code)
}

// Is matches on Code so that wrapped copies of a sentinel still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Msg == "" || t.Msg == e.Msg)
}

var (
	ErrUnauthorized     = &Error{Code: CodeUnauthorized}
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrNotInGame        = &Error{Code: CodeNotInGame}
	ErrAlreadyInGame    = &Error{Code: CodeAlreadyInGame}
	ErrMaxPlayerReached = &Error{Code: CodeMaxPlayerReached}
	ErrNotEnoughPlayers = &Error{Code: CodeNotEnoughPlayers}
	ErrInvalidName      = &Error{Code: CodeInvalidName}
	ErrIncorrectState   = &Error{Code: CodeIncorrectState}
	ErrVotesClosed      = &Error{Code: CodeVotesClosed}
	ErrBadRequest       = &Error{Code: CodeBadRequest}
)

// BadRequest is ErrBadRequest with a message naming the offending input.
func BadRequest(format string, args ...any) *Error {
	return &Error{Code: ErrBadRequest.Code, Msg: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Msg: fmt.Sprintf(format, args...)}
}

// From folds any error into the taxonomy. Unknown errors become internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("%v", err)
}

func StatusCode(err error) int {
	switch From(err).Code {
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotInGame, CodeAlreadyInGame, CodeMaxPlayerReached, CodeNotEnoughPlayers,
		CodeInvalidName, CodeIncorrectState, CodeVotesClosed, CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Write sends err as a JSON body with its status code.
func Write(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(err))
	_ = json.NewEncoder(w).Encode(From(err))
}
