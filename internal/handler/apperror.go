package handler

import "net/http"

type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingEmail   = &AppError{http.StatusBadRequest, "email query parameter is required"}
	ErrInvalidBody    = &AppError{http.StatusBadRequest, "invalid request body"}
	ErrDuplicateEmail = &AppError{http.StatusBadRequest, "email already in use"}
	ErrBadCredentials = &AppError{http.StatusUnauthorized, "email or password incorrect"}
	ErrRouteNotFound  = &AppError{http.StatusNotFound, "the requested resource was not found"}
	ErrInternal       = &AppError{http.StatusInternalServerError, "an unexpected error occurred, please try again later"}
)
