package model

import (
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperr "startup-directory/pkg/common/errors"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"  // client errors
	StatusError   = "error" // server errors
)

// Success wraps data in the uniform envelope.
func Success(message string, data utils.H) utils.H {
	return utils.H{
		"status":  StatusSuccess,
		"message": message,
		"data":    data,
	}
}

// ErrorRes is the body of every non-2xx response.
type ErrorRes struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Errors  []apperr.Violation `json:"errors,omitempty"`
}
