package flows

import (
	"net/http"

	"roomly/pkg/client"
	apperrors "roomly/pkg/errors"
)

// upstreamError translates a non-2xx downstream response into an AppError
// carrying the same status, so the composed reply keeps the message the
// owning service chose.
func upstreamError(service string, resp *client.Response) error {
	message := client.GetErrorMessage(resp)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperrors.New(apperrors.CodeInvalidInput, message, http.StatusBadRequest)
	case http.StatusUnauthorized:
		return apperrors.New(apperrors.CodeUnauthorized, message, http.StatusUnauthorized)
	case http.StatusForbidden:
		return apperrors.New(apperrors.CodeForbidden, message, http.StatusForbidden)
	case http.StatusNotFound:
		return apperrors.New(apperrors.CodeNotFound, message, http.StatusNotFound)
	case http.StatusConflict:
		return apperrors.New(apperrors.CodeConflict, message, http.StatusConflict)
	case http.StatusUnprocessableEntity:
		return apperrors.New(apperrors.CodeValidation, message, http.StatusUnprocessableEntity)
	default:
		return apperrors.Unavailable(service)
	}
}

func isSuccess(resp *client.Response) bool {
	return resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
}
