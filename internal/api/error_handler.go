package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := toAppError(err)
	if appErr.Status >= 500 {
		log.Error("server error: %v", err)
	} else {
		log.Warn("client error: %v", err)
	}

	writeJSON(w, r, appErr.Status, map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": message(appErr),
		},
	})
}

// message appends the driver diagnostic to store failures so a duplicate name
// can be told apart from other causes.
func message(appErr *errors.AppError) string {
	switch appErr.Code {
	case errors.ErrCodePersistence, errors.ErrCodeConflict:
		if appErr.Err != nil {
			return appErr.Message + ": " + appErr.Err.Error()
		}
	}
	return appErr.Message
}

func toAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
		}
		return &errors.AppError{
			Code:    errors.ErrCodeValidation,
			Message: strings.Join(msgs, "; "),
			Status:  http.StatusBadRequest,
			Err:     err,
		}
	}
	return errors.NewInternalError(err)
}
