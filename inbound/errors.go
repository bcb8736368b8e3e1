package inbound

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-nuvemshop/core"
)

// internalError builds a 500 envelope; source may be nil.
func internalError(source error, message string, metadata map[string]any) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, goerrors.CategoryInternal)
	} else {
		err = goerrors.Wrap(source, goerrors.CategoryInternal, message)
	}
	err = err.WithCode(http.StatusInternalServerError).WithTextCode(core.ServiceErrorInternal)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
