package core

import (
	"context"
	"net/http"
	"sort"
	"time"
)

type operation struct {
	name    string
	success string
}

var (
	opCompleteCallback = operation{name: "complete_callback", success: "token stored"}
	opSaveToken        = operation{name: "save_token", success: "token stored"}
)

// observe logs the outcome of one service operation: info on success, warn
// for client errors, error for everything else. Secrets never enter fields.
func (s *Service) observe(ctx context.Context, startedAt time.Time, op operation, err error, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	entry := make(map[string]any, len(fields)+4)
	for key, value := range fields {
		entry[key] = value
	}
	entry["operation"] = op.name
	entry["duration_ms"] = time.Since(startedAt).Milliseconds()

	logger := s.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if err != nil {
		entry["error"] = err.Error()
		if code := TextCode(err); code != "" {
			entry["text_code"] = code
		}
	}
	var args []any
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(entry)
	} else {
		args = keyValues(entry)
	}

	switch {
	case err == nil:
		logger.Info(op.success, args...)
	case HTTPStatus(err) < http.StatusInternalServerError:
		logger.Warn(op.name+" rejected", args...)
	default:
		logger.Error(op.name+" failed", args...)
	}
}

// keyValues flattens fields into sorted key/value pairs.
func keyValues(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
