package command

import (
	"strings"

	"github.com/goliatone/go-nuvemshop/core"
)

const (
	TypeCompleteCallback = "nuvemshop.command.callback.complete"
	TypeSaveToken        = "nuvemshop.command.token.save"
)

type CompleteCallbackMessage struct {
	Request core.CallbackRequest
}

func (CompleteCallbackMessage) Type() string { return TypeCompleteCallback }

func (m CompleteCallbackMessage) Validate() error {
	if strings.TrimSpace(m.Request.Code) == "" {
		return commandValidationError("code", "authorization code is required")
	}
	if strings.TrimSpace(m.Request.StoreID) != "" {
		if _, err := core.ParseStoreID(m.Request.StoreID); err != nil {
			return commandWrapValidation(err, "command: invalid store id")
		}
	}
	return nil
}

type SaveTokenMessage struct {
	StoreID core.StoreID
	Token   core.TokenData
}

func (SaveTokenMessage) Type() string { return TypeSaveToken }

func (m SaveTokenMessage) Validate() error {
	if !m.StoreID.Valid() {
		return commandValidationError("store_id", "store id must be a positive integer")
	}
	if strings.TrimSpace(m.Token.AccessToken) == "" {
		return commandValidationError("access_token", "access token is required")
	}
	return nil
}
