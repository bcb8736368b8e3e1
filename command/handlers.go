package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-nuvemshop/core"
)

type MutatingService interface {
	CompleteCallback(ctx context.Context, req core.CallbackRequest) (core.CallbackResult, error)
	SaveToken(ctx context.Context, storeID core.StoreID, data core.TokenData) (core.TokenRecord, error)
}

type CompleteCallbackCommand struct {
	service MutatingService
}

func NewCompleteCallbackCommand(service MutatingService) *CompleteCallbackCommand {
	return &CompleteCallbackCommand{service: service}
}

func (c *CompleteCallbackCommand) Execute(ctx context.Context, msg CompleteCallbackMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: callback service is required")
	}
	out, err := c.service.CompleteCallback(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

// CompleteCallback executes the command and returns the collected result.
func (c *CompleteCallbackCommand) CompleteCallback(ctx context.Context, req core.CallbackRequest) (core.CallbackResult, error) {
	collector := gocmd.NewResult[core.CallbackResult]()
	if err := c.Execute(gocmd.ContextWithResult(ctx, collector), CompleteCallbackMessage{Request: req}); err != nil {
		return core.CallbackResult{}, err
	}
	result, _ := collector.Load()
	return result, nil
}

type SaveTokenCommand struct {
	service MutatingService
}

func NewSaveTokenCommand(service MutatingService) *SaveTokenCommand {
	return &SaveTokenCommand{service: service}
}

func (c *SaveTokenCommand) Execute(ctx context.Context, msg SaveTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: token service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.SaveToken(ctx, msg.StoreID, msg.Token)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
