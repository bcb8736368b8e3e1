package nuvemshop

import (
	"fmt"

	nuvemshopcommand "github.com/goliatone/go-nuvemshop/command"
	nuvemshopquery "github.com/goliatone/go-nuvemshop/query"
)

type CommandQueryService interface {
	nuvemshopcommand.MutatingService
	nuvemshopquery.TokenReader
}

type Commands struct {
	CompleteCallback *nuvemshopcommand.CompleteCallbackCommand
	SaveToken        *nuvemshopcommand.SaveTokenCommand
}

type Queries struct {
	GetStoreToken *nuvemshopquery.GetStoreTokenQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("nuvemshop: command/query service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			CompleteCallback: nuvemshopcommand.NewCompleteCallbackCommand(service),
			SaveToken:        nuvemshopcommand.NewSaveTokenCommand(service),
		},
		queries: Queries{
			GetStoreToken: nuvemshopquery.NewGetStoreTokenQuery(service),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandQueryService = (*Service)(nil)
