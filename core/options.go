package core

type serviceBuilder struct {
	logger         Logger
	loggerProvider LoggerProvider
	errorMapper    ErrorMapper
	exchanger      TokenExchanger
	store          TokenStore
}

type Option func(*serviceBuilder)

func WithLogger(logger Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *serviceBuilder) {
		b.errorMapper = mapper
	}
}

func WithTokenExchanger(exchanger TokenExchanger) Option {
	return func(b *serviceBuilder) {
		b.exchanger = exchanger
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(b *serviceBuilder) {
		b.store = store
	}
}

func defaultServiceBuilder() serviceBuilder {
	return serviceBuilder{errorMapper: DefaultErrorMapper}
}
