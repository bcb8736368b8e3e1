package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type ConfigValidator func(Config) error

// LoadConfig resolves defaults < loaded < runtime and validates the result.
// A nil validator falls back to Config.Validate.
func LoadConfig(
	ctx context.Context,
	loader RawConfigLoader,
	runtime Config,
	validate ConfigValidator,
) (Config, error) {
	defaults := DefaultConfig()
	loaded, err := NewCfgxConfigProvider(loader).Load(ctx, defaults)
	if err != nil {
		return Config{}, err
	}
	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		return Config{}, err
	}
	if validate == nil {
		validate = Config.Validate
	}
	resolved.Database = resolved.Database.Normalized()
	if err := validate(resolved); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// ValidateStorage only checks the settings needed to reach the database.
func ValidateStorage(cfg Config) error {
	return cfg.Database.Validate()
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// StaticConfigLoader serves a fixed raw map, mostly useful in tests.
func StaticConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw, cfgx.WithDefaults(defaults))
	if err != nil {
		return Config{}, fmt.Errorf("core: build config: %w", err)
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			configToLayerMap(loaded, false),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			configToLayerMap(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value, cfgx.WithDefaults(defaults))
	if err != nil {
		return Config{}, fmt.Errorf("core: build resolved config: %w", err)
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}

	oauth := map[string]any{}
	putString(oauth, "client_id", cfg.OAuth.ClientID, includeZero)
	putString(oauth, "client_secret", cfg.OAuth.ClientSecret, includeZero)
	putString(oauth, "token_url", cfg.OAuth.TokenURL, includeZero)
	putString(oauth, "user_agent", cfg.OAuth.UserAgent, includeZero)
	if includeZero || cfg.OAuth.RequestTimeout > 0 {
		oauth["request_timeout"] = cfg.OAuth.RequestTimeout
	}
	putSection(layer, "oauth", oauth)

	database := map[string]any{}
	putString(database, "driver", cfg.Database.Driver, includeZero)
	putString(database, "url", cfg.Database.URL, includeZero)
	if includeZero || cfg.Database.MaxOpenConns > 0 {
		database["max_open_conns"] = cfg.Database.MaxOpenConns
	}
	if includeZero || cfg.Database.MaxIdleConns > 0 {
		database["max_idle_conns"] = cfg.Database.MaxIdleConns
	}
	if includeZero || cfg.Database.ConnMaxLifetime > 0 {
		database["conn_max_lifetime"] = cfg.Database.ConnMaxLifetime
	}
	if includeZero || cfg.Database.PingTimeout > 0 {
		database["ping_timeout"] = cfg.Database.PingTimeout
	}
	if includeZero || cfg.Database.Debug {
		database["debug"] = cfg.Database.Debug
	}
	putSection(layer, "database", database)

	server := map[string]any{}
	if includeZero || cfg.Server.Port > 0 {
		server["port"] = cfg.Server.Port
	}
	if includeZero || cfg.Server.ShutdownTimeout > 0 {
		server["shutdown_timeout"] = cfg.Server.ShutdownTimeout
	}
	putSection(layer, "server", server)

	logCfg := map[string]any{}
	putString(logCfg, "level", cfg.Log.Level, includeZero)
	if includeZero || cfg.Log.JSON {
		logCfg["json"] = cfg.Log.JSON
	}
	putSection(layer, "log", logCfg)

	return layer
}

func putString(section map[string]any, key string, value string, includeZero bool) {
	if includeZero || strings.TrimSpace(value) != "" {
		section[key] = strings.TrimSpace(value)
	}
}

func putSection(layer map[string]any, key string, section map[string]any) {
	if len(section) == 0 {
		return
	}
	layer[key] = section
}

type configKeyKind int

const (
	kindString configKeyKind = iota
	kindInt
	kindBool
	kindDuration
)

type configKey struct {
	path string
	env  string
	kind configKeyKind
}

// configKeys lists every supported key with the environment variable that
// feeds it. CLIENT_ID, CLIENT_SECRET, DATABASE_URL and PORT keep the names
// hosting platforms already export.
var configKeys = []configKey{
	{path: "oauth.client_id", env: "CLIENT_ID", kind: kindString},
	{path: "oauth.client_secret", env: "CLIENT_SECRET", kind: kindString},
	{path: "oauth.token_url", env: "OAUTH_TOKEN_URL", kind: kindString},
	{path: "oauth.request_timeout", env: "OAUTH_REQUEST_TIMEOUT", kind: kindDuration},
	{path: "oauth.user_agent", env: "OAUTH_USER_AGENT", kind: kindString},
	{path: "database.driver", env: "DATABASE_DRIVER", kind: kindString},
	{path: "database.url", env: "DATABASE_URL", kind: kindString},
	{path: "database.max_open_conns", env: "DATABASE_MAX_OPEN_CONNS", kind: kindInt},
	{path: "database.max_idle_conns", env: "DATABASE_MAX_IDLE_CONNS", kind: kindInt},
	{path: "database.conn_max_lifetime", env: "DATABASE_CONN_MAX_LIFETIME", kind: kindDuration},
	{path: "database.ping_timeout", env: "DATABASE_PING_TIMEOUT", kind: kindDuration},
	{path: "database.debug", env: "DATABASE_DEBUG", kind: kindBool},
	{path: "server.port", env: "PORT", kind: kindInt},
	{path: "server.shutdown_timeout", env: "SERVER_SHUTDOWN_TIMEOUT", kind: kindDuration},
	{path: "log.level", env: "LOG_LEVEL", kind: kindString},
	{path: "log.json", env: "LOG_JSON", kind: kindBool},
}

// ViperConfigLoader reads the environment and an optional config file.
// Environment values win over file values.
type ViperConfigLoader struct {
	ConfigFile string
}

func NewViperConfigLoader(configFile string) *ViperConfigLoader {
	return &ViperConfigLoader{ConfigFile: strings.TrimSpace(configFile)}
}

func (l *ViperConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	v := viper.New()
	for _, key := range configKeys {
		if err := v.BindEnv(key.path, key.env); err != nil {
			return nil, fmt.Errorf("core: bind env %s: %w", key.env, err)
		}
	}
	if l != nil && l.ConfigFile != "" {
		v.SetConfigFile(l.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("core: read config file %q: %w", l.ConfigFile, err)
		}
	}

	raw := map[string]any{}
	for _, key := range configKeys {
		if !v.IsSet(key.path) {
			continue
		}
		value, err := parseConfigValue(key, v.Get(key.path))
		if err != nil {
			return nil, err
		}
		setNested(raw, key.path, value)
	}
	return raw, nil
}

// parseConfigValue rejects values that do not parse instead of letting them
// collapse to a zero value and fall back to the default.
func parseConfigValue(key configKey, raw any) (any, error) {
	if text, ok := raw.(string); ok {
		raw = strings.TrimSpace(text)
	}
	var (
		value any
		err   error
	)
	switch key.kind {
	case kindInt:
		value, err = cast.ToIntE(raw)
	case kindBool:
		value, err = cast.ToBoolE(raw)
	case kindDuration:
		value, err = cast.ToDurationE(raw)
	default:
		value, err = cast.ToStringE(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("core: invalid %s (%s) value %q: %w", key.path, key.env, fmt.Sprint(raw), err)
	}
	return value, nil
}

func setNested(raw map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := raw
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

var (
	_ RawConfigLoader = (*ViperConfigLoader)(nil)
	_ RawConfigLoader = staticRawConfigLoader{}
	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}
)
