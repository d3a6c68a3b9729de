package efconfig

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"

	"github.com/ergomake/envform/internal/cloud"
	"github.com/ergomake/envform/internal/storage"
	"github.com/ergomake/envform/pkg/envvars"
)

const (
	ContextTypeLocal = "local"
	ContextTypeS3    = "s3"
	ContextTypeRedis = "redis"
	ContextTypeEtcd  = "etcd"
	ContextTypeCloud = "cloud"
)

var ContextTypes = []string{ContextTypeLocal, ContextTypeS3, ContextTypeRedis, ContextTypeEtcd, ContextTypeCloud}

type configFile struct {
	CurrentContext string                   `yaml:"currentContext"`
	Contexts       map[string]ConfigContext `yaml:"contexts"`
}

type ConfigContext struct {
	Type      string   `yaml:"type"`
	Dir       string   `yaml:"dir,omitempty"`
	Bucket    string   `yaml:"bucket,omitempty"`
	Region    string   `yaml:"region,omitempty"`
	Addr      string   `yaml:"addr,omitempty"`
	Username  string   `yaml:"username,omitempty"`
	Password  string   `yaml:"password,omitempty"`
	Endpoints []string `yaml:"endpoints,omitempty"`
	Key       string   `yaml:"key,omitempty"`
	URL       string   `yaml:"url,omitempty"`
	Token     string   `yaml:"token,omitempty"`
	Email     string   `yaml:"email,omitempty"`
	Project   string   `yaml:"project,omitempty"`
	Env       string   `yaml:"env,omitempty"`
	Timeout   string   `yaml:"timeout,omitempty"`
}

func (c ConfigContext) Location() string {
	switch c.Type {
	case ContextTypeLocal:
		return c.Dir
	case ContextTypeS3:
		return fmt.Sprintf("s3://%s/%s", c.Bucket, c.storageKey())
	case ContextTypeRedis:
		return fmt.Sprintf("redis://%s/%s", c.Addr, c.storageKey())
	case ContextTypeEtcd:
		return fmt.Sprintf("etcd://%s/%s", strings.Join(c.Endpoints, ","), c.storageKey())
	case ContextTypeCloud:
		return c.URL
	}

	return ""
}

const variablesFileName = "envform.envvars.json"

const DEFAULT_ENV = "dev"

// GetEnv is the environment commands act on when none is given.
func (c ConfigContext) GetEnv() string {
	if c.Env != "" {
		return c.Env
	}

	return DEFAULT_ENV
}

func (c ConfigContext) storageKey() string {
	if c.Key != "" {
		return c.Key
	}

	return variablesFileName
}

func (c ConfigContext) GetTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}

	d, err := str2duration.ParseDuration(c.Timeout)
	return d, errors.Wrapf(err, "invalid timeout %s", c.Timeout)
}

// overrides are read from EF_ prefixed environment variables and take
// precedence over the config file.
type overrides struct {
	Context string `envconfig:"CONTEXT"`
	URL     string `envconfig:"URL"`
	Token   string `envconfig:"TOKEN"`
	Project string `envconfig:"PROJECT"`
	Env     string `envconfig:"ENV"`
}

const envPrefix = "EF"

func getDefaultPath() (string, error) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "fail to get user home dir")
	}

	return path.Join(homedir, ".envform", "config"), nil
}

type config struct {
	*configFile
	overrides overrides
	path      string
}

func Init(name string, ctx ConfigContext, path string) (*config, error) {
	if path == "" {
		p, err := getDefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, "fail to get default path")
		}

		path = p
	}

	return &config{
		configFile: &configFile{
			CurrentContext: name,
			Contexts:       map[string]ConfigContext{name: ctx},
		},
		path: path,
	}, nil
}

// Load reads the config file, an empty path loads ~/.envform/config.
// The returned error wraps os.ErrNotExist when there is no config file.
func Load(path string) (*config, error) {
	if path == "" {
		p, err := getDefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, "fail to get default path")
		}

		path = p
	}

	var cfg configFile

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read config file")
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "fail to decode config content")
	}

	c := &config{configFile: &cfg, path: path}
	err = envconfig.Process(envPrefix, &c.overrides)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read config overrides from environment")
	}

	if _, ok := c.Contexts[c.CurrentName()]; !ok {
		return nil, errors.Errorf("context %s not found", c.CurrentName())
	}

	return c, nil
}

// CurrentName is the name of the context in use, EF_CONTEXT wins over the
// current context of the file.
func (c *config) CurrentName() string {
	if c.overrides.Context != "" {
		return c.overrides.Context
	}

	return c.CurrentContext
}

func (c *config) Save() error {
	data, err := yaml.Marshal(c.configFile)
	if err != nil {
		return errors.Wrap(err, "fail to encode config")
	}

	err = os.MkdirAll(path.Dir(c.path), 0700)
	if err != nil {
		return errors.Wrap(err, "fail to create config directory")
	}

	err = os.WriteFile(c.path, data, 0600)
	return errors.Wrap(err, "fail to write config file")
}

// GetCurrent returns the context in use with the environment overrides
// applied, overrides are never saved back to the file.
func (c *config) GetCurrent() ConfigContext {
	current := c.Contexts[c.CurrentName()]
	if c.overrides.URL != "" {
		current.URL = c.overrides.URL
	}
	if c.overrides.Token != "" {
		current.Token = c.overrides.Token
	}
	if c.overrides.Project != "" {
		current.Project = c.overrides.Project
	}
	if c.overrides.Env != "" {
		current.Env = c.overrides.Env
	}

	return current
}

func (c *config) getDir() string {
	dir := c.GetCurrent().Dir
	if !path.IsAbs(dir) {
		dir = path.Join(path.Dir(c.path), dir)
	}

	return dir
}

func (c *config) GetEnvVarsBackend(ctx context.Context) (envvars.Backend, error) {
	current := c.GetCurrent()

	var blob storage.FileLike
	switch current.Type {
	case ContextTypeLocal:
		blob = storage.NewFileStorage(path.Join(c.getDir(), variablesFileName))
	case ContextTypeS3:
		b, err := storage.NewS3Backend(current.Bucket, current.storageKey(), current.Region)
		if err != nil {
			return nil, errors.Wrap(err, "fail to initialize s3 backend")
		}
		blob = b
	case ContextTypeRedis:
		b, err := storage.NewRedisBackend(ctx, storage.RedisConfig{
			Addr:     current.Addr,
			Username: current.Username,
			Password: current.Password,
		}, current.storageKey())
		if err != nil {
			return nil, errors.Wrap(err, "fail to initialize redis backend")
		}
		blob = b
	case ContextTypeEtcd:
		b, err := storage.NewEtcdBackend(ctx, storage.EtcdConfig{
			Endpoints: current.Endpoints,
			Username:  current.Username,
			Password:  current.Password,
		}, current.storageKey())
		if err != nil {
			return nil, errors.Wrap(err, "fail to initialize etcd backend")
		}
		blob = b
	case ContextTypeCloud:
		client, err := c.getCloudClient(ctx, current)
		if err != nil {
			return nil, errors.Wrap(err, "fail to get cloud client")
		}

		return envvars.NewCloud(client), nil
	default:
		return nil, errors.Errorf("invalid context type %s", current.Type)
	}

	backend, err := envvars.NewFileLikeBackend(ctx, blob)
	if err != nil {
		if c, ok := blob.(io.Closer); ok {
			c.Close()
		}
		return nil, err
	}

	return backend, nil
}

func (c *config) getCloudClient(ctx context.Context, current ConfigContext) (*cloud.HTTPClient, error) {
	timeout, err := current.GetTimeout()
	if err != nil {
		return nil, err
	}

	if current.Token != "" {
		return cloud.NewHTTPClient(current.URL, current.Token, cloud.WithTimeout(timeout))
	}

	return cloud.SignIn(ctx, current.URL, current.Email, current.Password, cloud.WithTimeout(timeout))
}
