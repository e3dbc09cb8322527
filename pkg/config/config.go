// Package config holds the process configuration. It is built once at
// startup and handed to every component constructor; components never read
// the environment themselves.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/sgl-project/dataset-viz/pkg/configutils"
	"github.com/sgl-project/dataset-viz/pkg/logging/ginlog"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. DATASET_VIZ_STORAGE_ROOT.
	EnvPrefix = "DATASET_VIZ"

	DefaultStorageRoot    = "s3://xlab-eks/datasets/"
	DefaultRegion         = "us-east-1"
	DefaultMaxObjectBytes = 256 << 20
	DefaultHubBaseURL     = "https://huggingface.co/datasets"
	DefaultHubRevision    = "main"
	DefaultHubTimeout     = 10 * time.Second
	DefaultListenAddress  = ":8080"
	DefaultCacheMaxAge    = 3600
	DefaultMaxResults     = 10
)

// Config is the complete service configuration.
type Config struct {
	Debug bool `mapstructure:"debug"`

	Storage StorageConfig `mapstructure:"storage"`
	Hub     HubConfig     `mapstructure:"hub"`
	Server  ServerConfig  `mapstructure:"server"`
	Lister  ListerConfig  `mapstructure:"lister"`
}

// StorageConfig configures object storage access.
type StorageConfig struct {
	// Root is scheme://bucket/prefix/. A malformed root is not rejected here:
	// listing degrades to an empty result instead.
	Root            string `mapstructure:"root" validate:"required"`
	Region          string `mapstructure:"region" validate:"required"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	LocalBaseDir    string `mapstructure:"local_base_dir"`
	MaxObjectBytes  int64  `mapstructure:"max_object_bytes" validate:"gt=0"`
}

// HubConfig configures hub mode, where dataset metadata and assets are
// fetched from a dataset hub instead of object storage.
type HubConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	Revision string        `mapstructure:"revision" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Token    string        `mapstructure:"token"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
	// PublicURL is the origin clients use to reach this service. It is the
	// base of rewritten s3-proxy URLs.
	PublicURL     string                     `mapstructure:"public_url" validate:"omitempty,url"`
	CORSOrigins   []string                   `mapstructure:"cors_origins"`
	CacheMaxAge   int                        `mapstructure:"cache_max_age" validate:"gte=0"`
	RequestLogger ginlog.RequestLoggerConfig `mapstructure:"request_logger"`
}

// ListerConfig configures the dataset lister.
type ListerConfig struct {
	MaxResults       int      `mapstructure:"max_results" validate:"gt=0"`
	// ExcludedPrefixes are first-level directories skipped in addition to
	// the always-excluded "s3".
	ExcludedPrefixes []string `mapstructure:"excluded_prefixes"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Root:           DefaultStorageRoot,
			Region:         DefaultRegion,
			MaxObjectBytes: DefaultMaxObjectBytes,
		},
		Hub: HubConfig{
			BaseURL:  DefaultHubBaseURL,
			Revision: DefaultHubRevision,
			Timeout:  DefaultHubTimeout,
		},
		Server: ServerConfig{
			Address:     DefaultListenAddress,
			CacheMaxAge: DefaultCacheMaxAge,
		},
		Lister: ListerConfig{
			MaxResults: DefaultMaxResults,
		},
	}
}

// Option mutates a Config.
type Option func(*Config) error

// Apply applies opts in order.
func (c *Config) Apply(opts ...Option) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return err
		}
	}
	return nil
}

// New returns Defaults with opts applied.
func New(opts ...Option) (*Config, error) {
	c := Defaults()
	if err := c.Apply(opts...); err != nil {
		return nil, errors.Wrap(err, "failed to apply config options")
	}
	return c, nil
}

// WithViper unmarshals v over the defaults, including values that are only
// present in the environment.
func WithViper(v *viper.Viper) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("nil Viper")
		}
		if err := configutils.BindEnvsRecursive(v, c, ""); err != nil {
			return errors.Wrap(err, "error binding envs")
		}
		if err := v.Unmarshal(c); err != nil {
			return errors.Wrap(err, "error unmarshalling config")
		}
		return nil
	}
}

// Validate checks struct constraints and cross-field rules, reporting every
// violation at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				result = multierror.Append(result, fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			result = multierror.Append(result, err)
		}
	}

	if (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
		result = multierror.Append(result, errors.New("storage.access_key_id and storage.secret_access_key must be set together"))
	}
	if c.Hub.Enabled && c.Hub.BaseURL == "" {
		result = multierror.Append(result, errors.New("hub.base_url is required when hub.enabled is set"))
	}
	if strings.HasPrefix(c.Storage.Root, "file://") && c.Storage.LocalBaseDir == "" {
		result = multierror.Append(result, errors.New("storage.local_base_dir is required for file:// roots"))
	}

	return result.ErrorOrNil()
}
