package config

import (
	"time"

	"dario.cat/mergo"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "mclaunch"

// Settings controls the launcher itself, as opposed to the map table. Values come from
// MCLAUNCH_* variables first, then from the "launcher" section of the config file,
// then from Default().
type Settings struct {
	ConfigPath       string        `envconfig:"CONFIG" json:"-" yaml:"-"`
	WorkDir          string        `envconfig:"WORK_DIR" json:"-" yaml:"-"`
	PropertiesPath   string        `envconfig:"PROPERTIES" json:"properties_path" yaml:"properties_path"`
	WebRoot          string        `envconfig:"WEB_ROOT" json:"web_root" yaml:"web_root"`
	WebInterface     string        `envconfig:"WEB_INTERFACE" json:"web_interface" yaml:"web_interface"`
	WebPort          int           `envconfig:"WEB_PORT" json:"web_port" yaml:"web_port"`
	ResourcePackName string        `envconfig:"RESOURCE_PACK_NAME" json:"resource_pack_name" yaml:"resource_pack_name"`
	AdvertiseHost    string        `envconfig:"ADVERTISE_HOST" json:"advertise_host" yaml:"advertise_host"`
	TempDir          string        `envconfig:"TEMP_DIR" json:"temp_dir" yaml:"temp_dir"`
	ServersDir       string        `envconfig:"SERVERS_DIR" json:"servers_dir" yaml:"servers_dir"`
	RconStop         bool          `envconfig:"RCON_STOP" json:"rcon_stop" yaml:"rcon_stop"`
	AcceptEula       bool          `envconfig:"ACCEPT_EULA" json:"accept_eula" yaml:"accept_eula"`
	S3ForcePathStyle bool          `envconfig:"S3_FORCE_PATH_STYLE" json:"s3_force_path_style" yaml:"s3_force_path_style"`
	StopGrace        time.Duration `envconfig:"STOP_GRACE" json:"-" yaml:"-"`
	WebStopGrace     time.Duration `envconfig:"WEB_STOP_GRACE" json:"-" yaml:"-"`
	Verbose          bool          `envconfig:"VERBOSE" json:"-" yaml:"-"`
}

func Default() Settings {
	return Settings{
		ConfigPath:       "config.json",
		WorkDir:          ".",
		PropertiesPath:   "server.properties",
		WebRoot:          "www",
		WebInterface:     "0.0.0.0",
		WebPort:          8080,
		ResourcePackName: "ressources.zip",
		TempDir:          "tmp",
		ServersDir:       ".",
		StopGrace:        30 * time.Second,
		WebStopGrace:     5 * time.Second,
	}
}

// Load reads the environment only; unset values stay zero so that Merge can fill them.
func Load() (*Settings, error) {
	var result Settings
	if err := envconfig.Process(EnvPrefix, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Merge fills the zero fields of s from the config file section, then from defaults.
func (s *Settings) Merge(fromFile Settings) error {
	if err := mergo.Merge(s, fromFile); err != nil {
		return err
	}
	return mergo.Merge(s, Default())
}
