package types

import (
	"os"

	"github.com/logpile/logpile/common"

	units "github.com/docker/go-units"
	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	yaml "gopkg.in/yaml.v2"
)

// IntakeConfig controls the accept loop and the frame reader
type IntakeConfig struct {
	// MaxLineSize bounds one read chunk, human readable like "4K"
	MaxLineSize string `yaml:"max_line_size" default:"4K"`
	// TolerateBadFrames downgrades a malformed frame from fatal to
	// drop-connection-and-continue. Off by default to keep the historical
	// contract.
	TolerateBadFrames bool `yaml:"tolerate_bad_frames"`

	// ReadBufferSize is MaxLineSize resolved to bytes
	ReadBufferSize int `yaml:"-"`
}

// MetricsConfig contain metrics config
type MetricsConfig struct {
	Step      int64    `yaml:"step" default:"10"`
	Transfers []string `yaml:"transfers"`
}

// APIConfig contain api config
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// Config contain all configs
type Config struct {
	PidFile  string `yaml:"pid" required:"true" default:"/tmp/logpile.pid"`
	Sink     string `yaml:"sink" required:"true" default:"stdout"`
	Port     int    `yaml:"port" required:"true" default:"9921"`
	HostName string `yaml:"-"`

	Intake  IntakeConfig
	Metrics MetricsConfig
	API     APIConfig
}

// Prepare 从cli覆写并做准备
func (config *Config) Prepare(c *cli.Context) {
	if c.String("hostname") != "" {
		config.HostName = c.String("hostname")
	} else {
		hostname, err := os.Hostname()
		if err != nil {
			log.Fatal(err)
		}
		config.HostName = hostname
	}

	if c.String("sink") != "" {
		config.Sink = c.String("sink")
	}
	if c.IsSet("port") {
		config.Port = c.Int("port")
	}
	if c.String("pidfile") != "" {
		config.PidFile = c.String("pidfile")
	}
	if c.String("api-addr") != "" {
		config.API.Addr = c.String("api-addr")
	}
	if c.Int64("metrics-step") > 0 {
		config.Metrics.Step = c.Int64("metrics-step")
	}
	if len(c.StringSlice("metrics-transfers")) > 0 {
		config.Metrics.Transfers = c.StringSlice("metrics-transfers")
	}
	if c.String("max-line-size") != "" {
		config.Intake.MaxLineSize = c.String("max-line-size")
	}
	if c.Bool("tolerate-bad-frames") {
		config.Intake.TolerateBadFrames = true
	}

	// validate
	if config.PidFile == "" {
		log.Fatal("need to set pidfile")
	}
	if config.Sink == "" {
		log.Fatal("need to set sink")
	}
	if config.Port < 0 || config.Port > 65535 {
		log.Fatalf("%v: %d", common.ErrBadPort, config.Port)
	}
	if config.Metrics.Step <= 0 {
		config.Metrics.Step = common.DefaultMetricsStep
	}

	size, err := units.RAMInBytes(config.Intake.MaxLineSize)
	if err != nil || size <= 0 {
		log.Warnf("[config] invalid max_line_size %s, fallback to %d", config.Intake.MaxLineSize, common.DefaultReadBufferSize)
		size = common.DefaultReadBufferSize
	}
	config.Intake.ReadBufferSize = int(size)
}

// Print config
func (config *Config) Print() {
	bs, err := yaml.Marshal(config)
	if err != nil {
		log.Errorf("[config] print config failed %v", err)
		return
	}
	log.Debugf("config:\n%s", string(bs))
}
