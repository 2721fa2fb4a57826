package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/logpile/logpile/api"
	"github.com/logpile/logpile/client"
	"github.com/logpile/logpile/manager/commit"
	"github.com/logpile/logpile/manager/intake"
	"github.com/logpile/logpile/metric"
	"github.com/logpile/logpile/queue"
	"github.com/logpile/logpile/sink"
	"github.com/logpile/logpile/types"
	"github.com/logpile/logpile/utils"
	"github.com/logpile/logpile/version"

	"github.com/jinzhu/configor"
	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

func setupLogLevel(l string) error {
	level, err := log.ParseLevel(l)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	return nil
}

func initConfig(c *cli.Context) *types.Config {
	config := &types.Config{}

	files := []string{}
	if path := c.String("config"); path != "" {
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		} else {
			log.Warnf("[main] config file %s not found, using defaults", path)
		}
	}
	if err := configor.Load(config, files...); err != nil {
		log.Fatalf("[main] load config failed %v", err)
	}

	config.Prepare(c)
	config.Print()
	return config
}

func serve(c *cli.Context) error {
	if err := setupLogLevel(c.String("log-level")); err != nil {
		log.Fatal(err)
	}

	config := initConfig(c)
	utils.WritePid(config.PidFile)
	defer os.Remove(config.PidFile)

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	q := queue.New()

	logSink, err := sink.New(config.Sink)
	if err != nil {
		return err
	}
	defer logSink.Close()

	metrics := metric.New(config, q.Depth)
	defer metrics.Unregister()
	go metrics.Run(ctx)

	commitManager := commit.NewManager(config, q, logSink, metrics)
	intakeManager, err := intake.NewManager(ctx, config, q, metrics)
	if err != nil {
		return err
	}

	api.NewHandler(config, q, intakeManager, commitManager, logSink).Serve(config.API.Addr)

	errChan := make(chan error, 2)
	wg := &sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := commitManager.Run(ctx); err != nil {
			log.Errorf("[main] commit manager err: %v, exiting", err)
			errChan <- err
		}
	}()

	go func() {
		defer wg.Done()
		if err := intakeManager.Run(ctx); err != nil {
			log.Errorf("[main] intake manager err: %v, exiting", err)
			errChan <- err
		}
	}()

	var firstErr error
	select {
	case <-ctx.Done():
		log.Info("[main] caught system signal, exiting")
	case firstErr = <-errChan:
		cancel()
	}

	wg.Wait()
	return firstErr
}

func send(c *cli.Context) error {
	severity, err := types.SeverityFromString(c.String("level"))
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		return fmt.Errorf("need a message to send")
	}

	message := strings.Join(c.Args().Slice(), " ")
	return client.New(c.String("addr"), client.DefaultTimeout).Send(severity, []byte(message))
}

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Print(version.String())
	}

	app := &cli.App{
		Name:    version.NAME,
		Usage:   "Run logpile, the log aggregation service",
		Version: version.VERSION,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "/etc/logpile/logpile.yaml",
				Usage:   "config file path for logpile, in yaml",
				EnvVars: []string{"LOGPILE_CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "INFO",
				Usage:   "set log level",
				EnvVars: []string{"LOGPILE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "sink",
				Value:   "",
				Usage:   "log destination: stdout, journal, or a file path",
				EnvVars: []string{"LOGPILE_SINK"},
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   9921,
				Usage:   "TCP port accepting log frames",
				EnvVars: []string{"LOGPILE_PORT"},
			},
			&cli.StringFlag{
				Name:    "api-addr",
				Value:   "",
				Usage:   "ops api serving address",
				EnvVars: []string{"LOGPILE_API_ADDR"},
			},
			&cli.StringFlag{
				Name:    "pidfile",
				Value:   "",
				Usage:   "pidfile to save",
				EnvVars: []string{"LOGPILE_PIDFILE"},
			},
			&cli.Int64Flag{
				Name:    "metrics-step",
				Value:   0,
				Usage:   "interval for metrics to send",
				EnvVars: []string{"LOGPILE_METRICS_STEP"},
			},
			&cli.StringSliceFlag{
				Name:    "metrics-transfers",
				Value:   &cli.StringSlice{},
				Usage:   "statsd destinations",
				EnvVars: []string{"LOGPILE_METRICS_TRANSFERS"},
			},
			&cli.StringFlag{
				Name:    "max-line-size",
				Value:   "",
				Usage:   "frame read buffer size, human readable",
				EnvVars: []string{"LOGPILE_MAX_LINE_SIZE"},
			},
			&cli.StringFlag{
				Name:    "hostname",
				Value:   "",
				Usage:   "change hostname",
				EnvVars: []string{"LOGPILE_HOSTNAME"},
			},
			&cli.BoolFlag{
				Name:  "tolerate-bad-frames",
				Value: false,
				Usage: "drop malformed frames instead of exiting",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:  "send",
				Usage: "send one message to a running logpile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Value: "127.0.0.1:9921",
						Usage: "service address",
					},
					&cli.StringFlag{
						Name:  "level",
						Value: "info",
						Usage: "severity: info, debug or error",
					},
				},
				Action: send,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("Error running logpile: %v", err)
		os.Exit(1)
	}
}
