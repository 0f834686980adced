package commands

import (
	"github.com/99designs/keyring"
	"github.com/common-fate/clio"
	"github.com/common-fate/kubecred/internal/build"
	"github.com/common-fate/kubecred/pkg/banners"
	"github.com/common-fate/kubecred/pkg/config"
	"github.com/urfave/cli/v2"
)

func GetCliApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		clio.Log(banners.WithVersion())
	}

	flags := []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Usage: "Log debug messages"},
		&cli.PathFlag{Name: "config", Usage: "Path of the kubecred config file", EnvVars: []string{"KUBECRED_CONFIG"}},
	}

	app := &cli.App{
		Flags:       flags,
		Name:        build.BinaryName(),
		Usage:       "Run kubectl with an ephemeral kubeconfig built from stored credentials",
		UsageText:   "kubecred [global options] command [command options] [arguments...]",
		Version:     build.Version,
		HideVersion: false,
		Commands: []*cli.Command{
			&ExecCommand,
			&RenderCommand,
			&CredentialsCommand,
		},
		EnableBashCompletion: true,
		Before: func(c *cli.Context) error {
			clio.SetLevelFromEnv("KUBECRED_LOG")
			if c.Bool("verbose") {
				clio.SetLevelFromString("debug")
				keyring.Debug = true
			}
			if c.Path("config") != "" {
				return nil
			}
			if err := config.SetupConfigFolder(); err != nil {
				return err
			}
			return nil
		},
	}

	return app
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if p := c.Path("config"); p != "" {
		return config.LoadFrom(p)
	}
	return config.Load()
}
