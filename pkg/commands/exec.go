package commands

import (
	"fmt"
	"os"

	"github.com/common-fate/clio"
	"github.com/common-fate/clio/clierr"
	"github.com/common-fate/kubecred/internal/build"
	"github.com/common-fate/kubecred/pkg/credential"
	"github.com/common-fate/kubecred/pkg/kubewrap"
	"github.com/common-fate/kubecred/pkg/secretguard"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var ExecCommand = cli.Command{
	Name:  "exec",
	Usage: "Execute a command with KUBECONFIG pointing at an ephemeral kubeconfig",
	Flags: append([]cli.Flag{
		&cli.PathFlag{Name: "env-file", Usage: "dotenv file of extra environment variables for the command"},
	}, credentialFlags...),
	ArgsUsage: "--credential <ID> [--server-url <URL>] -- <command to execute>",
	Action: func(c *cli.Context) error {
		ctx := c.Context

		command := c.Args().Slice()
		if len(command) == 0 {
			return clierr.New("no command was provided",
				clierr.Infof("for example: %s exec --credential <ID> -- kubectl get pods", build.BinaryName()),
			)
		}
		clio.Debugf("exec command %s", command[0])

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		refs, err := credentialRefs(c)
		if err != nil {
			return err
		}
		resolver, err := credential.Open(ctx, cfg)
		if err != nil {
			return err
		}

		env := map[string]string{}
		if p := c.Path("env-file"); p != "" {
			env, err = godotenv.Read(p)
			if err != nil {
				return fmt.Errorf("reading env file %s: %w", p, err)
			}
			clio.Debugw("loaded env file", "path", p, "variables", len(env))
		}

		masker := secretguard.New()
		step := &kubewrap.Step{
			Resolver: resolver,
			Refs:     refs,
			Command:  command,
			Env:      env,
			Dir:      tempDir(c, cfg),
			Stdin:    os.Stdin,
			Stdout:   c.App.Writer,
			Stderr:   c.App.ErrWriter,
			Masker:   masker,
			Log:      kubewrap.NewLogger(masker, c.App.ErrWriter, stepLevel(c)),
			Validate: validations(c),
		}
		return cliError(step.Run(ctx))
	},
}
