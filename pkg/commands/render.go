package commands

import (
	"fmt"
	"os"

	"github.com/common-fate/clio"
	"github.com/common-fate/kubecred/pkg/credential"
	"github.com/common-fate/kubecred/pkg/kubeconfig"
	"github.com/common-fate/kubecred/pkg/kubewrap"
	"github.com/common-fate/kubecred/pkg/secretguard"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var RenderCommand = cli.Command{
	Name:  "render",
	Usage: "Write the merged kubeconfig to a file, for debugging",
	Flags: append([]cli.Flag{
		&cli.PathFlag{Name: "output", Aliases: []string{"o"}, Usage: "File to write, created with mode 0600", Required: true},
	}, credentialFlags...),
	Action: func(c *cli.Context) error {
		ctx := c.Context

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

		masker := secretguard.New()
		step := &kubewrap.Step{
			Resolver: resolver,
			Refs:     refs,
			Stdout:   c.App.Writer,
			Stderr:   c.App.ErrWriter,
			Masker:   masker,
			Log:      kubewrap.NewLogger(masker, c.App.ErrWriter, stepLevel(c)),
			Validate: validations(c),
		}
		doc, err := step.Build(ctx)
		if err != nil {
			return cliError(err)
		}

		b, err := doc.Marshal()
		if err != nil {
			return err
		}
		if err := kubeconfig.Verify(b); err != nil {
			return err
		}

		output := c.Path("output")
		if err := writeOutput(output, b); err != nil {
			return err
		}

		clio.Successf("Wrote kubeconfig with %d contexts to %s", len(doc.Contexts), output)
		clio.Warnf("The file contains credentials in plain text, remove it when you are done: %s", color.YellowString("rm %s", output))
		return nil
	},
}

func writeOutput(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	// an existing file keeps its mode on O_TRUNC
	if err := f.Chmod(0600); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
