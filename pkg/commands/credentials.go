package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/common-fate/clio"
	"github.com/common-fate/clio/clierr"
	"github.com/common-fate/kubecred/pkg/credential"
	"github.com/common-fate/kubecred/pkg/kubeconfig"
	"github.com/common-fate/kubecred/pkg/testable"
	"github.com/urfave/cli/v2"
)

var CredentialsCommand = cli.Command{
	Name:        "credentials",
	Usage:       "Manage stored kubernetes credentials",
	Subcommands: []*cli.Command{&AddCredentialsCommand, &ListCredentialsCommand, &RemoveCredentialsCommand},
}

var AddCredentialsCommand = cli.Command{
	Name:      "add",
	Usage:     "Add a credential to the configured store",
	ArgsUsage: "[ID]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "type", Usage: fmt.Sprintf("One of %v", credential.Types)},
		&cli.PathFlag{Name: "kubeconfig-file", Usage: "kubeconfig to store, for the kubeconfig type"},
		&cli.PathFlag{Name: "cert-file", Usage: "PEM client certificate, for the certificate type"},
		&cli.PathFlag{Name: "key-file", Usage: "PEM client key, for the certificate type"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		store, err := credential.OpenStore(cfg)
		if err != nil {
			return err
		}

		withStdio := survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)

		id := c.Args().First()
		if id == "" {
			in := survey.Input{Message: "Credential ID:"}
			clio.NewLine()
			err := testable.AskOne(&in, &id, withStdio)
			if err != nil {
				return err
			}
		}
		if id == "" {
			return clierr.New("a credential ID is required")
		}

		typ := c.String("type")
		if typ == "" {
			options := make([]string, 0, len(credential.Types))
			for _, t := range credential.Types {
				options = append(options, string(t))
			}
			in := survey.Select{Message: "Credential type:", Options: options}
			clio.NewLine()
			err := testable.AskOne(&in, &typ, withStdio)
			if err != nil {
				return err
			}
		}

		r := credential.Record{Type: credential.Type(typ)}
		switch r.Type {
		case credential.TypeUsernamePassword:
			in1 := survey.Input{Message: "Username:"}
			clio.NewLine()
			if err := testable.AskOne(&in1, &r.Username, withStdio); err != nil {
				return err
			}
			in2 := survey.Password{Message: "Password:"}
			clio.NewLine()
			if err := testable.AskOne(&in2, &r.Password, withStdio); err != nil {
				return err
			}
		case credential.TypeSecretText:
			in := survey.Password{Message: "Secret:"}
			clio.NewLine()
			if err := testable.AskOne(&in, &r.Secret, withStdio); err != nil {
				return err
			}
		case credential.TypeToken:
			in := survey.Password{Message: "Token:"}
			clio.NewLine()
			if err := testable.AskOne(&in, &r.Token, withStdio); err != nil {
				return err
			}
		case credential.TypeCertificate:
			cert, key := c.Path("cert-file"), c.Path("key-file")
			if cert == "" || key == "" {
				return clierr.New("the certificate type needs --cert-file and --key-file")
			}
			certPEM, err := os.ReadFile(cert)
			if err != nil {
				return err
			}
			keyPEM, err := os.ReadFile(key)
			if err != nil {
				return err
			}
			r.Certificate, r.Key = string(certPEM), string(keyPEM)
		case credential.TypeKubeconfig:
			p := c.Path("kubeconfig-file")
			if p == "" {
				return clierr.New("the kubeconfig type needs --kubeconfig-file")
			}
			b, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			if _, err := kubeconfig.Parse(b); err != nil {
				return cliError(err)
			}
			r.Kubeconfig = string(b)
		}

		bundle, err := r.Bundle()
		if err != nil {
			return cliError(err)
		}
		if err := store.Put(c.Context, id, bundle); err != nil {
			return err
		}
		clio.Successf("Saved %s to the %s credential store", id, cfg.StoreName())
		return nil
	},
}

var ListCredentialsCommand = cli.Command{
	Name:  "list",
	Usage: "List the IDs of the stored credentials",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		store, err := credential.OpenStore(cfg)
		if err != nil {
			return err
		}
		ids, err := store.List(c.Context)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			clio.Info("No credentials are stored")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(c.App.Writer, id)
		}
		return nil
	},
}

var RemoveCredentialsCommand = cli.Command{
	Name:      "remove",
	Usage:     "Remove a credential from the configured store",
	ArgsUsage: "<ID>",
	Action: func(c *cli.Context) error {
		id := c.Args().First()
		if id == "" {
			return clierr.New("a credential ID is required", clierr.Info("usage: credentials remove <ID>"))
		}
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		store, err := credential.OpenStore(cfg)
		if err != nil {
			return err
		}
		if err := store.Remove(c.Context, id); err != nil {
			return cliError(err)
		}
		clio.Successf("Removed %s", id)
		return nil
	},
}
