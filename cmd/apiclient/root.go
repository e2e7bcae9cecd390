package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const description = "Call a JSON API with the persisted bearer token"

// options are shared by every subcommand
type options struct {
	configFile string
	verbose    bool
	stdout     io.Writer
	stderr     io.Writer
	viper      *viper.Viper
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdout: stdout, stderr: stderr, viper: viper.New()}

	root := &cobra.Command{
		Use:           "apiclient",
		Short:         description,
		Long:          description + ".\n\nConfiguration is read from config.yaml, .env and the environment (API_BASE_URL, CREDENTIAL_BACKEND, ...).",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configFile, "config", "c", "", "config file (default ./config.yaml)")
	pf.String("base-url", "", "API base URL, overrides api.base_url")
	pf.String("backend", "", "credential backend: static, env, bolt, redis or etcd")
	pf.String("db", "", "bolt database path, overrides bolt.path")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log every exchange")

	_ = o.viper.BindPFlag("api.base_url", pf.Lookup("base-url"))
	_ = o.viper.BindPFlag("credential.backend", pf.Lookup("backend"))
	_ = o.viper.BindPFlag("bolt.path", pf.Lookup("db"))

	root.AddCommand(newRequestCmd(o))
	root.AddCommand(newUploadCmd(o))
	root.AddCommand(newTokenCmd(o))
	return root
}
