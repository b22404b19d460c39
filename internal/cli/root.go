package cli

import (
	"time"

	"go-directory/internal/config"
	"go-directory/internal/directoryclient"

	"github.com/spf13/cobra"
)

type options struct {
	apiURL  string
	timeout time.Duration
}

func (o *options) client() *directoryclient.Client {
	return directoryclient.New(o.apiURL, directoryclient.WithTimeout(o.timeout))
}

// RootCmd builds the directory command tree with defaults taken from cfg.
func RootCmd(cfg *config.ClientConfig) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "directory",
		Short:         "Employee directory client",
		Long:          "A command-line interface for browsing and editing the employee directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api", cfg.APIURL, "Base URL of the directory API")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.Timeout, "Request timeout")

	root.AddCommand(
		listCmd(opts),
		getCmd(opts),
		createCmd(opts),
		updateCmd(opts),
		deleteCmd(opts),
		statsCmd(opts),
		searchCmd(opts),
	)

	return root
}
