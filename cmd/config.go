package cmd

import (
	"github.com/BurntSushi/toml"
	"github.com/TFMV/insights/config"
	"github.com/TFMV/insights/errors"
	"github.com/spf13/cobra"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and show configuration files",
	}
	cmd.AddCommand(
		a.configInitCmd(),
		a.configShowCmd(),
	)
	return cmd
}

func (a *app) configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration as TOML",
		Args:  cobra.MaximumNArgs(1),
		// runs without loading the current config file
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "insights.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "  ✓ wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")
	return cmd
}

func (a *app) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after files and environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(a.cfg); err != nil {
				return errors.Wrap(err, "encode config")
			}
			return nil
		},
	}
}
