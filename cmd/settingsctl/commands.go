package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/appconfig/internal/platform/logger"
	"github.com/phrazzld/appconfig/internal/platform/postgres"
	"github.com/phrazzld/appconfig/internal/redact"
	"github.com/phrazzld/appconfig/internal/settings"
)

// getCmd returns the get subcommand that prints one converted setting.
func getCmd(app func() *application) *cobra.Command {
	var (
		typeName string
		required bool
	)

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print a setting converted to the requested type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, err := lookupType(typeName)
			if err != nil {
				return err
			}

			v, err := vt.get(app().settings, args[0], required)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "string", fmt.Sprintf("target type %v", typeNames()))
	cmd.Flags().BoolVarP(&required, "required", "r", false, "fail when the setting is missing or blank")
	return cmd
}

// splitCmd returns the split subcommand that prints one list entry per line.
func splitCmd(app func() *application) *cobra.Command {
	var (
		typeName  string
		delimiter string
		keepEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "split KEY",
		Short: "Split a delimited setting and convert every entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, err := lookupType(typeName)
			if err != nil {
				return err
			}

			policy := settings.RemoveEmpty
			if keepEmpty {
				policy = settings.KeepEmpty
			}

			values, err := vt.split(app().settings, args[0],
				settings.WithDelimiter(delimiter),
				settings.WithEmptyEntries(policy))
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "string", fmt.Sprintf("entry type %v", typeNames()))
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", settings.DefaultDelimiter, "entry delimiter")
	cmd.Flags().BoolVar(&keepEmpty, "keep-empty", false, "convert empty entries instead of dropping them")
	return cmd
}

// connCmd returns the conn subcommand that prints a connection string.
func connCmd(app func() *application) *cobra.Command {
	var (
		required bool
		reveal   bool
		pg       bool
		ping     bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "conn NAME",
		Short: "Print a named connection string with credentials masked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			name := args[0]
			log := logger.FromContextOrDefault(cmd.Context(), a.logger)

			if ping {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				if err := postgres.Ping(ctx, a.conns, name); err != nil {
					return err
				}
				log.Info("connection reachable", "name", name)
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			if pg {
				cfg, err := postgres.Config(a.conns, name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), postgres.Describe(cfg))
				return nil
			}

			var (
				cs  string
				err error
			)
			if required {
				cs, err = a.conns.GetRequired(name)
				if err != nil {
					return err
				}
			} else {
				var ok bool
				if cs, ok = a.conns.Get(name); !ok {
					log.Info("connection string not set", "name", name)
					return nil
				}
			}

			if !reveal {
				cs = redact.ConnectionString(cs)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&required, "required", "r", false, "fail when the connection string is missing or blank")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print credentials unmasked")
	cmd.Flags().BoolVar(&pg, "postgres", false, "parse as a PostgreSQL descriptor and print its target")
	cmd.Flags().BoolVar(&ping, "ping", false, "open the PostgreSQL descriptor and check the server answers")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "time limit for --ping")
	return cmd
}

// keysCmd returns the keys subcommand that lists the keys of the settings file.
func keysCmd(app func() *application) *cobra.Command {
	var connections bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the setting keys (or connection names) defined in the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			lister := a.appKeys
			if connections {
				lister = a.connKeys
			}
			if lister == nil {
				return errors.New("keys requires a settings file (--file)")
			}
			for _, key := range lister.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&connections, "connections", false, "list connection string names instead of settings")
	return cmd
}
