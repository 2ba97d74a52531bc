package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/gffrules/pkg/config"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInit,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateConfigContent()
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := config.DefaultPath()
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrAlreadyExists, MsgConfigExists, path).WithDetail("path", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to create %s", filepath.Dir(path))
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to write %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: MsgConfigShow,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.Dump(a.cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
