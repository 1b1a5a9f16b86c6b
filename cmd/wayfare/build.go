package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayfare-dev/wayfare/internal/routesfile"
	"github.com/wayfare-dev/wayfare/pkg/router"
)

func buildCmd() *cobra.Command {
	var (
		file   string
		params []string
	)

	cmd := &cobra.Command{
		Use:   "build <route-name>",
		Short: "Build the path for a route name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := routesfile.Load(file)
			if err != nil {
				return err
			}
			r, err := f.Router()
			if err != nil {
				return err
			}

			p := router.Params{}
			for _, kv := range params {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid param %q, want key=value", kv)
				}
				p[k] = v
			}

			path, err := r.BuildPath(args[0], p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "routes.yaml", "Routes file to load")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Route parameter as key=value (repeatable)")

	return cmd
}
