package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayfare-dev/wayfare/internal/routesfile"
)

func matchCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Resolve a path against the route tree",
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
			st := r.MatchPath(args[0], "cli")
			if st == nil {
				return fmt.Errorf("no route matches %q", args[0])
			}
			out := map[string]any{
				"name":   st.Name,
				"params": st.Params,
				"path":   st.Path,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "routes.yaml", "Routes file to load")

	return cmd
}
