package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayfare-dev/wayfare/internal/routesfile"
	"github.com/wayfare-dev/wayfare/pkg/routetree"
)

func treeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the route tree declared in a routes file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := routesfile.Load(file)
			if err != nil {
				return err
			}
			r, err := f.Router()
			if err != nil {
				return err
			}
			printNode(cmd, r.RootNode(), 0)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "routes.yaml", "Routes file to load")

	return cmd
}

func printNode(cmd *cobra.Command, n *routetree.Node, depth int) {
	if n.Name() != "" || n.Path() != "" {
		marker := ""
		if n.Absolute() {
			marker = " (absolute)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s  %s%s\n",
			strings.Repeat("  ", depth), n.Name(), n.Path(), marker)
		depth++
	}
	for _, child := range n.Children() {
		printNode(cmd, child, depth)
	}
}
