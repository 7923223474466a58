package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tocCmd = &cobra.Command{
	Use:   "toc [code]",
	Short: "List the table of contents, or the children of one context",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTOC,
}

func runTOC(cmd *cobra.Command, args []string) error {
	client := newTempoClient()
	ctx := cmd.Context()

	if len(args) == 0 {
		nodes, err := client.Contexts(ctx)
		if err != nil {
			return err
		}
		for _, node := range nodes {
			fmt.Printf("%s\t%s\n", node.Context.Code, node.Context.Name)
		}
		return nil
	}

	node, err := client.Context(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%s\n", node.Context.Code, node.Context.Name)
	for _, child := range node.Children {
		fmt.Printf("  %s\t%s\n", child.Code, child.Name)
	}
	return nil
}
