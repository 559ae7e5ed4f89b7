package main

import (
	"context"
	"fmt"
	"os"

	"github.com/binzume/tbmscene/gltfutil"
	"github.com/binzume/tbmscene/hierarchy"
	"github.com/binzume/tbmscene/identity"
	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/physics"
	"github.com/binzume/tbmscene/rig"
	"github.com/binzume/tbmscene/viewer"
	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	var rootName, conv string
	cmd := &cobra.Command{
		Use:   "inspect model.glb",
		Short: "Print the part identifiers of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], rootName, naming.Parse(conv))
		},
	}
	cmd.Flags().StringVar(&rootName, "root", viewer.DefaultRootName, "model root node name")
	cmd.Flags().StringVar(&conv, "naming", viewer.DefaultNamingConvention, "naming convention prefixes, comma separated")
	return cmd
}

func runInspect(ctx context.Context, path, rootName string, conv naming.Convention) error {
	if err := conv.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	root, err := gltfutil.NewLoader().LoadScene(ctx, path, nil)
	if err != nil {
		return err
	}
	model := root.FindByName(rootName)
	if model == nil {
		return fmt.Errorf("%w: %s", viewer.ErrRootNotFound, rootName)
	}
	renamed := hierarchy.Normalize(model, rootName, conv)
	parts, err := identity.Build(model, rootName, conv)
	if err != nil {
		return err
	}
	if err := parts.Tree(os.Stdout); err != nil {
		return err
	}

	fmt.Printf("\n%d parts, %d renamed\n", parts.Len(), renamed)
	r, err := rig.Couple(model, physics.NewWorld(), conv, rig.DefaultConfig())
	if err != nil {
		fmt.Printf("rig: %v\n", err)
		return nil
	}
	fmt.Printf("rig: hub %s, %d pistons\n", r.Hub.Name, len(r.Pistons))
	return nil
}
