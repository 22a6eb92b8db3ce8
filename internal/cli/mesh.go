package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

func meshCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "mesh",
		Short: "Attach and detach meshes on magnets and sites",
	}

	c.AddCommand(
		meshAttachCmd(opts),
		meshDetachCmd(opts),
	)
	return c
}

func meshAttachCmd(opts *rootOptions) *cobra.Command {
	var (
		form     formFlags
		magnetID int64
		siteID   int64
		meshType string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Upload a mesh for a magnet or a site",
		Example: `  magnetcli mesh attach --magnet 4 --type axi --mesh M4-axi.msh
  magnetcli mesh attach --set resource_type=site --set resource_id=2 --set type=3d --file file=site.med`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if magnetID > 0 && siteID > 0 {
				return fmt.Errorf("--magnet and --site are mutually exclusive")
			}
			if meshType != "" && !slices.Contains(magnetdb.MeshTypes, meshType) {
				return fmt.Errorf("unknown mesh type %q: want one of %v", meshType, magnetdb.MeshTypes)
			}

			switch {
			case magnetID > 0:
				form.sets = append(form.sets, "resource_type=magnet", "resource_id="+strconv.FormatInt(magnetID, 10))
			case siteID > 0:
				form.sets = append(form.sets, "resource_type=site", "resource_id="+strconv.FormatInt(siteID, 10))
			}
			if meshType != "" {
				form.sets = append(form.sets, "type="+meshType)
			}
			if file != "" {
				form.files = append(form.files, "file="+file)
			}

			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				values, closer, err := form.values()
				if err != nil {
					return err
				}
				defer closer.Close()

				mesh, err := s.env.Client.MeshAttachments.Create(ctx, values)
				if err != nil {
					return err
				}
				return s.out.done(mesh, "attached %s mesh #%d", mesh.Type, mesh.ID)
			})
		},
	}

	form.register(cmd)
	cmd.Flags().Int64Var(&magnetID, "magnet", 0, "magnet id to attach the mesh to")
	cmd.Flags().Int64Var(&siteID, "site", 0, "site id to attach the mesh to")
	cmd.Flags().StringVar(&meshType, "type", "", "mesh type: axi or 3d")
	cmd.Flags().StringVar(&file, "mesh", "", "mesh file to upload")
	return cmd
}

func meshDetachCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detach MESH_ATTACHMENT_ID",
		Short: "Delete a mesh attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				mesh, err := s.env.Client.MeshAttachments.Destroy(ctx, id)
				if err != nil {
					return err
				}
				return s.out.done(mesh, "detached mesh #%d", id)
			})
		},
	}
}
