package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/magnetdb/magnetcli/internal/format"
	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

func sitesCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:     "sites",
		Aliases: []string{"site"},
		Short:   "List and manage sites",
	}

	c.AddCommand(
		sitesListCmd(opts),
		sitesShowCmd(opts),
		sitesCreateCmd(opts),
		sitesUpdateCmd(opts),
		sitesDeleteCmd(opts),
		sitesLifecycleCmd(opts, "put-in-operation", "Commission a site and its magnets", func(ctx context.Context, c *magnetdb.Client, id int64) (*magnetdb.Site, error) {
			return c.Sites.PutInOperation(ctx, id)
		}),
		sitesLifecycleCmd(opts, "shutdown", "Decommission a site and its magnets", func(ctx context.Context, c *magnetdb.Client, id int64) (*magnetdb.Site, error) {
			return c.Sites.Shutdown(ctx, id)
		}),
		sitesAddMagnetCmd(opts),
		sitesRemoveMagnetCmd(opts),
	)
	return c
}

func sitesListCmd(opts *rootOptions) *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				page, err := s.env.Client.Sites.List(ctx, list.opts)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(page.Items))
				for _, site := range page.Items {
					rows = append(rows, []string{
						idString(site.ID),
						site.Name,
						statusCell(site.Status),
						format.Date(site.CommissionedAt),
						format.Date(site.UpdatedAt),
					})
				}
				if err := s.out.table(page, []string{"ID", "Name", "Status", "Commissioned", "Updated"}, rows); err != nil {
					return err
				}
				return s.out.pageFooter(page.CurrentPage, page.LastPage, page.Total)
			})
		},
	}

	list.register(cmd, false)
	return cmd
}

func sitesShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a site with its magnets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				site, err := s.env.Client.Sites.Find(ctx, id)
				if err != nil {
					return err
				}
				fields := []field{
					{"ID", idString(site.ID)},
					{"Name", site.Name},
					{"Status", statusCell(site.Status)},
					{"Description", site.Description},
					{"Config", attachmentName(site.Config)},
					{"Created", format.DateTime(site.CreatedAt)},
					{"Updated", format.DateTime(site.UpdatedAt)},
					{"Commissioned", format.DateTime(site.CommissionedAt)},
					{"Decommissioned", format.DateTime(site.DecommissionedAt)},
				}
				return s.out.record(site, fields, siteMagnetsSection("Magnets", site.SiteMagnets))
			})
		},
	}
}

func sitesCreateCmd(opts *rootOptions) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a site from --set and --file fields",
		Example: `  magnetcli sites create --set name=M9_2023 --file config=M9.cfg`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				values, closer, err := form.values()
				if err != nil {
					return err
				}
				defer closer.Close()

				site, err := s.env.Client.Sites.Create(ctx, values)
				if err != nil {
					return err
				}
				return s.out.done(site, "created site #%d %s", site.ID, site.Name)
			})
		},
	}

	form.register(cmd)
	return cmd
}

func sitesUpdateCmd(opts *rootOptions) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a site from --set and --file fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if form.empty() {
				return errors.New("nothing to update: pass --set or --file")
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				values, closer, err := form.values()
				if err != nil {
					return err
				}
				defer closer.Close()

				site, err := s.env.Client.Sites.Update(ctx, id, values)
				if err != nil {
					return err
				}
				return s.out.done(site, "updated site #%d %s", site.ID, site.Name)
			})
		},
	}

	form.register(cmd)
	return cmd
}

func sitesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				site, err := s.env.Client.Sites.Destroy(ctx, id)
				if err != nil {
					return err
				}
				return s.out.done(site, "deleted site #%d", id)
			})
		},
	}
}

type siteTransition func(ctx context.Context, c *magnetdb.Client, id int64) (*magnetdb.Site, error)

func sitesLifecycleCmd(opts *rootOptions, use, short string, transition siteTransition) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				site, err := transition(ctx, s.env.Client, id)
				if err != nil {
					return err
				}
				return s.out.done(site, "site #%d is now %s", site.ID, format.StatusLabel(site.Status))
			})
		},
	}
}

func sitesAddMagnetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-magnet SITE_ID MAGNET_ID",
		Short: "Install a magnet on a site",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			params := magnetdb.AddMagnetParams{SiteID: ids[0], MagnetID: ids[1]}
			if params.ZOffset, err = floatFlag(cmd, "z-offset"); err != nil {
				return err
			}
			if params.ROffset, err = floatFlag(cmd, "r-offset"); err != nil {
				return err
			}
			if params.Parallax, err = floatFlag(cmd, "parallax"); err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				link, err := s.env.Client.Sites.AddMagnet(ctx, params)
				if err != nil {
					return err
				}
				return s.out.done(link, "installed magnet #%d on site #%d (link #%d)", params.MagnetID, params.SiteID, link.ID)
			})
		},
	}

	cmd.Flags().Float64("z-offset", 0, "axial offset")
	cmd.Flags().Float64("r-offset", 0, "radial offset")
	cmd.Flags().Float64("parallax", 0, "parallax")
	return cmd
}

func sitesRemoveMagnetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-magnet SITE_MAGNET_ID",
		Short: "Delete a site/magnet link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				link, err := s.env.Client.Sites.DeleteMagnet(ctx, id)
				if err != nil {
					return err
				}
				return s.out.done(link, "removed site magnet link #%d", id)
			})
		},
	}
}
