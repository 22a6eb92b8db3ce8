package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magnetdb/magnetcli/internal/format"
	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

func magnetsCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:     "magnets",
		Aliases: []string{"magnet"},
		Short:   "List and manage magnets",
	}

	c.AddCommand(
		magnetsListCmd(opts),
		magnetsShowCmd(opts),
		magnetsCreateCmd(opts),
		magnetsUpdateCmd(opts),
		magnetsDeleteCmd(opts),
		magnetsDefunctCmd(opts),
		magnetsDecommissionPartCmd(opts),
		magnetsAddPartCmd(opts),
		magnetsRemovePartCmd(opts),
	)
	return c
}

func magnetsListCmd(opts *rootOptions) *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List magnets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				page, err := s.env.Client.Magnets.List(ctx, list.opts)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(page.Items))
				for _, m := range page.Items {
					rows = append(rows, []string{
						idString(m.ID),
						m.Name,
						statusCell(m.Status),
						m.DesignOfficeReference,
						format.Date(m.UpdatedAt),
					})
				}
				if err := s.out.table(page, []string{"ID", "Name", "Status", "Design ref.", "Updated"}, rows); err != nil {
					return err
				}
				return s.out.pageFooter(page.CurrentPage, page.LastPage, page.Total)
			})
		},
	}

	list.register(cmd, false)
	return cmd
}

func magnetsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a magnet with its parts and sites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				magnet, err := s.env.Client.Magnets.Find(ctx, id)
				if err != nil {
					return err
				}
				return s.out.record(magnet, magnetFields(magnet), magnetPartsSection(magnet.MagnetParts), siteMagnetsSection("Sites", magnet.SiteMagnets))
			})
		},
	}
}

func magnetsCreateCmd(opts *rootOptions) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a magnet from --set and --file fields",
		Example: `  magnetcli magnets create --set name=M19061901 --set description="Bitter insert" \
    --file geometry=M19061901.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				values, closer, err := form.values()
				if err != nil {
					return err
				}
				defer closer.Close()

				magnet, err := s.env.Client.Magnets.Create(ctx, values)
				if err != nil {
					return err
				}
				return s.out.done(magnet, "created magnet #%d %s", magnet.ID, magnet.Name)
			})
		},
	}

	form.register(cmd)
	return cmd
}

func magnetsUpdateCmd(opts *rootOptions) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a magnet from --set and --file fields",
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

				magnet, err := s.env.Client.Magnets.Update(ctx, id, values)
				if err != nil {
					return err
				}
				return s.out.done(magnet, "updated magnet #%d %s", magnet.ID, magnet.Name)
			})
		},
	}

	form.register(cmd)
	return cmd
}

func magnetsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a magnet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				magnet, err := s.env.Client.Magnets.Destroy(ctx, id)
				if err != nil {
					return err
				}
				return s.out.done(magnet, "deleted magnet #%d", id)
			})
		},
	}
}

func magnetsDefunctCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "defunct ID",
		Short: "Retire a magnet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				magnet, err := s.env.Client.Magnets.Defunct(ctx, id)
				if err != nil {
					return err
				}
				return s.out.done(magnet, "magnet #%d is now %s", magnet.ID, format.StatusLabel(magnet.Status))
			})
		},
	}
}

func magnetsDecommissionPartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decommission-part MAGNET_ID PART_ID",
		Short: "End the service of a part inside a magnet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				link, err := s.env.Client.Magnets.DecommissionPart(ctx, ids[0], ids[1])
				if err != nil {
					return err
				}
				return s.out.done(link, "decommissioned part #%d in magnet #%d", ids[1], ids[0])
			})
		},
	}
}

func magnetsAddPartCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-part MAGNET_ID PART_ID",
		Short: "Attach a part to a magnet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			params := magnetdb.AddPartParams{MagnetID: ids[0], PartID: ids[1]}
			if params.InnerBore, err = floatFlag(cmd, "inner-bore"); err != nil {
				return err
			}
			if params.OuterBore, err = floatFlag(cmd, "outer-bore"); err != nil {
				return err
			}
			if params.Angle, err = floatFlag(cmd, "angle"); err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				link, err := s.env.Client.Magnets.AddPart(ctx, params)
				if err != nil {
					return err
				}
				return s.out.done(link, "attached part #%d to magnet #%d (link #%d)", params.PartID, params.MagnetID, link.ID)
			})
		},
	}

	cmd.Flags().Float64("inner-bore", 0, "inner bore radius")
	cmd.Flags().Float64("outer-bore", 0, "outer bore radius")
	cmd.Flags().Float64("angle", 0, "angular position")
	return cmd
}

func magnetsRemovePartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-part MAGNET_PART_ID",
		Short: "Delete a magnet/part link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				link, err := s.env.Client.Magnets.DeletePart(ctx, id)
				if err != nil {
					return err
				}
				return s.out.done(link, "removed magnet part link #%d", id)
			})
		},
	}
}

func magnetFields(m *magnetdb.Magnet) []field {
	var geometry string
	if m.Geometry != nil {
		geometry = m.Geometry.Filename
	}
	return []field{
		{"ID", idString(m.ID)},
		{"Name", m.Name},
		{"Status", statusCell(m.Status)},
		{"Description", m.Description},
		{"Design ref.", m.DesignOfficeReference},
		{"Part types", strings.Join(m.SupportedPartTypes, ", ")},
		{"Geometry", geometry},
		{"Created", format.DateTime(m.CreatedAt)},
		{"Updated", format.DateTime(m.UpdatedAt)},
		{"Commissioned", format.DateTime(m.CommissionedAt)},
		{"Decommissioned", format.DateTime(m.DecommissionedAt)},
	}
}

func magnetPartsSection(links []magnetdb.MagnetPart) section {
	s := section{
		title:   "Parts",
		headers: []string{"Link", "Part", "Type", "Inner bore", "Outer bore", "Angle", "Commissioned", "Decommissioned"},
	}
	for _, mp := range links {
		var name, typ string
		if mp.Part != nil {
			name = "#" + idString(mp.Part.ID) + " " + mp.Part.Name
			typ = format.Humanize(mp.Part.Type)
		}
		s.rows = append(s.rows, []string{
			idString(mp.ID),
			name,
			typ,
			floatString(mp.InnerBore),
			floatString(mp.OuterBore),
			floatString(mp.Angle),
			format.Date(mp.CommissionedAt),
			format.Date(mp.DecommissionedAt),
		})
	}
	return s
}

// siteMagnetsSection lists site links from either side: the site column is
// used on magnets, the magnet column on sites.
func siteMagnetsSection(title string, links []magnetdb.SiteMagnet) section {
	s := section{
		title:   title,
		headers: []string{"Link", "Site", "Magnet", "Z offset", "R offset", "Parallax", "Commissioned", "Decommissioned"},
	}
	for _, sm := range links {
		var site, magnet string
		if sm.Site != nil {
			site = "#" + idString(sm.Site.ID) + " " + sm.Site.Name
		}
		if sm.Magnet != nil {
			magnet = "#" + idString(sm.Magnet.ID) + " " + sm.Magnet.Name
		}
		s.rows = append(s.rows, []string{
			idString(sm.ID),
			site,
			magnet,
			floatString(sm.ZOffset),
			floatString(sm.ROffset),
			floatString(sm.Parallax),
			format.Date(sm.CommissionedAt),
			format.Date(sm.DecommissionedAt),
		})
	}
	return s
}
