package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/output"
	"github.com/rgehrsitz/pvfin/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	projectName        string
	projectDescription string
	projectSearch      string
	projectLimit       int
	projectFormat      string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage saved projects",
}

var projectSaveCmd = &cobra.Command{
	Use:   "save [scenario-file]",
	Short: "Run a scenario and save it with its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args[0])
		if err != nil {
			return err
		}
		if projectName != "" {
			scenario.Name = projectName
		}
		if projectDescription != "" {
			scenario.Description = projectDescription
		}

		result, err := newEngine().RunScenario(scenario)
		if err != nil {
			return err
		}

		return withStore(cmd.Context(), func(st store.Store) error {
			saved, err := st.CreateProject(cmd.Context(), &domain.SavedProject{
				Name:            scenario.Name,
				Description:     scenario.Description,
				Parameters:      scenario.Parameters,
				Route:           scenario.Route,
				UseGridEstimate: scenario.UseGridEstimate,
				Summary:         &result.Summary,
			})
			if err != nil {
				return err
			}
			zap.L().Info("project saved", zap.String("id", saved.ID), zap.String("name", saved.Name))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved project %q as %s\n", saved.Name, saved.ID)
			return nil
		})
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st store.Store) error {
			projects, err := st.ListProjects(cmd.Context(), store.ProjectFilter{Search: projectSearch, Limit: projectLimit})
			if err != nil {
				return err
			}
			if output.NormalizeFormatName(projectFormat) == "json" {
				return writeJSON(cmd.OutOrStdout(), projects)
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved projects")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tUPDATED")
			for _, p := range projects {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		})
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st store.Store) error {
			p, err := st.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output.NormalizeFormatName(projectFormat) == "json" {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			writeProject(cmd.OutOrStdout(), p)
			return nil
		})
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st store.Store) error {
			if err := st.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		})
	},
}

var projectDuplicateCmd = &cobra.Command{
	Use:   "duplicate [id] [new-name]",
	Short: "Copy a saved project under a new name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st store.Store) error {
			copied, err := st.DuplicateProject(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Duplicated project as %q (%s)\n", copied.Name, copied.ID)
			return nil
		})
	},
}

func init() {
	projectSaveCmd.Flags().StringVar(&projectName, "name", "", "Project name (default the scenario name)")
	projectSaveCmd.Flags().StringVar(&projectDescription, "description", "", "Project description")
	projectListCmd.Flags().StringVar(&projectSearch, "search", "", "Only list projects whose name contains this text")
	projectListCmd.Flags().IntVar(&projectLimit, "limit", 0, "Maximum projects to list (default 100)")
	for _, c := range []*cobra.Command{projectListCmd, projectShowCmd} {
		c.Flags().StringVarP(&projectFormat, "format", "f", "console", "Output format (console, json)")
	}

	projectCmd.AddCommand(projectSaveCmd, projectListCmd, projectShowCmd, projectDeleteCmd, projectDuplicateCmd)
	rootCmd.AddCommand(projectCmd)
}

// openStore opens and migrates the configured project database.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	path := "pvfin.db"
	if settings != nil && settings.Store.Path != "" {
		path = settings.Store.Path
	}
	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func writeProject(w io.Writer, p *domain.SavedProject) {
	fmt.Fprintln(w, output.TitleStyle.Render("PROJECT: "+p.Name))
	fmt.Fprintf(w, "  %-22s %s\n", "ID", p.ID)
	if p.Description != "" {
		fmt.Fprintf(w, "  %-22s %s\n", "Description", p.Description)
	}
	fmt.Fprintf(w, "  %-22s %s MW\n", "Capacity", p.Parameters.CapacityMW.String())
	fmt.Fprintf(w, "  %-22s %d years\n", "Project life", p.Parameters.ProjectLife)
	if p.Route != nil {
		fmt.Fprintf(w, "  %-22s %s kV over %s km\n", "Route", p.Route.CableVoltageKV.String(), p.Route.DistanceKm.String())
	}
	fmt.Fprintf(w, "  %-22s %s\n", "Updated", p.UpdatedAt.Format("2006-01-02 15:04"))
	if s := p.Summary; s != nil {
		fmt.Fprintf(w, "  %-22s %s/MWh\n", "LCOE", output.FormatCurrency(s.LCOE))
		fmt.Fprintf(w, "  %-22s %s\n", "IRR", output.FormatRate(s.IRR, s.IRRStatus))
		fmt.Fprintf(w, "  %-22s %s\n", "Discounted payback", output.FormatPayback(s.PaybackPeriod, s.PaysBack))
		fmt.Fprintf(w, "  %-22s %s\n", "NPV", output.FormatCurrency(s.TotalDiscountedCashFlow))
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
