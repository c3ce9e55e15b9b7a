package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/boardsync/internal/model"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Manage companies in the record store",
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all companies in the store",
	RunE:  runCompaniesList,
}

var (
	addName     string
	addWebsite  string
	addEndpoint string
)

var companiesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one company to the store",
	RunE:  runCompaniesAdd,
}

var companiesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Add the companies listed in the config file",
	Long:  "Adds every entry under `companies:` whose name is not already in the store.",
	RunE:  runCompaniesImport,
}

func init() {
	companiesAddCmd.Flags().StringVar(&addName, "name", "", "company name (required)")
	companiesAddCmd.Flags().StringVar(&addWebsite, "website", "", "company website")
	companiesAddCmd.Flags().StringVar(&addEndpoint, "endpoint", "", "ATS job board URL")
	_ = companiesAddCmd.MarkFlagRequired("name")

	companiesCmd.AddCommand(companiesListCmd, companiesAddCmd, companiesImportCmd)
	rootCmd.AddCommand(companiesCmd)
}

func runCompaniesList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	return writeCompanyTable(cmd.Context(), cmd.OutOrStdout(), a)
}

// writeCompanyTable prints every company with its stored job count.
func writeCompanyTable(ctx context.Context, out io.Writer, a *app) error {
	companies, err := listAllCompanies(ctx, a.store)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%-25s %-12s %8s  %s\n", "Company", "Platform", "Jobs", "Endpoint")
	fmt.Fprintln(out, strings.Repeat("─", 82))

	unresolved, totalJobs := 0, 0
	for _, c := range companies {
		platform := string(c.Platform)
		if c.ATSEndpoint == "" {
			platform = "-"
			unresolved++
		}
		n, err := a.backing.CountJobs(ctx, c.ID)
		if err != nil {
			return err
		}
		totalJobs += n
		fmt.Fprintf(out, "%-25s %-12s %8s  %s\n", c.Name, platform, humanize.Comma(int64(n)), c.ATSEndpoint)
	}

	fmt.Fprintf(out, "\nTotal: %s companies (%s unresolved), %s jobs\n",
		humanize.Comma(int64(len(companies))), humanize.Comma(int64(unresolved)), humanize.Comma(int64(totalJobs)))
	return nil
}

func runCompaniesAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	c, err := a.backing.AddCompany(cmd.Context(), newCompany(addName, addWebsite, addEndpoint))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", c.Name, c.ID)
	return nil
}

func runCompaniesImport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	added, err := importCompanies(cmd.Context(), a)
	if err != nil {
		return err
	}
	logger.Info("import complete", "added", added, "configured", len(a.cfg.Companies))
	return nil
}

// importCompanies adds configured companies whose names are not yet stored.
// Names compare case-insensitively.
func importCompanies(ctx context.Context, a *app) (int, error) {
	existing, err := listAllCompanies(ctx, a.store)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[strings.ToLower(strings.TrimSpace(c.Name))] = true
	}

	added := 0
	for _, cc := range a.cfg.Companies {
		key := strings.ToLower(strings.TrimSpace(cc.Name))
		if seen[key] {
			continue
		}
		if _, err := a.backing.AddCompany(ctx, newCompany(cc.Name, cc.Website, cc.ATSEndpoint)); err != nil {
			return added, err
		}
		seen[key] = true
		added++
	}
	return added, nil
}

func newCompany(name, website, endpoint string) model.Company {
	return model.Company{
		Name:        strings.TrimSpace(name),
		Website:     strings.TrimSpace(website),
		ATSEndpoint: strings.TrimSpace(endpoint),
	}
}

// openApp loads the config and wires the pipeline for commands that only
// touch the store.
func openApp() (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return nil, err
	}
	return buildApp(cfg, wireOptions{audit: true}, setupLogger(debug))
}
