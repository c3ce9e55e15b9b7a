package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var resolveDryRun bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <company-id>",
	Short: "Resolve one company's job board endpoint",
	Long:  "Runs endpoint resolution for one company and prints the result. The endpoint is saved unless --dry-run is set.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveDryRun, "dry-run", false, "do not save the endpoint")
	rootCmd.AddCommand(resolveCmd)
}

type resolveOutput struct {
	Company  string `json:"company"`
	Platform string `json:"platform"`
	APIURL   string `json:"apiUrl"`
	Slug     string `json:"slug"`
	Source   string `json:"source"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}
	a, err := buildApp(cfg, wireOptions{dryRun: resolveDryRun}, logger)
	if err != nil {
		return err
	}
	defer a.close()

	c, err := a.backing.GetCompany(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	res, err := a.resolver.Resolve(cmd.Context(), c)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resolveOutput{
		Company:  c.Name,
		Platform: string(res.Endpoint.Platform),
		APIURL:   res.Endpoint.APIURL,
		Slug:     res.Endpoint.Slug,
		Source:   string(res.Source),
	})
}
