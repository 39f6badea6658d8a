package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	domainConfig "github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var stageCfg config.Stage
	var repoCfg config.Repository
	var checkDB bool

	var flags []cli.Flag
	flags = append(flags, stageCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-db",
		Usage:       "Re-validate stored stage records and risks against the stage forms",
		Sources:     cli.EnvVars("THEMIS_CHECK_DB"),
		Destination: &checkDB,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate stage form configuration and optionally check stored data",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			w := c.Root().Writer

			// Step 1: Load and validate the stage forms
			schemas, err := stageCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			printStageSummary(w, schemas)

			if !checkDB {
				logger.Info("DB consistency check not requested, skipping")
				return nil
			}

			// Step 2: Re-validate stored data
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithStageSchemas(schemas))
			result, err := uc.ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				warn := color.New(color.FgYellow)
				for _, issue := range result.Issues {
					target := string(issue.Stage)
					if issue.RiskID != "" {
						target = "risk " + issue.RiskID.String()
					}
					_, _ = warn.Fprintf(w, "  ! %s [%s] %s\n", issue.ProjectID, target, issue.Message)
				}
				return goerr.New(fmt.Sprintf("DB consistency check found %d issue(s)", len(result.Issues)),
					goerr.V("projects", result.Projects),
					goerr.V("records", result.Records))
			}

			_, _ = color.New(color.FgGreen).Fprintf(w, "DB check passed: %d project(s), %d record(s)\n",
				result.Projects, result.Records)
			return nil
		},
	}
}

func printStageSummary(w io.Writer, schemas *domainConfig.StageSchemas) {
	bold := color.New(color.Bold)
	ok := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	_, _ = ok.Fprintln(w, "Stage forms are valid")
	for _, schema := range schemas.List() {
		_, _ = bold.Fprintf(w, "  %-12s", schema.Stage)
		_, _ = fmt.Fprintf(w, " %s ", schema.Name)
		_, _ = dim.Fprintf(w, "(%d fields, %d required)\n", len(schema.Fields), len(schema.RequiredFieldIDs()))
	}
}
