package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	flowRiskAnalysis = "risk-analysis"
	flowControls     = "controls"
	flowClassify     = "classify"
	flowDocument     = "document"
	flowStagePrefix  = "stage/"
)

func cmdSuggest() *cli.Command {
	var projectID string
	var flow string
	var riskID string
	var kind string
	var repoCfg config.Repository
	var stageCfg config.Stage
	var geminiCfg config.Gemini
	var storageCfg config.Storage

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "project-id",
			Aliases:     []string{"p"},
			Usage:       "Project to run the flow against",
			Required:    true,
			Destination: &projectID,
		},
		&cli.StringFlag{
			Name:        "flow",
			Aliases:     []string{"f"},
			Usage:       "Flow to run: stage/<stage>, risk-analysis, controls, classify or document",
			Required:    true,
			Destination: &flow,
		},
		&cli.StringFlag{
			Name:        "risk-id",
			Usage:       "Risk entry for the controls flow",
			Destination: &riskID,
		},
		&cli.StringFlag{
			Name:        "kind",
			Usage:       "Document kind for the document flow",
			Value:       types.DocumentKindSystemCard.String(),
			Destination: &kind,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, stageCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:  "suggest",
		Usage: "Run one suggestion flow against a stored project and print the result as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			schemas, err := stageCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load stage forms")
			}

			blobs, err := storageCfg.Configure(ctx, repoCfg.Backend())
			if err != nil {
				return goerr.Wrap(err, "failed to initialize document storage")
			}
			defer func() {
				if err := blobs.Close(); err != nil {
					logger.Error("failed to close document storage", "error", err.Error())
				}
			}()

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}
			if llm == nil {
				return goerr.Wrap(usecase.ErrLLMNotConfigured, "gemini-project is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			pid := types.ProjectID(projectID)
			if err := pid.Validate(); err != nil {
				return err
			}

			// Operator commands act on behalf of the project owner
			project, err := repo.Project().Get(ctx, pid)
			if err != nil {
				return goerr.Wrap(err, "failed to get project", goerr.V("project_id", pid))
			}
			ctx = auth.ContextWithUser(ctx, &auth.User{ID: project.OwnerID})

			uc := usecase.New(repo,
				usecase.WithStageSchemas(schemas),
				usecase.WithLLM(llm, geminiCfg.Model()),
				usecase.WithBlobStore(blobs),
			)

			logger.Info("Running suggestion flow", "project_id", pid, "flow", flow)
			result, err := runFlow(ctx, uc, pid, flow, riskID, kind)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return goerr.Wrap(err, "failed to encode result")
			}
			return nil
		},
	}
}

func runFlow(ctx context.Context, uc *usecase.UseCases, pid types.ProjectID, flow, riskID, kind string) (any, error) {
	switch {
	case strings.HasPrefix(flow, flowStagePrefix):
		stage, err := types.ParseStage(strings.TrimPrefix(flow, flowStagePrefix))
		if err != nil {
			return nil, err
		}
		return uc.Suggest.SuggestStage(ctx, pid, stage)

	case flow == flowRiskAnalysis:
		return uc.Suggest.AnalyzeRisks(ctx, pid)

	case flow == flowControls:
		rid := types.RiskID(riskID)
		if err := rid.Validate(); err != nil {
			return nil, goerr.Wrap(err, "risk-id is required for the controls flow")
		}
		return uc.Suggest.MapControls(ctx, pid, rid)

	case flow == flowClassify:
		return uc.Suggest.ClassifyRisk(ctx, pid)

	case flow == flowDocument:
		k, err := types.ParseDocumentKind(kind)
		if err != nil {
			return nil, err
		}
		return uc.Document.GenerateDocument(ctx, pid, k)

	default:
		return nil, goerr.New("unknown flow", goerr.V("flow", flow))
	}
}
