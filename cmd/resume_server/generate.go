package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skydev929/us-resume-v2/internal/db"
	"github.com/skydev929/us-resume-v2/internal/fetch"
	"github.com/skydev929/us-resume-v2/internal/llm"
	"github.com/skydev929/us-resume-v2/internal/observability"
	"github.com/skydev929/us-resume-v2/internal/pipeline"
	"github.com/skydev929/us-resume-v2/internal/profile"
	"github.com/skydev929/us-resume-v2/internal/rendering"
	"github.com/skydev929/us-resume-v2/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one tailored resume PDF from the command line",
	Long: `Run the generation pipeline once without the HTTP server: load a profile
from a JSON file or the database, take the job description from a text file
or a posting URL, and write the rendered PDF to disk.`,
	RunE: runGenerate,
}

var (
	genConfigPath string
	genProfile    string
	genProfileKey string
	genJob        string
	genJobURL     string
	genTemplate   string
	genOut        string
	genCompany    string
	genJobTitle   string
	genVerbose    bool
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file")
	generateCmd.Flags().StringVarP(&genProfile, "profile", "p", "", "Path to profile JSON file (mutually exclusive with --profile-key)")
	generateCmd.Flags().StringVar(&genProfileKey, "profile-key", "", "Profile key to load from the database (requires DATABASE_URL)")
	generateCmd.Flags().StringVarP(&genJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	generateCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL to fetch the job posting from")
	generateCmd.Flags().StringVarP(&genTemplate, "template", "t", "", "Document template name")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "resume.pdf", "Output PDF path")
	generateCmd.Flags().StringVar(&genCompany, "company", "", "Employer name (filename only)")
	generateCmd.Flags().StringVar(&genJobTitle, "job-title", "", "Job title (filename only)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed stage summaries")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadLayeredConfig(genConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = genTemplate
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}
	if genProfile == "" {
		genProfile = cfg.ProfilePath
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if genProfile == "" && genProfileKey == "" {
		return fmt.Errorf("either --profile or --profile-key is required")
	}
	if genProfile != "" && genProfileKey != "" {
		return fmt.Errorf("--profile and --profile-key are mutually exclusive")
	}
	if genJob == "" && genJobURL == "" {
		return fmt.Errorf("either --job or --job-url is required")
	}
	if genJob != "" && genJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive")
	}
	if !rendering.HasTemplate(cfg.Template) {
		return &rendering.TemplateNotFoundError{Name: cfg.Template}
	}

	record, err := loadRecord(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	jobDescription, err := loadJobDescription(ctx, cfg.Verbose)
	if err != nil {
		return err
	}

	client, err := llm.NewGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}
	defer func() { _ = client.Close() }()

	runner := pipeline.New(client, pipeline.Config{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Retries:   cfg.Retries,
		Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
	})

	result, err := runner.Run(ctx, record, jobDescription)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintProfile(record, result.Years)
		printer.PrintGeneration(result)
		printer.PrintReconciliation(result)
		printer.PrintResumeContent(result.Content)
	}

	renderCtx := rendering.BuildContext(record, result.Content)
	html, err := rendering.Render(cfg.Template, renderCtx)
	if err != nil {
		return err
	}

	pdfPrinter := &rendering.ChromePrinter{}
	pdf, err := pdfPrinter.Print(ctx, html, rendering.LetterOptions())
	if err != nil {
		return err
	}

	out := genOut
	if out == "" || out == "resume.pdf" {
		jobTitle := genJobTitle
		if jobTitle == "" {
			jobTitle = result.Content.Title
		}
		out = rendering.Filename(record.Name, genCompany, jobTitle)
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", out, len(pdf))
	return nil
}

// loadRecord reads the profile from the JSON file or the database.
func loadRecord(ctx context.Context, databaseURL string) (*types.ProfileRecord, error) {
	if genProfile != "" {
		return profile.LoadFile(genProfile)
	}

	if databaseURL == "" {
		return nil, fmt.Errorf("--profile-key requires DATABASE_URL")
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	record, err := database.GetProfile(ctx, genProfileKey)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("profile not found: %s", genProfileKey)
	}
	return record, nil
}

// loadJobDescription reads the description from the text file or fetches
// the posting URL.
func loadJobDescription(ctx context.Context, verbose bool) (string, error) {
	if genJob != "" {
		data, err := os.ReadFile(genJob)
		if err != nil {
			return "", fmt.Errorf("failed to read job file %s: %w", genJob, err)
		}
		return string(data), nil
	}

	fetcher := fetch.NewJobFetcher(verbose)
	return fetcher.JobDescription(ctx, genJobURL)
}
