package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool
	noRobots    bool
	httpProxy   string
	httpsProxy  string

	keyword         string
	secondary       []string
	metaTitle       string
	metaDescription string
	pageURL         string
	competitorsFile string

	sourceA    string
	sourceB    string
	escalation string
	signals    string
	research   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|url|->",
	Short: "Score one article and generate a report",
	Long: `Analyze scores a single article:
- Split it into sentences and tag each with two classifiers
- Escalate disagreements and reconcile every sentence
- Compute Level 2 component scores, Level 3 composites and final scores
- Recommend fixes for below-threshold scores

The article can be a local file (text, Markdown or HTML), an http(s) URL,
or "-" to read from stdin.

Example:
  centauri analyze article.md --keyword "ai content checker"
  centauri analyze https://example.com/blog/post -k "ai content checker" --json report.json --md report.md
  centauri analyze draft.html -k "ai content checker" --source-a openai:gpt-4o-mini --source-b gemini:gemini-2.0-flash`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Article context flags
	analyzeCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "primary keyword")
	analyzeCmd.Flags().StringSliceVar(&secondary, "secondary", nil, "secondary keywords (comma-separated; omit to derive from competitors)")
	analyzeCmd.Flags().StringVar(&metaTitle, "meta-title", "", "meta title (read from the page head for HTML input)")
	analyzeCmd.Flags().StringVar(&metaDescription, "meta-description", "", "meta description (read from the page head for HTML input)")
	analyzeCmd.Flags().StringVar(&pageURL, "url", "", "published URL for slug checks (set automatically for URL input)")
	analyzeCmd.Flags().StringVar(&competitorsFile, "competitors", "", "JSON file with competitor pages [{url, headings}] (skips research)")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	addFetchFlags(analyzeCmd)
	addClassifierFlags(analyzeCmd)
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
}

// addFetchFlags registers the URL fetching flags
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (default from config)")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read (default from config)")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// addClassifierFlags registers the per-role provider flags
func addClassifierFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourceA, "source-a", "", "Source A classifier as provider[:model], or none for detectors")
	cmd.Flags().StringVar(&sourceB, "source-b", "", "Source B classifier as provider[:model], or none for the lexicon")
	cmd.Flags().StringVar(&escalation, "escalation", "", "escalation classifier as provider[:model], or none")
	cmd.Flags().StringVar(&signals, "signals", "", "AI-indexing signal tagger as provider[:model], or none")
	cmd.Flags().StringVar(&research, "research", "", "competitor research model as provider[:model], or none")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
}

// configFromFlags loads the config and applies only the flags the user set
func configFromFlags(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	roles := []struct {
		flag  string
		value string
		role  *model.LLMConfig
	}{
		{"source-a", sourceA, &cfg.Classifiers.Primary},
		{"source-b", sourceB, &cfg.Classifiers.Secondary},
		{"escalation", escalation, &cfg.Classifiers.Escalation},
		{"signals", signals, &cfg.Classifiers.Signals},
		{"research", research, &cfg.Classifiers.Research},
	}
	for _, r := range roles {
		if changed(r.flag) {
			*r.role = parseRole(r.value, *r.role)
		}
	}
	applyEnvKeys(cfg)

	if changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if changed("no-robots") {
		cfg.HTTP.RespectRobots = !noRobots
	}
	if changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// inputDefaults collects the article context flags shared by analyze and batch
func inputDefaults(cmd *cobra.Command) (pipeline.Input, error) {
	in := pipeline.Input{
		PrimaryKeyword:  keyword,
		MetaTitle:       metaTitle,
		MetaDescription: metaDescription,
		URL:             pageURL,
	}
	if f := cmd.Flags().Lookup("secondary"); f != nil && f.Changed {
		in.SecondaryKeywords = append([]string{}, secondary...)
	}
	if competitorsFile != "" {
		competitors, err := readCompetitors(competitorsFile)
		if err != nil {
			return in, err
		}
		in.Competitors = competitors
	}
	return in, nil
}

func readCompetitors(path string) ([]model.CompetitorPage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read competitors: %w", err)
	}
	var pages []model.CompetitorPage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parse competitors %s: %w", path, err)
	}
	return pages, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	defaults, err := inputDefaults(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", source)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := newPipeline(ctx, cfg, pipeline.WithDefaults(defaults))
	if err != nil {
		return err
	}

	var in pipeline.Input
	if source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		in = defaults
		in.Article = string(data)
	} else {
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Loading article...\n")
		}
		in, err = p.LoadSource(ctx, source)
		if err != nil {
			return fmt.Errorf("load failed: %w", err)
		}
	}

	report, err := p.Analyze(ctx, in)
	if err != nil {
		if errors.Is(err, pipeline.ErrArticleMissing) && report != nil {
			for _, msg := range report.InputIntegrity.Messages {
				fmt.Fprintf(os.Stderr, "✗ %s\n", msg)
			}
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Tagged %d sentences\n", len(report.ValidatedSentences))
		fmt.Fprintf(os.Stderr, "✓ Escalated %d sentences\n", len(report.Diagnostics.EscalatedSentenceIDs))
		for role, name := range report.Diagnostics.Classifiers {
			fmt.Fprintf(os.Stderr, "  %-10s %s\n", role, name)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
