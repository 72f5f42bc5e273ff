package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docclean/internal/bootstrap"
	"docclean/internal/config"
	"docclean/internal/logging"
	"docclean/internal/model"
	"docclean/internal/templates"
)

// cli holds state shared by subcommands once the root pre-run has built it.
type cli struct {
	cfg  *config.AppConfig
	log  logging.Logger
	svcs *bootstrap.Services
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "docclean",
		Short:        "Extract text from a PDF and clean it into JSON with an LLM",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.cfg = config.Load()
			c.log = logging.NewWithWriter(cmd.ErrOrStderr(), c.cfg.Log.Level, c.cfg.Log.Format)
			svcs, err := bootstrap.Build(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			c.svcs = svcs
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.svcs == nil {
				return nil
			}
			return c.svcs.Close()
		},
	}

	root.AddCommand(
		c.templatesCmd(),
		c.uploadCmd(),
		c.extractCmd(),
		c.cleanCmd(),
		c.exportCmd(),
	)
	return root
}

func (c *cli) templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the prompt templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range templates.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", t.ID, t.Name)
			}
			return nil
		},
	}
}

func (c *cli) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Store a PDF as the current document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			st, err := f.Stat()
			if err != nil {
				return err
			}

			doc, err := c.svcs.Documents.Upload(cmd.Context(), f, filepath.Base(args[0]), st.Size())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc.Location)
			return nil
		},
	}
}

func (c *cli) extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract and store the text of the current document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ex, err := c.svcs.Documents.Extract(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ex.Text)
			return nil
		},
	}
}

func (c *cli) cleanCmd() *cobra.Command {
	var (
		templateID int
		prompt     string
		provider   string
		apiKey     string
		textFile   string
	)
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the extracted text with an LLM and store the JSON result",
		Long: `Clean sends the stored extracted text (or --text-file) together with a
prompt to the AI provider. The prompt comes from --prompt or from a catalogue
entry selected with --template.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if prompt == "" {
				if templateID == 0 {
					return fmt.Errorf("one of --prompt or --template is required")
				}
				t, ok := templates.Get(templateID)
				if !ok {
					return fmt.Errorf("unknown template %d", templateID)
				}
				prompt = t.Prompt
			}

			var text string
			if textFile != "" {
				b, err := os.ReadFile(textFile)
				if err != nil {
					return err
				}
				text = string(b)
			} else {
				t, err := c.svcs.Documents.ExtractedText(cmd.Context())
				if err != nil {
					return err
				}
				text = t
			}

			res, err := c.svcs.Cleaning.Clean(cmd.Context(), model.CleaningRequest{
				UserPrompt:    prompt,
				ExtractedText: text,
				UserAPIKey:    apiKey,
				AIProvider:    provider,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, res.Content)
		},
	}
	cmd.Flags().IntVarP(&templateID, "template", "t", 0, "Prompt template id (see `docclean templates`)")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Custom prompt; overrides --template")
	cmd.Flags().StringVar(&provider, "provider", "gemini", "AI provider: gemini or openai")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Provider API key (defaults to GEMINI_API_KEY)")
	cmd.Flags().StringVar(&textFile, "text-file", "", "Read the text from a file instead of the stored extraction")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored cleaned result as csv, xlsx or json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := c.svcs.Cleaning.Export(cmd.Context(), format)
			if err != nil {
				return err
			}
			if out == "" {
				out = f.Name
			}
			if err := os.WriteFile(out, f.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format: csv, xlsx or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default cleaned_data.<format>)")
	return cmd
}

func writeJSON(cmd *cobra.Command, raw json.RawMessage) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(raw)
}
