package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next pending document as JSON",
	Long: `Print the next pending document as JSON without opening the review
screen. When the queue is empty a {"finished": true, "message": ...} object is
printed instead.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

// nextOutput is the JSON printed by the next command.
type nextOutput struct {
	Finished bool   `json:"finished,omitempty"`
	Message  string `json:"message,omitempty"`
	// Document is inlined so the output matches the service's own response.
	*documentJSON
}

type documentJSON struct {
	Basename    string `json:"basename"`
	YearFolder  string `json:"year_folder"`
	DateParsed  string `json:"date_parsed"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	HasPDF      bool   `json:"has_pdf"`
	HasDOCX     bool   `json:"has_docx"`
	PDFURL      string `json:"pdf_url,omitempty"`
	DOCXHTMLURL string `json:"docx_html_url,omitempty"`
	InitialText string `json:"initial_text"`
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := callContext(cmd.Context(), cfg)
	defer cancel()

	res, err := client.Next(ctx)
	if err != nil {
		return fmt.Errorf("fetching next document: %w", err)
	}

	var out nextOutput
	if res.Finished || res.Document == nil {
		out.Finished = true
		out.Message = res.Message
	} else {
		d := res.Document
		out.documentJSON = &documentJSON{
			Basename:    d.Basename,
			YearFolder:  d.YearFolder,
			DateParsed:  d.DateParsed,
			Category:    d.Category,
			Author:      d.Author,
			HasPDF:      d.HasPDF,
			HasDOCX:     d.HasDOCX,
			PDFURL:      client.ResolveURL(d.PDFURL),
			DOCXHTMLURL: client.ResolveURL(d.DOCXHTMLURL),
			InitialText: d.InitialText,
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
