package main

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Roelanb/studyplan/internal/config"
	"github.com/Roelanb/studyplan/internal/export"
	"github.com/Roelanb/studyplan/internal/observability"
	"github.com/Roelanb/studyplan/internal/options"
	"github.com/Roelanb/studyplan/internal/render"
	"github.com/Roelanb/studyplan/internal/submission"
)

// terminalView reports controller transitions on stderr.
type terminalView struct {
	w       io.Writer
	html    template.HTML
	message string
}

func (t *terminalView) SetTriggerEnabled(bool) {}

func (t *terminalView) SetLoading(loading bool) {
	if loading {
		color.New(color.FgBlue).Fprintln(t.w, "Creating your study plan...")
	}
}

func (t *terminalView) ShowResponse(html template.HTML) { t.html = html }

func (t *terminalView) ShowError(message string) { t.message = message }

func (t *terminalView) HideError() { t.message = "" }

func firstValue(d options.Domain) string {
	t, _ := options.TableFor(d)
	return t.Entries[0].Value
}

func newSubmitCmd() *cobra.Command {
	var (
		configPath string
		upstream   string
		validation string
		req        submission.Request
		out        string
		markdown   bool
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Request a study plan and print the rendered HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			config.ApplyEnv(cfg)
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if upstream != "" {
				cfg.Upstream.BaseURL = upstream
			}
			if validation != "" {
				cfg.Form.Validation = validation
			}
			mode, err := submission.ParseValidationMode(cfg.Form.Validation)
			if err != nil {
				return err
			}
			tr, err := submission.NewHTTPTransport(cfg.Upstream.BaseURL, submission.WithPath(cfg.Upstream.Path))
			if err != nil {
				return err
			}

			logger := observability.NewLogger(cfg.Logging.Level, "console")
			defer logger.Sync() //nolint:errcheck

			warn := color.New(color.FgYellow)
			checks := []struct {
				domain options.Domain
				value  string
			}{
				{options.DomainProjectType, req.ProjectType},
				{options.DomainReferencePreference, req.ReferencePreference},
				{options.DomainTimeframe, req.Timeframe},
				{options.DomainTimeConstraint, req.TimeConstraint},
			}
			for _, c := range checks {
				if c.value == "" {
					continue
				}
				if _, ok := options.Lookup(c.domain, c.value); !ok {
					warn.Fprintf(cmd.ErrOrStderr(), "warning: %q is not a listed %s option\n", c.value, c.domain)
				}
			}

			view := &terminalView{w: cmd.ErrOrStderr()}
			ctrl := submission.NewController(tr, render.NewMarkdown(), view,
				submission.WithValidation(mode),
				submission.WithLogger(logger),
				submission.WithName("cli"),
			)
			res, err := ctrl.Submit(cmd.Context(), req)
			if err != nil {
				return errors.New(view.message)
			}

			if out != "" {
				title := "Plan for " + truncate(req.Goal, 50)
				if err := export.WriteDocument(out, export.Document{Title: title, Body: res.HTML}); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
				return nil
			}
			body := string(res.HTML)
			if markdown {
				body = res.Markdown
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(body, "\n"))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "Path to config JSON file")
	f.StringVar(&upstream, "upstream", "", "Plan creator base URL (overrides config)")
	f.StringVar(&validation, "validation", "", "Required fields: goal|all")
	f.StringVar(&req.Goal, "goal", "", "What you want to learn")
	f.StringVar(&req.ProjectType, "project-type", firstValue(options.DomainProjectType), "Project type value")
	f.StringVar(&req.ReferencePreference, "reference", firstValue(options.DomainReferencePreference), "Reference preference value")
	f.StringVar(&req.Timeframe, "timeframe", firstValue(options.DomainTimeframe), "Overall timeframe, e.g. \"3 months\"")
	f.StringVar(&req.TimeConstraint, "time-constraint", firstValue(options.DomainTimeConstraint), "Daily time, e.g. \"2 hours\"")
	f.BoolVar(&req.IsPublic, "public", false, "Share the plan publicly")
	f.StringVar(&req.Model, "model", "", "Model to request from the plan creator")
	f.StringVar(&out, "out", "", "Write a standalone HTML page to this path")
	f.BoolVar(&markdown, "markdown", false, "Print the raw markdown instead of HTML")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
