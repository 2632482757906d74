package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"study-importer/internal/assistant"
	"study-importer/internal/config"
	"study-importer/internal/deck"
	"study-importer/internal/render"
	"study-importer/internal/server"
	"study-importer/internal/studydump"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "study-importer",
		Short:        "Turn AI study dumps into summaries and flashcard decks",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, true)
			if err != nil {
				return err
			}
			defer a.close()
			return runTUI(a)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to the YAML config file")

	root.AddCommand(
		newParseCmd(&configPath),
		newImportCmd(&configPath),
		newCardsCmd(&configPath),
		newGenerateCmd(&configPath),
		newExportCmd(&configPath),
		newServeCmd(&configPath),
	)
	return root
}

func runTUI(a *app) error {
	a.log.Info("starting tui")
	deps := tuiDeps{cfg: a.cfg, log: a.log}

	store, err := a.openStore()
	if err != nil {
		a.log.Warn("deck storage unavailable", "error", err)
	} else {
		defer store.Close()
		deps.store = store
	}
	if client, err := a.newAssistant(); err == nil {
		deps.generator = client
	}

	p := tea.NewProgram(newModel(deps), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newParseCmd(configPath *string) *cobra.Command {
	var asJSON, strict bool
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a study dump and print what was found",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			text, err := readInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			r := studydump.Parse(text)
			issues := studydump.Validate(r)
			a.log.Debug("parsed dump", "dialect", r.DetectedDialect, "entries", r.EntryCount, "issues", len(issues))

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := marshalExport(r)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			} else {
				fmt.Fprintln(out, renderPreview(r, issues, 0))
			}
			if strict && len(issues) > 0 {
				return fmt.Errorf("%d issue(s): %s", len(issues), issues[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when the validator reports issues")
	return cmd
}

func newImportCmd(configPath *string) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Validate a study dump and store it as a deck",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			text, err := readInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.Import(cmd.Context(), title, studydump.Parse(text))
			var verr *deck.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("cannot import: %s", verr.First())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported deck %q (%s) with %d card(s)\n", d.Title, d.ID, d.CardCount)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Deck title (defaults to the summary title)")
	return cmd
}

var tableStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return tableStyle }).
		Headers(headers...).
		Rows(rows...).
		String()
}

func shorten(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

func cardRows(cards []deck.Card) [][]string {
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		e := c.Entry()
		rows = append(rows, []string{
			fmt.Sprint(c.Position),
			shorten(e.Question, 40),
			shorten(e.Answer, 40),
			strings.Join(e.Tags, ", "),
			string(e.Level),
		})
	}
	return rows
}

func newCardsCmd(configPath *string) *cobra.Command {
	var deckID, search string
	var limit int
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List decks, the cards of one deck, or search cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			cardHeaders := []string{"#", "Question", "Answer", "Tags", "Level"}

			switch {
			case search != "":
				cards, err := store.Search(ctx, search, limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderTable(cardHeaders, cardRows(cards)))
			case deckID != "":
				id, err := uuid.Parse(deckID)
				if err != nil {
					return fmt.Errorf("invalid deck id %q: %w", deckID, err)
				}
				cards, err := store.Cards(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderTable(cardHeaders, cardRows(cards)))
			default:
				decks, err := store.Decks(ctx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(decks))
				for _, d := range decks {
					rows = append(rows, []string{
						d.ID.String(),
						shorten(d.Title, 40),
						d.Dialect,
						fmt.Sprint(d.CardCount),
						d.CreatedAt.Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Dialect", "Cards", "Created"}, rows))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&deckID, "deck", "", "Show the cards of this deck")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Search cards by question, answer or tag")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of search results")
	return cmd
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var style, out, model string
	var count int
	cmd := &cobra.Command{
		Use:   "generate <notes-file|->",
		Short: "Ask the assistant to write a study dump from notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			st, err := assistant.ParseStyle(style)
			if err != nil {
				return err
			}
			notes, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			client, err := a.newAssistant()
			if err != nil {
				return err
			}
			dump, err := client.GenerateDump(cmd.Context(), assistant.DumpRequest{
				Notes: notes,
				Style: st,
				Count: count,
				Model: model,
			})
			if err != nil {
				return err
			}
			if out != "" {
				if err := os.WriteFile(out, []byte(dump), 0o644); err != nil {
					return err
				}
				a.log.Info("dump written", "path", out)
			}
			r := studydump.Parse(dump)
			fmt.Fprintln(cmd.OutOrStdout(), renderPreview(r, studydump.Validate(r), 0))
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", string(assistant.StyleBlock), "Q&A style: block or inline")
	cmd.Flags().IntVarP(&count, "count", "n", assistant.DefaultCount, "Number of questions")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the raw dump to this file")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use instead of the configured one")
	return cmd
}

func newExportCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [file|-]",
		Short: "Render a study dump as a standalone HTML study sheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			text, err := readInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			r := studydump.Parse(text)
			if issues := studydump.Validate(r); len(issues) > 0 {
				return fmt.Errorf("cannot export: %s", issues[0])
			}
			html, err := render.Sheet(r)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d card(s))\n", out, r.EntryCount)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output HTML file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser and deck store over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			var store server.DeckStore
			if s, err := a.openStore(); err != nil {
				a.log.Warn("deck storage unavailable, deck routes disabled", "error", err)
			} else {
				defer s.Close()
				store = s
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := server.New(server.Options{
				Addr:           addr,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
				Debug:          a.cfg.Log.Mode != "production",
			}, store, a.log)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr)")
	return cmd
}
