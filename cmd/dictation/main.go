package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"dictation/internal/bootstrap"
	studydto "dictation/internal/modules/study/dto"
	"dictation/internal/platform/config"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/i18n"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	home   string
	unitID string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "dictation",
		Short:         "English dictation flashcards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.home, "home", config.DefaultHome(), "data and config directory")
	root.PersistentFlags().StringVar(&flags.unitID, "unit", "", "unit id (defaults to the last opened unit)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newUnitsCmd(flags))
	root.AddCommand(newShowCmd(flags))
	root.AddCommand(newUploadCmd(flags))
	root.AddCommand(newMarkCmd(flags, "correct", "Add a star to a card"))
	root.AddCommand(newMarkCmd(flags, "review", "Remove a star from a card"))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newResetCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newImportCmd(flags))
	root.AddCommand(newSayCmd(flags))
	root.AddCommand(newSpeechCmd(flags))
	return root
}

func loadApp(flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := config.New(flags.home)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(flags *globalFlags, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(flags)
	if err != nil {
		return err
	}
	runErr := fn(app)
	if closeErr := app.Close(); closeErr != nil && runErr == nil {
		return closeErr
	}
	return runErr
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the dictation terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(app, flags.unitID)
			})
		},
	}
}

func newUnitsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the units in the index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				index, err := app.LessonCLI.Index(cmd.Context())
				if err != nil {
					return err
				}
				if len(index.Units) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no units")
					return nil
				}
				for _, unit := range index.Units {
					origin := ""
					if unit.Uploaded {
						origin = " uploaded"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\twords=%d sentences=%d%s\n", unit.ID, unit.Title, unit.WordsCount, unit.SentencesCount, origin)
				}
				return nil
			})
		},
	}
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var kind string
	var visit bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cards of a unit with their stars",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				ctx := cmd.Context()
				show := app.StudyCLI.Show
				if visit {
					show = app.StudyCLI.Visit
				}
				ws, err := show(ctx, flags.unitID)
				if err != nil {
					return err
				}
				tr := app.Translator
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", ws.Title, ws.UnitID)
				if kind == "" || kind == "words" {
					printCards(cmd.OutOrStdout(), tr, tr.T("tab.words"), ws.Words)
				}
				if kind == "" || kind == "sentences" {
					printCards(cmd.OutOrStdout(), tr, tr.T("tab.sentences"), ws.Sentences)
				}
				return nil
			})
		},
	}
	show.Flags().StringVar(&kind, "kind", "", "only show words|sentences")
	show.Flags().BoolVar(&visit, "visit", false, "count this as a study session and remember the unit")
	return show
}

func printCards(w io.Writer, tr i18n.Translator, heading string, cards []studydto.CardOutput) {
	_, _ = fmt.Fprintf(w, "\n%s\n", heading)
	for _, card := range cards {
		stars := strings.Repeat("*", card.Stars) + strings.Repeat(".", card.MaxStars-card.Stars)
		_, _ = fmt.Fprintf(w, "  %-8s %s  %-28s %s  [%s]\n", card.ID, stars, card.English, card.Translation, tr.T(card.LabelKey))
	}
}

func newUploadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.json>",
		Short: "Add or replace a unit from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read unit file: %w", err)
			}
			return withApp(flags, func(app *bootstrap.App) error {
				ref, err := app.LessonCLI.Upload(cmd.Context(), payload)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%s) words=%d sentences=%d\n", ref.Title, ref.ID, ref.WordsCount, ref.SentencesCount)
				return nil
			})
		},
	}
}

func newMarkCmd(flags *globalFlags, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <item-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				mark := app.StudyCLI.Correct
				if action == "review" {
					mark = app.StudyCLI.Review
				}
				out, err := mark(cmd.Context(), flags.unitID, args[0])
				if err != nil {
					return err
				}
				state := "unchanged"
				if out.Changed {
					state = "saved"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s stars=%d %s overall=%d%%\n", out.Card.ID, out.Card.Stars, state, out.Overall.Percent)
				return nil
			})
		},
	}
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mastery and study time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				ctx := cmd.Context()
				tr := app.Translator
				out := cmd.OutOrStdout()
				overview, err := app.StudyCLI.Overview(ctx, flags.unitID)
				switch {
				case err == nil:
					_, _ = fmt.Fprintf(out, "%s (%s)\n", overview.Title, overview.UnitID)
					_, _ = fmt.Fprintf(out, "words      total=%d mastered=%d review=%d %d%%\n", overview.Words.Total, overview.Words.Mastered, overview.Words.Review, overview.Words.Percent)
					_, _ = fmt.Fprintf(out, "sentences  total=%d mastered=%d review=%d %d%%\n", overview.Sentences.Total, overview.Sentences.Mastered, overview.Sentences.Review, overview.Sentences.Percent)
					_, _ = fmt.Fprintf(out, "overall    %d%%\n\n", overview.Overall.Percent)
				case errors.Is(err, apperrors.ErrIndexUnavailable), errors.Is(err, apperrors.ErrUnitUnavailable):
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), err)
				default:
					return err
				}

				records, err := app.StatsCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					_, _ = fmt.Fprintln(out, tr.T("stats.empty"))
					return nil
				}
				for _, r := range records {
					_, _ = fmt.Fprintf(out, "%s\tmastery=%d%%\tsessions=%d\ttime=%s\tlast=%s\n", r.UnitID, r.Mastery, r.Sessions, tr.Minutes(r.TotalTime), tr.Date(r.LastAccessed))
				}
				return nil
			})
		},
	}
}

func newResetCmd(flags *globalFlags) *cobra.Command {
	reset := &cobra.Command{Use: "reset", Short: "Clear study progress"}

	var yes bool
	tab := &cobra.Command{
		Use:   "tab <words|sentences>",
		Short: "Clear the stars of one tab of a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				if err := app.StudyCLI.ResetTab(cmd.Context(), flags.unitID, args[0], yes); err != nil {
					return confirmHint(err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s stars cleared\n", args[0])
				return nil
			})
		},
	}
	tab.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	var allYes bool
	all := &cobra.Command{
		Use:   "all",
		Short: "Clear every star and study record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				if err := app.StudyCLI.ResetAll(cmd.Context(), allYes); err != nil {
					return confirmHint(err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all progress cleared")
				return nil
			})
		},
	}
	all.Flags().BoolVar(&allYes, "yes", false, "confirm the reset")

	reset.AddCommand(tab, all)
	return reset
}

func confirmHint(err error) error {
	if errors.Is(err, apperrors.ErrConfirmationRequired) {
		return fmt.Errorf("%w (pass --yes)", err)
	}
	return err
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write stars and study records to a backup file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.BackupCLI.Export(cmd.Context(), path)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d stars and %d units to %s\n", out.Stars, out.Units, out.Path)
				return nil
			})
		},
	}
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace progress with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.BackupCLI.Import(cmd.Context(), args[0], yes)
				if errors.Is(err, apperrors.ErrConfirmationRequired) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "backup from %s: %d stars, %d units\n", displayDate(out.ExportDate), out.Stars, out.Units)
					return confirmHint(err)
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d stars and %d units from %s\n", out.Stars, out.Units, out.Path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "replace current progress without asking")
	return cmd
}

func displayDate(date string) string {
	if date == "" {
		return "unknown date"
	}
	return date
}

func newSayCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "say <text>",
		Short: "Speak text with the configured voice",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return withApp(flags, func(app *bootstrap.App) error {
				return app.AudioCLI.Say(ctx, "say", strings.Join(args, " "))
			})
		},
	}
}

func newSpeechCmd(flags *globalFlags) *cobra.Command {
	speech := &cobra.Command{Use: "speech", Short: "Speech engine operations"}
	speech.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Describe the speech engine in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				info, err := app.AudioCLI.Check(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "engine=%s kind=%s version=%s available=%t\n", info.Name, info.Kind, info.Version, info.Available)
				if len(info.Capabilities) > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "capabilities=%s\n", strings.Join(info.Capabilities, ","))
				}
				return nil
			})
		},
	})
	return speech
}
