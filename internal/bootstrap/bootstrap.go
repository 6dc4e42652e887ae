package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	audioinadapter "dictation/internal/modules/audio/adapter/in"
	audiooutadapter "dictation/internal/modules/audio/adapter/out"
	audiodomain "dictation/internal/modules/audio/domain"
	audioout "dictation/internal/modules/audio/port/out"
	audioservice "dictation/internal/modules/audio/service"
	audiousecase "dictation/internal/modules/audio/usecase"
	backupinadapter "dictation/internal/modules/backup/adapter/in"
	backupoutadapter "dictation/internal/modules/backup/adapter/out"
	backupservice "dictation/internal/modules/backup/service"
	backupusecase "dictation/internal/modules/backup/usecase"
	lessoninadapter "dictation/internal/modules/lesson/adapter/in"
	lessonoutadapter "dictation/internal/modules/lesson/adapter/out"
	lessonservice "dictation/internal/modules/lesson/service"
	lessonusecase "dictation/internal/modules/lesson/usecase"
	masteryoutadapter "dictation/internal/modules/mastery/adapter/out"
	masteryservice "dictation/internal/modules/mastery/service"
	masteryusecase "dictation/internal/modules/mastery/usecase"
	statsinadapter "dictation/internal/modules/stats/adapter/in"
	statsoutadapter "dictation/internal/modules/stats/adapter/out"
	statsservice "dictation/internal/modules/stats/service"
	statsusecase "dictation/internal/modules/stats/usecase"
	studyinadapter "dictation/internal/modules/study/adapter/in"
	studyoutadapter "dictation/internal/modules/study/adapter/out"
	studyservice "dictation/internal/modules/study/service"
	studyusecase "dictation/internal/modules/study/usecase"
	"dictation/internal/platform/clock"
	"dictation/internal/platform/config"
	"dictation/internal/platform/i18n"
	"dictation/internal/platform/id"
	"dictation/internal/platform/logging"
	"dictation/internal/platform/storage"
	uiapp "dictation/internal/ui/app"
)

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	Translator i18n.Translator

	LessonCLI lessoninadapter.CLIHandler
	StudyCLI  studyinadapter.CLIHandler
	StudyTUI  studyinadapter.TUIHandler
	StatsCLI  statsinadapter.CLIHandler
	BackupCLI backupinadapter.CLIHandler
	AudioCLI  audioinadapter.CLIHandler
	AudioTUI  audioinadapter.TUIHandler

	closers []io.Closer
}

func New(cfg config.Config) (*App, error) {
	logger, logFile, err := logging.NewFile(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		return nil, err
	}
	app := &App{
		Config:     cfg,
		Logger:     logger,
		Translator: i18n.Default().Translator(cfg.Locale),
		closers:    []io.Closer{logFile},
	}
	if err := app.wire(); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire() error {
	cfg := a.Config
	clk := clock.SystemClock{}

	kv, err := newStore(cfg.Storage)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, kv)

	source, err := lessonoutadapter.NewSource(cfg.Lessons.Source, cfg.Lessons.Timeout)
	if err != nil {
		return fmt.Errorf("new lesson source: %w", err)
	}
	lessonUC := lessonusecase.NewInteractor(lessonservice.NewLoaderService(
		clk,
		source,
		lessonoutadapter.NewFileUploadStore(cfg.Lessons.UploadDir),
		cfg.Lessons.IndexFile,
		cfg.Lessons.DefaultUnit,
		a.Logger.Named("lesson"),
	))

	masteryUC := masteryusecase.NewInteractor(masteryservice.NewMasteryService(
		masteryoutadapter.NewKVStarStore(kv, a.Logger.Named("mastery")),
	))
	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(
		clk,
		statsoutadapter.NewKVStatsStore(kv, a.Logger.Named("stats")),
	))

	engine := newEngine(cfg.Speech, a.Logger.Named("speech"))
	if closer, ok := engine.(io.Closer); ok {
		a.closers = append(a.closers, closer)
	}
	audioUC := audiousecase.NewInteractor(audioservice.NewController(engine, audioservice.Options{
		Voice: audiodomain.Voice{
			Lang:   cfg.Speech.Lang,
			Rate:   cfg.Speech.Rate,
			Volume: cfg.Speech.Volume,
			Pitch:  cfg.Speech.Pitch,
		},
		Grace:      cfg.Speech.Grace,
		SpeakDelay: cfg.Speech.SpeakDelay,
		Logger:     a.Logger.Named("audio"),
		IDs:        id.RandomHex{},
	}))

	studyUC := studyusecase.NewInteractor(studyservice.NewStudyService(studyservice.Deps{
		Lesson:      lessonUC,
		Mastery:     masteryUC,
		Stats:       statsUC,
		Audio:       audioUC,
		Current:     studyoutadapter.NewKVCurrentUnitStore(kv, clk),
		TickMinutes: cfg.Study.TickMinutes,
		Logger:      a.Logger.Named("study"),
	}))

	backupUC := backupusecase.NewInteractor(backupservice.NewBackupService(
		clk,
		masteryUC,
		statsUC,
		backupoutadapter.NewFileArchive(),
		a.Logger.Named("backup"),
	))

	a.LessonCLI = lessoninadapter.NewCLIHandler(lessonUC)
	a.StudyCLI = studyinadapter.NewCLIHandler(studyUC)
	a.StudyTUI = studyinadapter.NewTUIHandler(studyUC)
	a.StatsCLI = statsinadapter.NewCLIHandler(statsUC)
	a.BackupCLI = backupinadapter.NewCLIHandler(backupUC)
	a.AudioCLI = audioinadapter.NewCLIHandler(audioUC)
	a.AudioTUI = audioinadapter.NewTUIHandler(audioUC)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if a.closers[i] == nil {
			continue
		}
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App, unitID string) error {
	model := uiapp.NewModel(app.StudyTUI, app.LessonCLI, app.BackupCLI, app.AudioTUI, app.Translator, uiapp.Options{
		UnitID:       unitID,
		TickInterval: app.Config.Study.TickInterval,
		WarmUp:       app.Config.Speech.WarmUp,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if closeErr := app.StudyTUI.Close(context.Background()); closeErr != nil {
		app.Logger.Warn("stop playback", "error", closeErr)
	}
	return err
}

func newStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.StorageFile:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		return storage.NewFileStore(cfg.Dir), nil
	default:
		store, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open progress store: %w", err)
		}
		return store, nil
	}
}

// newEngine picks the speech engine. Auto prefers a configured plugin and falls back to a local command.
func newEngine(cfg config.SpeechConfig, logger hclog.Logger) audioout.Engine {
	switch cfg.Engine {
	case config.EngineNone:
		return audiooutadapter.NewNullEngine()
	case config.EnginePlugin:
		return audiooutadapter.NewPluginEngine(cfg.Plugin, logger)
	case config.EngineExec:
		return audiooutadapter.NewExecEngine(cfg.Command)
	}
	if cfg.Plugin != "" {
		if engine := audiooutadapter.NewPluginEngine(cfg.Plugin, logger); engine.Available() {
			return engine
		}
		logger.Warn("speech plugin not found, using local command", "plugin", cfg.Plugin)
	}
	engine := audiooutadapter.NewExecEngine(cfg.Command)
	if !engine.Available() {
		logger.Info("no speech command found, playback disabled")
	}
	return engine
}
