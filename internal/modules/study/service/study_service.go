package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	audiodto "dictation/internal/modules/audio/dto"
	audioin "dictation/internal/modules/audio/port/in"
	lessondto "dictation/internal/modules/lesson/dto"
	lessonin "dictation/internal/modules/lesson/port/in"
	masterydto "dictation/internal/modules/mastery/dto"
	masteryin "dictation/internal/modules/mastery/port/in"
	statsdto "dictation/internal/modules/stats/dto"
	statsin "dictation/internal/modules/stats/port/in"
	"dictation/internal/modules/study/domain"
	studyout "dictation/internal/modules/study/port/out"
	apperrors "dictation/internal/platform/errors"
)

// StudyService owns the open unit. Every mutation is written through to storage before it returns.
type StudyService struct {
	lesson      lessonin.Usecase
	mastery     masteryin.Usecase
	stats       statsin.Usecase
	audio       audioin.Usecase
	current     studyout.CurrentUnitStore
	tickMinutes float64
	logger      hclog.Logger

	mu        sync.Mutex
	workspace *domain.Workspace
}

type Deps struct {
	Lesson      lessonin.Usecase
	Mastery     masteryin.Usecase
	Stats       statsin.Usecase
	Audio       audioin.Usecase
	Current     studyout.CurrentUnitStore
	TickMinutes float64
	Logger      hclog.Logger
}

func NewStudyService(deps Deps) *StudyService {
	if deps.Logger == nil {
		deps.Logger = hclog.NewNullLogger()
	}
	return &StudyService{
		lesson:      deps.Lesson,
		mastery:     deps.Mastery,
		stats:       deps.Stats,
		audio:       deps.Audio,
		current:     deps.Current,
		tickMinutes: deps.TickMinutes,
		logger:      deps.Logger,
	}
}

// View is a consistent rendering of the open unit.
type View struct {
	UnitID      string
	Title       string
	Description string
	Tab         domain.Kind
	Words       []domain.Card
	Sentences   []domain.Card
	Playing     string
}

// Open switches to a unit. An empty id reopens the remembered unit, else the default one.
// Opening the unit that is already open only renders it.
func (s *StudyService) Open(ctx context.Context, requested string, visit bool) (View, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		remembered, err := s.current.Load(ctx)
		if err != nil && !errors.Is(err, apperrors.ErrNoActiveUnit) {
			s.logger.Warn("read current unit failed", "error", err)
		}
		requested = remembered
	}
	unitID, err := s.lesson.Resolve(ctx, lessondto.ResolveInput{Requested: requested})
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil || s.workspace.UnitID != unitID {
		if err := s.load(ctx, unitID, visit); err != nil {
			return View{}, err
		}
	}
	return s.view(ctx)
}

// Reload re-reads the open unit and its progress, counting a new visit. Cards return to their fronts.
func (s *StudyService) Reload(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil {
		return View{}, apperrors.ErrNoActiveUnit
	}
	tab := s.workspace.Tab
	if err := s.load(ctx, s.workspace.UnitID, true); err != nil {
		return View{}, err
	}
	s.workspace.Tab = tab
	return s.view(ctx)
}

func (s *StudyService) load(ctx context.Context, unitID string, visit bool) error {
	unit, err := s.lesson.LoadUnit(ctx, lessondto.LoadUnitInput{UnitID: unitID})
	if err != nil {
		return err
	}
	if _, err := s.audio.Stop(ctx, ""); err != nil {
		s.logger.Debug("stop playback on unit switch", "error", err)
	}
	workspace := domain.NewWorkspace(unit.ID, unit.Title, unit.Description, toItems(unit.Words), toItems(unit.Sentences))
	if err := s.mastery.Ensure(ctx, masterydto.IDsInput{IDs: workspace.AllIDs()}); err != nil {
		return err
	}
	if visit {
		if _, err := s.stats.RecordVisit(ctx, unit.ID); err != nil {
			return err
		}
		if err := s.current.Save(ctx, unit.ID); err != nil {
			return err
		}
	}
	if _, err := s.syncMastery(ctx, workspace); err != nil {
		return err
	}
	s.workspace = workspace
	s.logger.Info("unit opened", "unit", unit.ID, "words", len(unit.Words), "sentences", len(unit.Sentences), "visit", visit)
	return nil
}

// Current renders the open unit or returns ErrNoActiveUnit.
func (s *StudyService) Current(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil {
		return View{}, apperrors.ErrNoActiveUnit
	}
	return s.view(ctx)
}

func (s *StudyService) SelectTab(ctx context.Context, kind domain.Kind) (View, error) {
	if err := validKind(kind); err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil {
		return View{}, apperrors.ErrNoActiveUnit
	}
	s.workspace.Tab = kind
	return s.view(ctx)
}

type FlipResult struct {
	Card     domain.Card
	AudioErr error
}

// Flip turns a card over. Showing the back speaks the item; hiding it stops that card's playback.
func (s *StudyService) Flip(ctx context.Context, itemID string) (FlipResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.item(itemID)
	if err != nil {
		return FlipResult{}, err
	}
	var result FlipResult
	if s.workspace.Flip(item.ID) {
		if s.audio.Status(ctx).Control != item.ID {
			_, result.AudioErr = s.audio.Play(ctx, audiodto.PlayInput{Key: item.Audio, Text: s.workspace.TextFor(item.Audio), Control: item.ID})
			if result.AudioErr != nil {
				s.logger.Warn("autoplay failed", "item", item.ID, "error", result.AudioErr)
			}
		}
	} else if _, err := s.audio.Stop(ctx, item.ID); err != nil {
		s.logger.Debug("stop playback on flip back", "item", item.ID, "error", err)
	}
	if result.Card, err = s.card(ctx, item); err != nil {
		return FlipResult{}, err
	}
	return result, nil
}

type MarkResult struct {
	Card    domain.Card
	Changed bool
	Overall masterydto.SummaryOutput
}

func (s *StudyService) MarkCorrect(ctx context.Context, itemID string) (MarkResult, error) {
	return s.mark(ctx, itemID, s.mastery.Increment)
}

func (s *StudyService) MarkReview(ctx context.Context, itemID string) (MarkResult, error) {
	return s.mark(ctx, itemID, s.mastery.Decrement)
}

func (s *StudyService) mark(ctx context.Context, itemID string, apply func(context.Context, string) (masterydto.StarOutput, error)) (MarkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.item(itemID)
	if err != nil {
		return MarkResult{}, err
	}
	out, err := apply(ctx, item.ID)
	if err != nil {
		return MarkResult{}, err
	}
	result := MarkResult{Changed: out.Changed}
	if out.Changed {
		result.Overall, err = s.syncMastery(ctx, s.workspace)
	} else {
		result.Overall, err = s.mastery.Summary(ctx, masterydto.IDsInput{IDs: s.workspace.AllIDs()})
	}
	if err != nil {
		return MarkResult{}, err
	}
	if result.Card, err = s.card(ctx, item); err != nil {
		return MarkResult{}, err
	}
	return result, nil
}

// Play speaks an item on its own control. A second press on the same item stops it.
func (s *StudyService) Play(ctx context.Context, itemID string) (audiodto.PlayOutput, error) {
	s.mu.Lock()
	item, err := s.item(itemID)
	var text string
	if err == nil {
		text = s.workspace.TextFor(item.Audio)
	}
	s.mu.Unlock()
	if err != nil {
		return audiodto.PlayOutput{}, err
	}
	return s.audio.Play(ctx, audiodto.PlayInput{Key: item.Audio, Text: text, Control: item.ID})
}

// ResetTab zeroes the stars of every item of one kind in the open unit.
func (s *StudyService) ResetTab(ctx context.Context, kind domain.Kind, confirmed bool) error {
	if err := validKind(kind); err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("%w: resetting %s clears its stars", apperrors.ErrConfirmationRequired, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil {
		return apperrors.ErrNoActiveUnit
	}
	if err := s.mastery.Reset(ctx, masterydto.IDsInput{IDs: s.workspace.IDs(kind)}); err != nil {
		return err
	}
	s.workspace.Unflip(kind)
	_, err := s.syncMastery(ctx, s.workspace)
	s.logger.Info("tab reset", "unit", s.workspace.UnitID, "kind", kind)
	return err
}

// ResetAll drops every unit's stars and statistics, then sets the open unit up again with a fresh record and no sessions.
func (s *StudyService) ResetAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("%w: resetting clears all progress", apperrors.ErrConfirmationRequired)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mastery.Clear(ctx); err != nil {
		return err
	}
	if err := s.stats.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("all progress reset")
	if s.workspace == nil {
		return nil
	}
	if _, err := s.stats.Touch(ctx, s.workspace.UnitID); err != nil {
		return err
	}
	tab := s.workspace.Tab
	if err := s.load(ctx, s.workspace.UnitID, false); err != nil {
		return err
	}
	s.workspace.Tab = tab
	return nil
}

// Tick credits study time to the open unit. Without one it does nothing.
func (s *StudyService) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil {
		return nil
	}
	_, err := s.stats.AccrueTime(ctx, statsdto.AccrueInput{UnitID: s.workspace.UnitID, Minutes: s.tickMinutes})
	return err
}

type Overview struct {
	UnitID    string
	Title     string
	Words     masterydto.SummaryOutput
	Sentences masterydto.SummaryOutput
	Overall   masterydto.SummaryOutput
	Unit      statsdto.UnitStatsOutput
	All       []statsdto.UnitStatsOutput
}

func (s *StudyService) Overview(ctx context.Context) (Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil {
		return Overview{}, apperrors.ErrNoActiveUnit
	}
	overview := Overview{UnitID: s.workspace.UnitID, Title: s.workspace.Title}
	var err error
	if overview.Words, err = s.mastery.Summary(ctx, masterydto.IDsInput{IDs: s.workspace.IDs(domain.KindWords)}); err != nil {
		return Overview{}, err
	}
	if overview.Sentences, err = s.mastery.Summary(ctx, masterydto.IDsInput{IDs: s.workspace.IDs(domain.KindSentences)}); err != nil {
		return Overview{}, err
	}
	if overview.Overall, err = s.mastery.Summary(ctx, masterydto.IDsInput{IDs: s.workspace.AllIDs()}); err != nil {
		return Overview{}, err
	}
	if overview.Unit, err = s.stats.Get(ctx, s.workspace.UnitID); err != nil {
		return Overview{}, err
	}
	if overview.All, err = s.stats.List(ctx); err != nil {
		return Overview{}, err
	}
	return overview, nil
}

// Close stops any playback. The workspace stays open.
func (s *StudyService) Close(ctx context.Context) error {
	_, err := s.audio.Stop(ctx, "")
	return err
}

// syncMastery recomputes the unit's overall mastery and stores it in the unit's statistics.
func (s *StudyService) syncMastery(ctx context.Context, workspace *domain.Workspace) (masterydto.SummaryOutput, error) {
	overall, err := s.mastery.Summary(ctx, masterydto.IDsInput{IDs: workspace.AllIDs()})
	if err != nil {
		return masterydto.SummaryOutput{}, err
	}
	if err := s.stats.SetMastery(ctx, statsdto.SetMasteryInput{UnitID: workspace.UnitID, Percent: overall.Percent}); err != nil {
		return masterydto.SummaryOutput{}, err
	}
	return overall, nil
}

func (s *StudyService) view(ctx context.Context) (View, error) {
	scale, err := s.scale(ctx, s.workspace.AllIDs())
	if err != nil {
		return View{}, err
	}
	flipped := s.workspace.Flipped()
	playing := s.audio.Status(ctx).Control
	return View{
		UnitID:      s.workspace.UnitID,
		Title:       s.workspace.Title,
		Description: s.workspace.Description,
		Tab:         s.workspace.Tab,
		Words:       domain.Render(s.workspace.Words, scale, flipped, playing),
		Sentences:   domain.Render(s.workspace.Sentences, scale, flipped, playing),
		Playing:     playing,
	}, nil
}

func (s *StudyService) card(ctx context.Context, item domain.Item) (domain.Card, error) {
	scale, err := s.scale(ctx, []string{item.ID})
	if err != nil {
		return domain.Card{}, err
	}
	cards := domain.Render([]domain.Item{item}, scale, s.workspace.Flipped(), s.audio.Status(ctx).Control)
	return cards[0], nil
}

func (s *StudyService) scale(ctx context.Context, ids []string) (domain.Scale, error) {
	out, err := s.mastery.Stars(ctx, masterydto.IDsInput{IDs: ids})
	if err != nil {
		return domain.Scale{}, err
	}
	scale := domain.Scale{Max: out.Max, Items: make(map[string]domain.Stars, len(out.Items))}
	for id, star := range out.Items {
		scale.Items[id] = domain.Stars{Count: star.Stars, LabelKey: star.Label}
	}
	return scale, nil
}

func (s *StudyService) item(itemID string) (domain.Item, error) {
	if s.workspace == nil {
		return domain.Item{}, apperrors.ErrNoActiveUnit
	}
	item, ok := s.workspace.Find(strings.TrimSpace(itemID))
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: item %s in unit %s", apperrors.ErrNotFound, itemID, s.workspace.UnitID)
	}
	return item, nil
}

func validKind(kind domain.Kind) error {
	if kind != domain.KindWords && kind != domain.KindSentences {
		return fmt.Errorf("%w: tab %q", apperrors.ErrInvalidInput, kind)
	}
	return nil
}

func toItems(items []lessondto.ItemOutput) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Item{
			ID:          item.ID,
			Kind:        domain.Kind(item.Kind),
			Position:    item.Position,
			English:     item.English,
			Translation: item.Translation,
			Audio:       item.Audio,
			Hint:        item.Hint,
		})
	}
	return out
}
