// Package cards is the card view: notes laid out as masonry, grid or list
// cards that grow as the user scrolls.
package cards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/content"
	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/masonry"
	"github.com/Paintersrp/ancards/internal/note"
	"github.com/Paintersrp/ancards/internal/paging"
	"github.com/Paintersrp/ancards/internal/pathutil"
	"github.com/Paintersrp/ancards/internal/results"
	"github.com/Paintersrp/ancards/internal/scheduler"
	"github.com/Paintersrp/ancards/internal/state"
	"github.com/Paintersrp/ancards/internal/viewstate"
)

const (
	frameInterval = time.Second / 60
	limitStep     = 10
	headerLines   = 1
	statusLines   = 1
)

type (
	frameMsg   time.Time
	contentMsg struct {
		entries map[string]content.Entry
		err     error
	}
	detailMsg struct {
		path     string
		rendered string
		err      error
	}
	editorClosedMsg struct{ err error }
	watchedMsg      struct{ msg tea.Msg }
)

// Options wire a Model to its data.
type Options struct {
	ViewID string
	Vault  string
	Source results.Source
	Cards  config.CardsConfig
	// Store persists view state. Nil keeps state in memory only.
	Store *viewstate.Store
	// Defaults seed the view the first time it is opened.
	Defaults viewstate.Record
	// Overrides replace stored values for this session only when non-empty.
	Overrides viewstate.Record
	Watcher   *state.VaultWatcher
	Status    *state.RootStatus
	Logger    *slog.Logger
	Now       func() time.Time
}

type Model struct {
	opts Options
	log  *slog.Logger
	keys keyMap
	help help.Model
	find textinput.Model

	loop       *scheduler.Loop
	ticking    bool
	surface    *surface
	params     *masonry.Provider
	controller *masonry.Controller
	loader     *paging.Loader
	pipeline   *results.Pipeline
	content    *content.Loader
	writer     *viewstate.Writer
	refresh    *scheduler.Coalescer

	rec     viewstate.Record
	outcome results.Outcome
	cards   map[string]*card
	stale   map[string]struct{}
	queued  []tea.Cmd

	focusKey   string
	searchPrev string
	detail     bool
	detailPath string
	detailView string
	status     string
	statusErr  bool

	width, height int
	ready         bool
	closed        bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds the card view. Stored state for the view wins over Defaults;
// Overrides win over both without being persisted until the user changes
// something.
func New(opts Options) (*Model, error) {
	if opts.Source == nil {
		return nil, errors.New("card view requires a result source")
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("cards")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ViewID == "" {
		opts.ViewID = "default"
	}
	opts.Cards.Normalize()
	opts.Vault = pathutil.NormalizePath(opts.Vault)

	saved, err := loadRecord(opts)
	if err != nil {
		return nil, err
	}
	rec := applyOverrides(saved, opts.Overrides)
	if !config.IsValidMode(rec.Mode) {
		rec.Mode = opts.Cards.DefaultMode
	}
	if _, ok := results.ParseSort(rec.Sort); !ok {
		rec.Sort = opts.Cards.DefaultSort
	}

	m := &Model{
		opts:  opts,
		log:   opts.Logger,
		keys:  newKeyMap(),
		help:  help.New(),
		loop:  scheduler.NewLoop(opts.Now()),
		rec:   rec,
		cards: make(map[string]*card),
		stale: make(map[string]struct{}),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.find = textinput.New()
	m.find.Prompt = "/ "
	m.find.Placeholder = "search cards"
	m.find.SetValue(rec.Search)

	m.surface = &surface{}
	m.params = masonry.NewProvider(m.paramsFor(rec))
	m.controller = masonry.NewController(m.loop, m.surface, m.params, masonry.Options{
		ResizeCooldown: opts.Cards.ResizeCooldown,
		OnLayout:       m.onLayout,
		Logger:         opts.Logger.With("part", "masonry"),
	})
	m.loader = paging.NewLoader(m.loop, paging.Options{
		InitialBatch:   opts.Cards.InitialBatch,
		RowsPerColumn:  opts.Cards.RowsPerColumn,
		MaxBatch:       opts.Cards.MaxBatch,
		PaneMultiplier: opts.Cards.PaneMultiplier,
		ScrollCooldown: opts.Cards.ScrollCooldown,
		InitialDelay:   opts.Cards.InitialCheckDelay,
		OnGrow:         func(int) { m.materialize() },
		Logger:         opts.Logger.With("part", "paging"),
	})
	m.loader.SetRegion(paging.ResolveRegion(nil, m.surface))
	m.pipeline = results.NewPipeline(opts.Source, opts.Logger.With("part", "results"))
	m.content = content.NewLoader(opts.Vault, content.Options{
		PreviewChars: opts.Cards.PreviewChars,
		MaxImages:    opts.Cards.MaxImages,
		Images:       opts.Cards.Images(),
		Logger:       opts.Logger.With("part", "content"),
	})
	if opts.Store != nil {
		m.writer = viewstate.NewWriter(m.loop, opts.Store, opts.ViewID, saved, opts.Cards.SettingsDebounce, opts.Logger.With("part", "viewstate"))
	}
	m.refresh = scheduler.NewCoalescer(m.loop, scheduler.Options{Delay: opts.Cards.SettingsDebounce}, m.reloadChanged)

	return m, nil
}

func loadRecord(opts Options) (viewstate.Record, error) {
	if opts.Store == nil {
		return opts.Defaults.Normalize(), nil
	}
	rec, err := opts.Store.Load(opts.ViewID)
	if errors.Is(err, viewstate.ErrUnknownView) {
		return opts.Defaults.Normalize(), nil
	}
	if err != nil {
		return viewstate.Record{}, err
	}
	return rec, nil
}

func applyOverrides(rec, o viewstate.Record) viewstate.Record {
	if o.Query != "" {
		rec.Query = o.Query
	}
	if o.Search != "" {
		rec.Search = o.Search
	}
	if o.Sort != "" {
		rec.Sort = o.Sort
	}
	if o.Mode != "" {
		rec.Mode = o.Mode
	}
	if o.Limit > 0 {
		rec.Limit = o.Limit
	}
	if o.WidthMode != "" {
		rec.WidthMode = o.WidthMode
	}
	return rec.Normalize()
}

func (m *Model) paramsFor(rec viewstate.Record) masonry.Params {
	return masonry.Params{
		CardSize:   m.opts.Cards.CardSize * rec.WidthScale(),
		MinColumns: m.opts.Cards.MinColumns,
		Gap:        m.opts.Cards.Gap,
	}
}

func (m *Model) Init() tea.Cmd {
	m.reload()
	return tea.Batch(m.drain(), m.watch(), m.nextFrame())
}

// watch wraps the watcher command so every delivered message re-arms it
// exactly once.
func (m *Model) watch() tea.Cmd {
	if m.opts.Watcher == nil || m.closed {
		return nil
	}
	start := m.opts.Watcher.Start()
	return func() tea.Msg {
		return watchedMsg{msg: start()}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case frameMsg:
		m.ticking = false
		m.loop.AdvanceTo(time.Time(msg))
		m.loop.Frame()

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, cmd
		}
		cmds = append(cmds, cmd)

	case contentMsg:
		m.applyContent(msg)

	case detailMsg:
		if msg.path == m.detailPath {
			if msg.err != nil {
				m.detailView = errorStyle.Render(msg.err.Error())
			} else {
				m.detailView = msg.rendered
			}
		}

	case editorClosedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Editor failed: %v", msg.err), true)
		}

	case watchedMsg:
		if msg.msg == nil {
			break
		}
		m.handleWatched(msg.msg)
		cmds = append(cmds, m.watch())
	}

	cmds = append(cmds, m.drain(), m.nextFrame())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleWatched(msg tea.Msg) {
	switch msg := msg.(type) {
	case state.VaultNoteChangedMsg:
		abs := filepath.Join(m.opts.Vault, filepath.FromSlash(msg.Path))
		m.content.Invalidate(abs)
		if _, shown := m.cards[abs]; shown {
			m.stale[abs] = struct{}{}
		}
		m.refresh.Cancel()
		m.refresh.Trigger()
	case state.VaultWatcherErrMsg:
		m.log.Warn("vault watcher error", "error", msg.Err)
	case state.IndexStatsMsg:
		if m.opts.Status != nil {
			m.opts.Status.Set(msg.Line)
		}
	}
}

// nextFrame arms a tick when the scheduler has work. Queued frame callbacks
// tick at display rate; otherwise the tick waits for the next timer.
func (m *Model) nextFrame() tea.Cmd {
	if m.ticking || m.closed || !m.loop.Pending() {
		return nil
	}
	d := frameInterval
	if !m.loop.FramesQueued() {
		if due, ok := m.loop.NextDue(); ok {
			d = max(due.Sub(m.loop.Now()), frameInterval)
		}
	}
	m.ticking = true
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.queued = append(m.queued, cmd)
	}
}

func (m *Model) drain() tea.Cmd {
	if len(m.queued) == 0 {
		return nil
	}
	cmds := m.queued
	m.queued = nil
	return tea.Batch(cmds...)
}

func (m *Model) request() results.Request {
	sort, _ := results.ParseSort(m.rec.Sort)
	return results.Request{
		Expression: m.rec.Query,
		Search:     m.rec.Search,
		Sort:       sort,
		Seed:       m.rec.Seed,
		Limit:      m.rec.Limit,
	}
}

// reload runs the pipeline and installs its outcome.
func (m *Model) reload() {
	out := m.pipeline.Run(m.request())
	prev := m.loader.Identity()
	m.outcome = out
	m.loader.Reset(out.Identity, out.Total())

	if out.Identity != prev {
		m.focusKey = ""
		m.surface.scrollTop = 0
	}
	if out.Err != nil {
		m.setStatus(out.Message, true)
	} else if m.statusErr {
		m.setStatus("", false)
	}
	m.materialize()
}

// reloadChanged runs after index changes settle. Cards whose notes changed
// get their content reloaded.
func (m *Model) reloadChanged() {
	m.reload()

	paths := make([]string, 0, len(m.stale))
	for p := range m.stale {
		if _, shown := m.cards[p]; shown {
			paths = append(paths, p)
		}
	}
	m.stale = make(map[string]struct{})
	if claimed := m.content.Claim(paths); len(claimed) > 0 {
		m.queue(m.loadContent(claimed))
	}
}

// materialize brings the surface in line with the displayed slice of the
// outcome. Cards join the surface in order once their content is ready, so
// their measured height is final when they are placed.
func (m *Model) materialize() {
	n := min(m.loader.Displayed(), len(m.outcome.Documents))
	docs := m.outcome.Documents[:n]

	next := make(map[string]*card, n)
	var missing []string
	for _, doc := range docs {
		c, ok := m.cards[doc.Path]
		if !ok {
			c = newCard(doc, m.opts.Vault)
		} else {
			c.setDoc(doc)
		}
		if !c.loaded {
			if e, ok := m.content.Lookup(doc.Path); ok {
				c.setEntry(e)
			} else {
				missing = append(missing, doc.Path)
			}
		}
		next[doc.Path] = c
	}
	m.cards = next

	if claimed := m.content.Claim(missing); len(claimed) > 0 {
		m.queue(m.loadContent(claimed))
	}

	ready := make([]*card, 0, n)
	for _, doc := range docs {
		c := next[doc.Path]
		if !c.loaded {
			break
		}
		ready = append(ready, c)
	}
	m.setCards(ready)
}

func (m *Model) loadContent(paths []string) tea.Cmd {
	ctx := m.ctx
	loader := m.content
	return func() tea.Msg {
		entries, err := loader.Load(ctx, paths)
		return contentMsg{entries: entries, err: err}
	}
}

func (m *Model) applyContent(msg contentMsg) {
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			m.log.Warn("content batch failed", "error", msg.err)
		}
		return
	}

	refreshed := false
	for path, e := range msg.entries {
		c, ok := m.cards[path]
		if !ok {
			continue
		}
		if c.loaded {
			refreshed = true
		}
		c.setEntry(e)
	}

	m.materialize()

	if refreshed && m.opts.Cards.RelayoutOnContentSettle {
		m.controller.Invalidate()
		m.layout()
	}
	if m.detail && m.detailPath != "" {
		if _, ok := msg.entries[m.detailPath]; ok {
			m.queue(m.loadDetail())
		}
	}
}

func (m *Model) setCards(list []*card) {
	same := len(list) == len(m.surface.cards)
	for i := 0; same && i < len(list); i++ {
		same = list[i] == m.surface.cards[i]
	}
	if same {
		return
	}

	m.surface.cards = list
	if len(list) == 0 {
		m.surface.SetContainerHeight(0)
		m.controller.Invalidate()
	}
	if m.focused() == nil && len(list) > 0 {
		m.focusKey = list[0].Key()
	}
	m.layout()
}

// layout places the surface for the current mode.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	switch m.rec.Mode {
	case config.ModeMasonry:
		m.controller.Relayout()
	default:
		m.surface.layoutStatic(m.rec.Mode == config.ModeList, m.params.Params())
		// Only masonry reports a column count; the static modes batch on
		// the loader's default estimate.
		m.loader.SetColumns(0)
		m.loader.OnContainerResize()
		m.surface.reveal(m.focused())
	}
}

func (m *Model) onLayout(r masonry.Result) {
	m.loader.SetColumns(r.Columns)
	m.loader.OnContainerResize()
	if m.surface.Width() != r.ContainerWidth {
		m.controller.OnResize()
	}
	m.surface.reveal(m.focused())
}

func (m *Model) resize() {
	frameX, _ := appStyle.GetFrameSize()
	width := max(m.width-frameX, 0)
	if m.detail {
		width /= 2
	}

	footer := statusLines + m.helpHeight()
	m.help.Width = m.width
	m.find.Width = max(width/3, 10)

	m.surface.width = width
	m.surface.height = max(m.height-headerLines-footer, 0)
	m.surface.clampScroll()

	if !m.ready {
		m.ready = true
		m.surface.attached = true
		if m.rec.Mode == config.ModeMasonry {
			m.controller.Activate()
		}
		m.layout()
		m.loader.Start()
		return
	}

	if m.rec.Mode == config.ModeMasonry {
		m.controller.OnResize()
	} else {
		m.layout()
	}
	m.loader.OnWindowResize()
	if m.detail {
		m.queue(m.loadDetail())
	}
}

func (m *Model) setMode(mode string) {
	if mode == m.rec.Mode {
		return
	}
	if m.rec.Mode == config.ModeMasonry {
		m.controller.Deactivate()
	}
	m.rec.Mode = mode
	if mode == config.ModeMasonry && m.ready {
		m.controller.Activate()
	}
	m.layout()
	m.commit()
}

func (m *Model) commit() {
	if m.writer == nil {
		return
	}
	if err := m.writer.Commit(m.rec); err != nil {
		m.setStatus(fmt.Sprintf("Saving view failed: %v", err), true)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) focused() *card {
	for _, c := range m.surface.cards {
		if c.Key() == m.focusKey {
			return c
		}
	}
	return nil
}

func (m *Model) openFocused() tea.Cmd {
	c := m.focused()
	if c == nil {
		return nil
	}
	launch, err := note.EditorLaunchForPath(c.Key())
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	if launch.Wait {
		return tea.ExecProcess(launch.Cmd, func(err error) tea.Msg {
			return editorClosedMsg{err: err}
		})
	}
	return func() tea.Msg {
		return editorClosedMsg{err: launch.Cmd.Start()}
	}
}

func (m *Model) copyFocused() {
	c := m.focused()
	if c == nil {
		return
	}
	if err := clipboard.WriteAll(c.Key()); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
		return
	}
	m.setStatus("Copied "+c.doc.Rel, false)
}

func (m *Model) loadDetail() tea.Cmd {
	c := m.focused()
	if c == nil {
		m.detailPath, m.detailView = "", ""
		return nil
	}
	path := c.Key()
	width := max(m.width-m.surface.width-4, 10)
	m.detailPath = path
	return func() tea.Msg {
		out, err := content.RenderDetail(path, width)
		return detailMsg{path: path, rendered: out, err: err}
	}
}

// Close flushes staged view state and stops every scheduled callback.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.cancel()
	m.refresh.Cancel()
	m.loader.Close()
	m.controller.Close()

	var err error
	if m.writer != nil {
		err = m.writer.Close()
	}
	m.loop.Stop()
	return err
}

// Displayed is the number of cards placed on the canvas.
func (m *Model) Displayed() int { return len(m.surface.cards) }

// Record is the current view state.
func (m *Model) Record() viewstate.Record { return m.rec }

func (m *Model) helpHeight() int {
	return lipgloss.Height(m.help.View(m.keys))
}
