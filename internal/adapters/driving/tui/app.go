package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/flightsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/flightsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/flightsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// pageSize is the number of offers loaded into the table.
const pageSize = 200

// mode is the input focus of the app.
type mode int

const (
	modeBrowse mode = iota
	modeFilter
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keys   *keymap.KeyMap
	help   help.Model

	table       table.Model
	filterInput textinput.Model
	filter      domain.OfferFilter
	mode        mode

	offers []domain.FlightOffer
	status *driving.SyncStatus

	// notice is the outcome of the last sync started here.
	notice      string
	noticeStyle lipgloss.Style

	// err holds the last load error.
	err error

	syncing     bool
	showDetails bool

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first window size has been received.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	t := table.New(
		table.WithColumns(offerColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(s.Table()),
	)

	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "Delhi:Mumbai 2026-10-20"
	in.CharLimit = 64

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        keymap.DefaultKeyMap(),
		help:        help.New(),
		table:       t,
		filterInput: in,
		filter:      domain.OfferFilter{Limit: pageSize},
		noticeStyle: s.Muted,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It loads the offers and sync status.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadOffers(), a.loadStatus())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		return a, nil

	case messages.OffersLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.offers = msg.Offers
		a.table.SetRows(offerRows(msg.Offers))
		a.table.SetCursor(0)
		return a, nil

	case messages.StatusLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.status = msg.Status
		return a, nil

	case messages.SyncFinished:
		a.syncing = false
		a.setSyncNotice(msg.Result, msg.Err)
		return a, tea.Batch(a.loadOffers(), a.loadStatus())

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.mode == modeFilter {
			return a.updateFilter(msg)
		}
		return a.updateBrowse(msg)
	}

	return a, nil
}

func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
		return a, nil
	case key.Matches(msg, a.keys.Filter):
		a.mode = modeFilter
		return a, a.filterInput.Focus()
	case key.Matches(msg, a.keys.Sync):
		return a, a.startSync(false)
	case key.Matches(msg, a.keys.ForceSync):
		return a, a.startSync(true)
	case key.Matches(msg, a.keys.Refresh):
		return a, tea.Batch(a.loadOffers(), a.loadStatus())
	case key.Matches(msg, a.keys.Details):
		a.showDetails = !a.showDetails
		a.resize()
		return a, nil
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Apply):
		a.filter = ParseFilter(a.filterInput.Value())
		a.filter.Limit = pageSize
		a.mode = modeBrowse
		a.filterInput.Blur()
		return a, a.loadOffers()
	case key.Matches(msg, a.keys.Cancel):
		a.mode = modeBrowse
		a.filterInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	return a, cmd
}

func (a *App) loadOffers() tea.Cmd {
	filter := a.filter
	return func() tea.Msg {
		offers, err := a.ports.Offers.List(a.ctx, filter)
		return messages.OffersLoaded{Offers: offers, Err: err}
	}
}

func (a *App) loadStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := a.ports.Sync.Status(a.ctx)
		return messages.StatusLoaded{Status: status, Err: err}
	}
}

// startSync runs one cycle in the background. A second request while one is
// running is ignored.
func (a *App) startSync(force bool) tea.Cmd {
	if a.syncing {
		return nil
	}
	a.syncing = true
	a.notice = "Syncing..."
	a.noticeStyle = a.styles.Muted

	return func() tea.Msg {
		result, err := a.ports.Sync.RunSync(a.ctx, driving.RunOptions{Force: force})
		return messages.SyncFinished{Result: result, Err: err}
	}
}

func (a *App) setSyncNotice(result domain.SyncResult, err error) {
	switch r := result.(type) {
	case nil:
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			a.notice = "A sync is already running."
			a.noticeStyle = a.styles.Warning
		case err != nil:
			a.notice = "Sync failed: " + err.Error()
			a.noticeStyle = a.styles.Error
		default:
			a.notice = ""
		}
	case *domain.SyncRan:
		a.notice = fmt.Sprintf("Synced: %d offers fetched, %d inserted, %d updated.", r.Fetched, r.Inserted, r.Updated)
		a.noticeStyle = a.styles.Success
	case *domain.SyncSkipped:
		a.notice = fmt.Sprintf("Sync skipped: %s, %ds remaining. Press S to force.", r.Reason, r.RemainingSeconds())
		a.noticeStyle = a.styles.Warning
	}
}

func (a *App) resize() {
	if !a.ready {
		return
	}

	// Title, status, notice and help lines.
	reserved := 6
	if a.showDetails {
		reserved += 9
	}
	if a.help.ShowAll {
		reserved += 3
	}
	h := a.height - reserved
	if h < 3 {
		h = 3
	}
	a.table.SetHeight(h)
	a.help.Width = a.width
	a.filterInput.Width = a.width - 4
}

// selected returns the offer under the cursor, or nil.
func (a *App) selected() *domain.FlightOffer {
	idx := a.table.Cursor()
	if idx < 0 || idx >= len(a.offers) {
		return nil
	}
	return &a.offers[idx]
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading offers..."
	}

	var b strings.Builder

	b.WriteString(a.styles.Title.Render("flightsync"))
	b.WriteString("  ")
	b.WriteString(a.styles.Muted.Render(describeFilter(a.filter)))
	b.WriteString("\n")

	if a.mode == modeFilter {
		b.WriteString(a.filterInput.View())
		b.WriteString("\n")
	}

	if len(a.offers) == 0 {
		b.WriteString(a.styles.Muted.Render("No offers found. Press s to sync."))
	} else {
		b.WriteString(a.table.View())
	}
	b.WriteString("\n")

	if a.showDetails {
		if o := a.selected(); o != nil {
			b.WriteString(a.styles.Detail.Render(offerDetails(o)))
			b.WriteString("\n")
		}
	}

	if a.err != nil {
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	}
	if a.notice != "" {
		b.WriteString(a.noticeStyle.Render(a.notice))
		b.WriteString("\n")
	}

	b.WriteString(a.styles.StatusBar.Render(a.statusLine()))
	b.WriteString("\n")

	if a.mode == modeFilter {
		b.WriteString(a.help.ShortHelpView(a.keys.FilterHelp()))
	} else {
		b.WriteString(a.help.View(a.keys))
	}

	return b.String()
}

func (a *App) statusLine() string {
	if a.status == nil {
		return "status unknown"
	}

	parts := []string{
		fmt.Sprintf("%d offers", a.status.OfferCount),
		fmt.Sprintf("%d routes", a.status.Routes),
	}
	if a.status.LastSuccess.IsZero() {
		parts = append(parts, "never synced")
	} else {
		parts = append(parts, "synced "+humanize.Time(a.status.LastSuccess))
	}
	if a.syncing || a.status.Running {
		parts = append(parts, "syncing")
	}
	return strings.Join(parts, " · ")
}

// ParseFilter reads a filter typed as space separated terms: an
// "origin:destination" pair, a YYYY-MM-DD date, or bare city names
// (origin first, then destination).
func ParseFilter(text string) domain.OfferFilter {
	var f domain.OfferFilter
	for _, term := range strings.Fields(text) {
		if _, err := time.Parse(time.DateOnly, term); err == nil {
			f.Date = term
			continue
		}
		if origin, destination, ok := strings.Cut(term, ":"); ok {
			f.Origin = strings.TrimSpace(origin)
			f.Destination = strings.TrimSpace(destination)
			continue
		}
		if f.Origin == "" {
			f.Origin = term
		} else {
			f.Destination = term
		}
	}
	return f
}

func describeFilter(f domain.OfferFilter) string {
	var b strings.Builder
	switch {
	case f.Origin != "" && f.Destination != "":
		b.WriteString(f.Origin + " → " + f.Destination)
	case f.Origin != "":
		b.WriteString("from " + f.Origin)
	case f.Destination != "":
		b.WriteString("to " + f.Destination)
	default:
		b.WriteString("all routes")
	}
	if f.Date != "" {
		b.WriteString(" on " + f.Date)
	}
	return b.String()
}

func offerColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Route", Width: 24},
		{Title: "Airline", Width: 7},
		{Title: "Type", Width: 10},
		{Title: "Duration", Width: 9},
		{Title: "Price", Width: 8},
	}
}

func offerRows(offers []domain.FlightOffer) []table.Row {
	rows := make([]table.Row, len(offers))
	for i := range offers {
		o := &offers[i]
		rows[i] = table.Row{
			o.Date,
			o.Origin + " → " + o.Destination,
			o.Airline,
			string(o.FlightType),
			o.Duration,
			strconv.Itoa(o.Price),
		}
	}
	return rows
}

func offerDetails(o *domain.FlightOffer) string {
	lines := []string{
		"UUID:     " + o.IdentityKey,
		fmt.Sprintf("Route:    %s (%s) → %s (%s)", o.Origin, o.OriginCountry, o.Destination, o.DestinationCountry),
		"Date:     " + o.Date,
		fmt.Sprintf("Flight:   %s %s, %s", o.Airline, o.FlightType, o.Duration),
		"Price:    " + strconv.Itoa(o.Price),
	}
	if o.Link != nil && *o.Link != "" {
		lines = append(lines, "Link:     "+*o.Link)
	}
	if o.FreeMeal != nil {
		lines = append(lines, fmt.Sprintf("Meal:     %t", *o.FreeMeal))
	}
	return strings.Join(lines, "\n")
}
