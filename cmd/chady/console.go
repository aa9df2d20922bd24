package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/chady-robot/chady/pkg/command"
	"github.com/chady-robot/chady/pkg/logging"
	"github.com/chady-robot/chady/pkg/params"
	"github.com/chady-robot/chady/pkg/robot"
	"github.com/chady-robot/chady/pkg/session"
	"github.com/chady-robot/chady/pkg/telemetry"
)

type ConsoleCommand struct{}

const (
	headerHeight = 3  // title, battery, blank line
	footerHeight = 10 // notification, log box, help
	maxLogs      = 5  // number of log messages to show
	borderSize   = 2  // chart border
	tableWidth   = 34 // parameter table incl. border
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	focusedStyle  = chartStyle.BorderForeground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
	loggedInStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pitchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	velocityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	warnLogStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// focus is the control that receives key events.
type focus int

const (
	focusDrive focus = iota
	focusParams
	focusEditor
	focusLogin
)

// consoleKeys are the console bindings besides driving.
type consoleKeys struct {
	drive    command.KeyMap
	Colors   map[robot.Color]key.Binding
	Full     key.Binding
	Voltage  key.Binding
	Params   key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Edit     key.Binding
	SetAll   key.Binding
	ClearAll key.Binding
	Fetch    key.Binding
	Login    key.Binding
	Logout   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultConsoleKeys() consoleKeys {
	return consoleKeys{
		drive: command.DefaultKeyMap(),
		Colors: map[robot.Color]key.Binding{
			robot.Red:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "red")),
			robot.Yellow: key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "yellow")),
			robot.Blue:   key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "blue")),
			robot.Green:  key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "green")),
			robot.Purple: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "purple")),
		},
		Full:     key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "battery full")),
		Voltage:  key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "battery from voltage")),
		Params:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "parameters")),
		Back:     key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "previous")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next")),
		Edit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		SetAll:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set all")),
		ClearAll: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
		Fetch:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch")),
		Login:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		Logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k consoleKeys) colorBindings() []key.Binding {
	out := make([]key.Binding, 0, len(k.Colors))
	for _, c := range robot.AllColors() {
		out = append(out, k.Colors[c])
	}
	return out
}

// helpView adapts the bindings of the focused control to help.KeyMap.
type helpView struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h helpView) ShortHelp() []key.Binding  { return h.short }
func (h helpView) FullHelp() [][]key.Binding { return h.full }

func (k consoleKeys) help(f focus) helpView {
	switch f {
	case focusParams:
		return helpView{
			short: []key.Binding{k.Up, k.Down, k.Edit, k.SetAll, k.ClearAll, k.Fetch, k.Back},
			full:  [][]key.Binding{{k.Up, k.Down, k.Edit, k.Back}, {k.SetAll, k.ClearAll, k.Fetch}},
		}
	case focusEditor:
		return helpView{
			short: []key.Binding{k.Edit, k.Back},
			full:  [][]key.Binding{{k.Edit, k.Back}},
		}
	case focusLogin:
		return helpView{}
	}
	full := k.drive.FullHelp()
	full = append(full, k.colorBindings(), []key.Binding{k.Full, k.Voltage},
		[]key.Binding{k.Params, k.SetAll, k.ClearAll, k.Fetch},
		[]key.Binding{k.Login, k.Logout, k.Help, k.Quit})
	short := append(k.drive.ShortHelp(), k.Params, k.Login, k.Help, k.Quit)
	return helpView{short: short, full: full}
}

// loginFields holds the values bound to the login form.
type loginFields struct {
	username string
	password string
}

func newLoginForm(fields *loginFields) *huh.Form {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&fields.username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("username is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fields.password),
		).Title("Login").Description("Unknown operators are registered automatically"),
	).WithWidth(40).WithShowHelp(false)
	form.SubmitCmd = func() tea.Msg { return loginSubmitMsg{} }
	form.CancelCmd = func() tea.Msg { return loginCancelMsg{} }
	return form
}

// consoleDeps are the components the console drives.
type consoleDeps struct {
	cfg        *robot.Config
	telemetry  *telemetry.Synchronizer
	session    *session.Manager
	notifier   *session.Notifier
	params     *params.Store
	dispatcher *command.Dispatcher
	records    <-chan logging.Record
	now        func() time.Time
}

type consoleModel struct {
	consoleDeps

	keys    consoleKeys
	help    help.Model
	battery progress.Model
	editor  textinput.Model
	login   *huh.Form
	fields  *loginFields

	pitchChart    *streamlinechart.Model
	velocityChart *streamlinechart.Model
	lastSample    time.Time

	snapshot     telemetry.Snapshot
	sessionState session.State
	sessionErr   bool
	values       robot.ParameterSet
	cursor       int
	focus        focus
	notification string
	logs         []logging.Record
	width        int // terminal width
	height       int // terminal height
	quitting     bool
}

func (m *consoleModel) addLog(r logging.Record) {
	m.logs = append(m.logs, r)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the background components
type snapshotMsg telemetry.Snapshot
type logMsg logging.Record
type notifyMsg string
type loginSubmitMsg struct{}
type loginCancelMsg struct{}

type sessionMsg struct {
	state session.State
	err   error
	login bool
}

type paramsMsg struct {
	values robot.ParameterSet
}

func waitForSnapshot(s *telemetry.Synchronizer) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-s.Updates())
	}
}

func waitForLog(logs <-chan logging.Record) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-logs)
	}
}

func waitForNotification(n *session.Notifier) tea.Cmd {
	return func() tea.Msg {
		return notifyMsg(<-n.Changes())
	}
}

func newConsoleModel(deps consoleDeps) consoleModel {
	if deps.now == nil {
		deps.now = time.Now
	}
	cfg := deps.cfg

	pitch := streamlinechart.New(40, 10,
		streamlinechart.WithYRange(cfg.Charts.Pitch.Min, cfg.Charts.Pitch.Max),
	)
	pitch.SetDataSetStyles("pitch", runes.ThinLineStyle, pitchStyle)
	velocity := streamlinechart.New(40, 10,
		streamlinechart.WithYRange(cfg.Charts.Velocity.Min, cfg.Charts.Velocity.Max),
	)
	velocity.SetDataSetStyles("velocity", runes.ThinLineStyle, velocityStyle)

	editor := textinput.New()
	editor.Prompt = "value: "
	editor.CharLimit = 32

	return consoleModel{
		consoleDeps:   deps,
		keys:          defaultConsoleKeys(),
		help:          help.New(),
		battery:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage()),
		editor:        editor,
		pitchChart:    &pitch,
		velocityChart: &velocity,
		sessionState:  deps.session.State(),
		values:        deps.params.Values(),
	}
}

// chartSize calculates the size of each chart based on terminal dimensions
func (m *consoleModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 40, 10 // default size before we know terminal size
	}
	width = m.width - tableWidth - borderSize - 2
	if width < 30 {
		width = 30
	}
	height = (m.height-headerHeight-footerHeight)/2 - borderSize
	if height < 5 {
		height = 5
	}
	return width, height
}

func (m *consoleModel) resizeCharts() {
	w, h := m.chartSize()
	m.pitchChart.Resize(w, h)
	m.velocityChart.Resize(w, h)
	m.pitchChart.DrawAll()
	m.velocityChart.DrawAll()
}

func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(
		waitForSnapshot(m.telemetry),
		waitForLog(m.records),
		waitForNotification(m.notifier),
		m.fetchParams(),
	)
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeCharts()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.focus {
		case focusLogin:
			return m.updateLogin(msg)
		case focusEditor:
			return m.updateEditor(msg)
		case focusParams:
			return m.updateParams(msg)
		}
		return m.updateDrive(msg)

	case loginSubmitMsg:
		m.closeLogin()
		return m, m.loginCmd(m.fields.username, m.fields.password)

	case loginCancelMsg:
		m.closeLogin()
		return m, nil

	case sessionMsg:
		m.sessionState = msg.state
		m.sessionErr = msg.err != nil
		if msg.login && msg.err != nil {
			// Let the operator correct the credentials.
			cmd := m.openLogin(m.fields)
			return m, cmd
		}
		return m, nil

	case paramsMsg:
		m.values = msg.values
		return m, nil

	case snapshotMsg:
		m.applySnapshot(telemetry.Snapshot(msg))
		return m, waitForSnapshot(m.telemetry)

	case logMsg:
		m.addLog(logging.Record(msg))
		return m, waitForLog(m.records)

	case notifyMsg:
		m.notification = string(msg)
		return m, waitForNotification(m.notifier)
	}

	if m.focus == focusLogin && m.login != nil {
		return m.forwardToLogin(msg)
	}
	if m.focus == focusEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m consoleModel) updateDrive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.keys.drive.Lookup(msg); ok {
		m.dispatcher.SendCommand(cmd)
		return m, nil
	}
	for color, binding := range m.keys.Colors {
		if key.Matches(msg, binding) {
			m.dispatcher.SendColor(color)
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Full):
		m.dispatcher.ResetBattery(robot.ResetToFull)
	case key.Matches(msg, m.keys.Voltage):
		m.dispatcher.ResetBattery(robot.ResetBasedOnVoltage)
	case key.Matches(msg, m.keys.Params):
		m.focus = focusParams
	case key.Matches(msg, m.keys.Login):
		m.session.ClearStatus()
		m.sessionState = m.session.State()
		m.sessionErr = false
		cmd := m.openLogin(&loginFields{})
		return m, cmd
	case key.Matches(msg, m.keys.Logout):
		return m, m.logoutCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	default:
		return m.updateParamActions(msg)
	}
	return m, nil
}

// updateParamActions handles the parameter keys that work in both the
// drive and the parameter pane.
func (m consoleModel) updateParamActions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SetAll):
		return m, m.pushParams(m.params.SetAll)
	case key.Matches(msg, m.keys.ClearAll):
		m.values = robot.NewParameterSet()
		return m, m.pushParams(m.params.ClearAll)
	case key.Matches(msg, m.keys.Fetch):
		return m, m.fetchParams()
	}
	return m, nil
}

func (m consoleModel) updateParams(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := robot.AllParameters()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focus = focusDrive
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(names)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Edit):
		name := names[m.cursor]
		if err := m.params.Select(name); err != nil {
			return m, nil
		}
		m.editor.SetValue(robot.FormatValue(m.values[name]))
		m.editor.CursorEnd()
		m.focus = focusEditor
		cmd := m.editor.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	default:
		return m.updateParamActions(msg)
	}
	return m, nil
}

func (m consoleModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeEditor()
		return m, nil
	case tea.KeyEnter:
		name, ok := m.params.Selected()
		input := m.editor.Value()
		m.closeEditor()
		if !ok {
			return m, nil
		}
		m.params.Edit(name, robot.ParseValue(input))
		m.values = m.params.Values()
		return m, m.setParam(name, input)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *consoleModel) closeEditor() {
	m.editor.Blur()
	m.params.Deselect()
	m.focus = focusParams
}

func (m consoleModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.closeLogin()
		return m, nil
	}
	return m.forwardToLogin(msg)
}

func (m consoleModel) forwardToLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.login.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.login = form
	}
	return m, cmd
}

func (m *consoleModel) openLogin(fields *loginFields) tea.Cmd {
	m.fields = fields
	m.login = newLoginForm(fields)
	m.focus = focusLogin
	return m.login.Init()
}

func (m *consoleModel) closeLogin() {
	m.login = nil
	m.focus = focusDrive
}

func (m *consoleModel) applySnapshot(snap telemetry.Snapshot) {
	m.snapshot = snap
	fresh := false
	for i, s := range snap.Pitch {
		if !s.Time.After(m.lastSample) {
			continue
		}
		m.pitchChart.PushDataSet("pitch", s.Value)
		if i < len(snap.Velocity) {
			m.velocityChart.PushDataSet("velocity", snap.Velocity[i].Value)
		}
		fresh = true
	}
	if fresh {
		m.lastSample = snap.Pitch[len(snap.Pitch)-1].Time
		m.pitchChart.DrawAll()
		m.velocityChart.DrawAll()
	}
}

func (m consoleModel) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.cfg.RequestTimeout)
}

func (m consoleModel) loginCmd(username, password string) tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		state, err := mgr.Login(ctx, username, password)
		return sessionMsg{state: state, err: err, login: true}
	}
}

func (m consoleModel) logoutCmd() tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		state, err := mgr.Logout(ctx)
		return sessionMsg{state: state, err: err}
	}
}

func (m consoleModel) fetchParams() tea.Cmd {
	store := m.params
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		// Failures are logged by the store; the cache stays as it was.
		store.FetchAll(ctx)
		return paramsMsg{values: store.Values()}
	}
}

func (m consoleModel) pushParams(push func(context.Context) params.FanOut) tea.Cmd {
	store, notifier := m.params, m.notifier
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		result := push(ctx)
		notifier.Notify(result.Summary())
		return paramsMsg{values: store.Values()}
	}
}

func (m consoleModel) setParam(name robot.ParameterName, input string) tea.Cmd {
	store, notifier := m.params, m.notifier
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		if err := store.SetOne(ctx, name, input); err != nil {
			notifier.Notify(fmt.Sprintf("%s not saved: %s", name, robot.Reason(err)))
		}
		return nil
	}
}

func (m consoleModel) View() string {
	if m.quitting {
		return "Console closed.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Chady Console"))
	sb.WriteString("  ")
	sb.WriteString(m.renderSession())
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n")
	sb.WriteString(m.renderBattery())
	sb.WriteString("\n\n")

	// Body: charts on the left, parameters on the right
	charts := lipgloss.JoinVertical(lipgloss.Left,
		m.renderChart("Pitch", pitchStyle, m.pitchChart, m.snapshot.Pitch, m.snapshot.MotionErr),
		m.renderChart("Velocity", velocityStyle, m.velocityChart, m.snapshot.Velocity, m.snapshot.MotionErr),
	)
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, charts, " ", m.renderParams()))
	sb.WriteString("\n")

	if m.focus == focusLogin && m.login != nil {
		sb.WriteString(m.renderLogin())
		sb.WriteString("\n")
	}

	// Notification banner
	if m.notification != "" {
		sb.WriteString(noticeStyle.Render(m.notification))
	}
	sb.WriteString("\n")

	sb.WriteString(m.renderLogs())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys.help(m.focus)))

	return sb.String()
}

func (m consoleModel) renderSession() string {
	st := m.sessionState
	line := statusStyle.Render("○ not logged in")
	if st.LoggedIn {
		line = loggedInStyle.Render("● " + st.Username)
	}
	switch {
	case st.Status == "":
	case m.sessionErr:
		line += "  " + errorLogStyle.Render(st.Status)
	default:
		line += "  " + statusStyle.Render(st.Status)
	}
	return line
}

func (m consoleModel) renderBattery() string {
	if !m.snapshot.HasBattery {
		line := statusStyle.Render("Battery: waiting for telemetry")
		if m.snapshot.PowerErr != nil {
			line += " " + errorLogStyle.Render(robot.Reason(m.snapshot.PowerErr))
		}
		return line
	}
	b := m.snapshot.Battery
	line := fmt.Sprintf("Battery %s %s (%s)  Motor %s  Logic %s",
		m.battery.ViewAs(b.ChargeFraction()),
		b.ChargeRounded(),
		b.ChargeDetail(),
		b.MotorPowerLabel(),
		b.LogicPowerLabel(),
	)
	age := humanize.RelTime(m.snapshot.LastPower, m.now(), "ago", "from now")
	line += statusStyle.Render("  updated " + age)
	if m.snapshot.PowerErr != nil {
		line += " " + errorLogStyle.Render("(stale)")
	}
	return line
}

func (m consoleModel) renderChart(title string, style lipgloss.Style, chart *streamlinechart.Model, samples []telemetry.Sample, err error) string {
	heading := style.Bold(true).Render(title)
	if latest := len(samples); latest > 0 {
		s := samples[latest-1]
		heading += statusStyle.Render(fmt.Sprintf("  %.2f at %s", s.Value, s.Label))
	}
	if err != nil {
		heading += " " + errorLogStyle.Render("(stale)")
	}
	return heading + "\n" + chartStyle.Render(chart.View())
}

func (m consoleModel) renderParams() string {
	names := robot.AllParameters()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{string(name), robot.FormatValue(m.values[name])})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Padding(0, 1)

	border := statusStyle
	if m.focus == focusParams || m.focus == focusEditor {
		border = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	}
	cursor := m.cursor
	paramsFocused := m.focus != focusDrive && m.focus != focusLogin

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		Headers("Parameter", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case paramsFocused && row == cursor:
				return selectedStyle
			case col == 0:
				return nameStyle
			default:
				return cellStyle
			}
		})

	out := t.Render()
	if m.focus == focusEditor {
		out += "\n" + m.editor.View()
	}
	return out
}

func (m consoleModel) renderLogin() string {
	return focusedStyle.Render(m.login.View())
}

func (m consoleModel) renderLogs() string {
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
	if m.width > 4 {
		logStyle = logStyle.Width(m.width - 4)
	}

	if len(m.logs) == 0 {
		return logStyle.Render(statusStyle.Render("Press 'l' to log in, 'q' to quit"))
	}
	lines := make([]string, len(m.logs))
	for i, r := range m.logs {
		switch {
		case r.Level >= slog.LevelError:
			lines[i] = errorLogStyle.Render(r.String())
		case r.Level >= slog.LevelWarn:
			lines[i] = warnLogStyle.Render(r.String())
		default:
			lines[i] = r.String()
		}
	}
	return logStyle.Render(strings.Join(lines, "\n"))
}

func (c *ConsoleCommand) Execute(args []string) error {
	level := new(slog.LevelVar)
	tui := logging.NewTUIHandler(level, 64)
	a, err := newApp(tui)
	if err != nil {
		return err
	}
	defer a.Close()
	if l, err := logLevel(a.cfg); err == nil {
		level.Set(l)
	}

	fmt.Printf("Loaded configuration from %s\n", opts.Config)

	notifier := session.NewNotifier(a.cfg.NotifyDelay)
	synchronizer := telemetry.New(a.client, telemetry.Config{
		Interval:       a.cfg.PollInterval,
		HistorySize:    a.cfg.HistorySize,
		RequestTimeout: a.cfg.RequestTimeout,
		Logger:         a.logger.With("component", "telemetry"),
	})
	dispatcher := command.NewDispatcher(a.client, command.Config{
		Timeout: a.cfg.RequestTimeout,
		Rate:    a.cfg.CommandRate,
		Logger:  a.logger.With("component", "command"),
	})
	defer dispatcher.Wait()

	model := newConsoleModel(consoleDeps{
		cfg:        a.cfg,
		telemetry:  synchronizer,
		session:    session.NewManager(a.client, notifier, a.logger.With("component", "session")),
		notifier:   notifier,
		params:     params.NewStore(a.client, a.logger.With("component", "params")),
		dispatcher: dispatcher,
		records:    tui.Records(),
	})

	// Start polling in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := synchronizer.Start(ctx); err != nil && err != context.Canceled {
			a.logger.Error("telemetry stopped", "error", err)
		}
	}()

	// Run TUI
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}
