package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/desertthunder/ytpl/internal/songlist"
	"github.com/desertthunder/ytpl/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FileListView ViewState = iota
	SongListView
	ConfirmView
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	config       *shared.Config
	engine       tasks.Engine
	dryRun       bool
	privacy      models.Privacy
	width        int
	height       int
	fileList     list.Model
	files        []songlist.FileInfo
	songList     list.Model
	selectedFile string
	songs        []models.Song
	estimate     models.QuotaEstimate
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	summary      *models.PlaylistSummary
	err          error
	help         help.Model
	keys         keyMap
}

type filesLoadedMsg struct {
	files []songlist.FileInfo
	err   error
}

type songsLoadedMsg struct {
	file  string
	songs []models.Song
	err   error
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	summary *models.PlaylistSummary
	err     error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, config *shared.Config, engine tasks.Engine, privacy models.Privacy, dryRun bool) *Model {
	return &Model{
		ctx:     ctx,
		view:    FileListView,
		config:  config,
		engine:  engine,
		privacy: privacy,
		dryRun:  dryRun,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by scanning the songs folder.
func (m *Model) Init() tea.Cmd {
	return m.loadFiles()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.fileList.Width() == 0 {
			m.fileList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FileListView:
			return m.handleFileListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case filesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.files = msg.files
		items := make([]list.Item, len(msg.files))
		for i, f := range msg.files {
			items[i] = fileItem{file: f}
		}
		m.fileList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.fileList.Title = fmt.Sprintf("CSV files in %s", m.config.Songs.Folder)
		m.fileList.SetSize(m.width-4, m.height-8)
		return m, nil

	case songsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = FileListView
			return m, nil
		}
		m.selectedFile = msg.file
		m.songs = msg.songs
		m.estimate = tasks.EstimateQuota(len(msg.songs), 1.0, !m.dryRun)
		items := make([]list.Item, len(msg.songs))
		for i, song := range msg.songs {
			items[i] = songItem{song: song}
		}
		m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = fmt.Sprintf("Songs in '%s'", msg.file)
		m.songList.SetSize(m.width-4, m.height-8)
		m.view = SongListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.summary = msg.summary
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return errStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case FileListView:
		return m.renderFileList()
	case SongListView:
		return m.renderSongList()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleFileListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.fileList.SelectedItem()
		if selected != nil {
			if f, ok := selected.(fileItem); ok {
				return m, m.loadSongs(f.file.Name)
			}
		}
	}

	var cmd tea.Cmd
	m.fileList, cmd = m.fileList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = FileListView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = SongListView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = FileListView
		m.selectedFile = ""
		m.songs = nil
		m.summary = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FileListView:
		m.fileList, cmd = m.fileList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadFiles() tea.Cmd {
	return func() tea.Msg {
		files, err := songlist.ListFiles(m.config.Songs.Folder)
		return filesLoadedMsg{files: files, err: err}
	}
}

func (m *Model) loadSongs(filename string) tea.Cmd {
	return func() tea.Msg {
		songs, err := songlist.ParseFile(m.config.SongPath(filename))
		return songsLoadedMsg{file: filename, songs: songs, err: err}
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		opts := tasks.RunOpts{
			Name:       songlist.DefaultPlaylistName(m.selectedFile),
			Privacy:    m.privacy,
			DryRun:     m.dryRun,
			MaxResults: m.config.Playlist.MaxSearchResults,
			SourceFile: m.selectedFile,
		}
		summary, err := m.engine.Run(m.ctx, m.progressChan, m.songs, opts)
		m.summary = summary
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{summary: m.summary, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{summary: m.summary, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderFileList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.fileList.View(), helpView)
}

func (m *Model) renderSongList() string {
	confirmKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "continue"),
	)
	helpKeys := []key.Binding{confirmKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	action := "Create playlist from"
	if m.dryRun {
		action = "Demo run for"
	}
	title := titleStyle.Render(fmt.Sprintf("%s '%s'?", action, m.selectedFile))

	info := fmt.Sprintf(
		"\nSongs: %d\nQuota: %d units (%.1f%% of the daily limit)\n",
		len(m.songs), m.estimate.TotalUnits, m.estimate.PercentOfDailyLimit,
	)
	if !m.estimate.FitsInOneDay {
		info += warnStyle.Render(fmt.Sprintf("This run needs roughly %.1f days of quota.\n", m.estimate.DaysNeeded))
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := titleStyle.Render("Creating Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.CreatePlaylist:
		phase = "Creating playlist on YouTube..."
	case tasks.SearchSongs:
		phase = fmt.Sprintf("Searching songs (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.AddVideos:
		phase = fmt.Sprintf("Adding videos (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Run failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.summary == nil {
		return errStyle.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := okStyle.Render("✓ Playlist Complete!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nSongs: %d total, %d added, %d duplicates, %d not found",
		m.summary.PlaylistName,
		m.summary.TotalSongs,
		len(m.summary.Added),
		len(m.summary.Duplicates),
		len(m.summary.NotFound),
	)
	if m.summary.PlaylistURL != "" {
		info += fmt.Sprintf("\nURL: %s", m.summary.PlaylistURL)
	}

	var missing string
	if len(m.summary.NotFound) > 0 {
		missing = fmt.Sprintf("\n\n%s", warnStyle.Render(fmt.Sprintf("Could not match %d songs:", len(m.summary.NotFound))))
		for _, song := range m.summary.NotFound {
			missing += fmt.Sprintf("\n  • %s - %s", song.Artist, song.Title)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, missing, helpView)
}
