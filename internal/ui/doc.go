// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist creation:
//  1. [FileListView] : Browse and select a CSV file from the songs folder
//  2. [SongListView] : Preview the parsed songs before running
//  3. [ConfirmView] : Review the quota estimate and confirm
//  4. [RunView] : Monitor real-time progress updates
//  5. [ResultView] : Display the summary and any unmatched songs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the PlaylistEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
