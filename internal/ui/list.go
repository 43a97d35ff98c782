package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/songlist"
)

var (
	_ list.Item = fileItem{}
	_ list.Item = songItem{}
)

// fileItem wraps [songlist.FileInfo] to implement [list.Item].
type fileItem struct {
	file songlist.FileInfo
}

func (i fileItem) FilterValue() string { return i.file.Name }
func (i fileItem) Title() string       { return i.file.Name }
func (i fileItem) Description() string {
	return fmt.Sprintf("%.1f KB", float64(i.file.SizeBytes)/1024)
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string { return i.song.Artist }
