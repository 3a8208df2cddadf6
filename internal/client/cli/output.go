package cli

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"golang.org/x/term"
)

const defaultWidth = 80

// termSize is a test seam for term.GetSize.
var termSize = term.GetSize

func terminalWidth() int {
	w, _, err := termSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// formatAlbum renders one listing line, fitted to width.
func formatAlbum(a models.Album, width int) string {
	star := " "
	if a.IsFavorite {
		star = "*"
	}
	prefix := fmt.Sprintf("%s %5d  album %-4d ", star, a.ID, a.AlbumID)
	return prefix + truncate(a.Title, width-utf8.RuneCountInString(prefix))
}

func formatDetails(a models.Album) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Album #%d\n", a.ID)
	fmt.Fprintf(&b, "  Title:     %s\n", a.Title)
	fmt.Fprintf(&b, "  Album ID:  %d\n", a.AlbumID)
	fmt.Fprintf(&b, "  URL:       %s\n", a.URL)
	fmt.Fprintf(&b, "  Thumbnail: %s\n", a.ThumbnailURL)
	fmt.Fprintf(&b, "  Favorite:  %t", a.IsFavorite)
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.RFC3339)
}

// errorMessage is what the user sees when an operation fails.
func errorMessage(err error) string {
	return "Something happened: " + err.Error()
}
