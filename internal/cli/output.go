package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/user/hx-chapters/internal/directory"
)

func PrintJSON(w io.Writer, data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data to JSON: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func PrintUsers(w io.Writer, header string, users []directory.User, footer string) error {
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cellStyle
		}).
		Headers("NAME", "EMAIL", "USERNAME")

	for _, u := range users {
		t.Row(u.Name, u.Email, u.Username)
	}

	if footer == "" {
		footer = fmt.Sprintf("Updated: %s", time.Now().Format(time.RFC1123))
	}

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, t)
	fmt.Fprintln(w, footer)

	return nil
}

// PrintSearch prints matches as a table and every other outcome as the same
// one-line message the HTML fragments use.
func PrintSearch(w io.Writer, result directory.SearchResult) error {
	switch result.Outcome {
	case directory.OutcomePrompt:
		fmt.Fprintln(w, "Start typing to search users")
		return nil
	case directory.OutcomeUnavailable:
		fmt.Fprintln(w, "Unable to load users. Please try again later.")
		return nil
	case directory.OutcomeNoResults:
		fmt.Fprintf(w, "No users found for %q\n", result.Query)
		return nil
	}

	header := fmt.Sprintf("Users matching %q", result.Query)
	footer := fmt.Sprintf("%d match(es), data %s", len(result.Users), result.Status)
	return PrintUsers(w, header, result.Users, footer)
}
