package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/non24/circaterm/internal/ui"
)

func main() {
	profileName := flag.String("profile", "", "Name of a saved profile to open directly")
	flag.Parse()

	p := tea.NewProgram(ui.NewModel(*profileName), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
