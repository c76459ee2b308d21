package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okvist/hatodo/internal/app"
	"github.com/okvist/hatodo/internal/card"
	"github.com/okvist/hatodo/internal/config"
	"github.com/okvist/hatodo/internal/model"
	"github.com/okvist/hatodo/internal/sanitize"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "init":
			handleInit(os.Args[2:])
			return
		case "version":
			fmt.Printf("hatodo v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	configFlag := flag.String("config", config.DefaultConfigPath(), "Path to config file")
	entityFlag := flag.String("entity", "", "Todo entity to display (overrides config)")
	flag.Parse()

	if err := runTUI(*configFlag, *entityFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `hatodo - a terminal todo card for Home Assistant todo entities

Usage:
  hatodo                    Start the TUI card
  hatodo init [path]        Write a starter config file
  hatodo add <item>         Quick add an item
  hatodo version            Show version
  hatodo help               Show this help

Quick Add Syntax:
  hatodo add "Buy groceries"
  hatodo add "Fix the gate !2 due:saturday"
  hatodo add "Milk x2"

  Priority:  !1 .. !10      (1 is most urgent; tasks mode)
  Quantity:  x2 x10         (shopping mode)
  Due date:  due:tomorrow due:friday due:2026-01-15

Options:
  --config <path>   Config file (default: ~/.config/hatodo/config.toml)
  --entity <id>     Todo entity to display (overrides config)

Keybindings:
  Navigation:   ↑/↓ or j/k    Move cursor
                g/G           Go to top/bottom

  Actions:      a             Add item
                e             Edit item
                tab           Toggle done
                d             Delete (with confirm)
                enter         Expand sub-tasks
                C             Clear completed
                r             Refresh
                q             Quit

For more info: https://github.com/okvist/hatodo`

	fmt.Println(help)
}

func handleInit(args []string) {
	path := config.DefaultConfigPath()
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.Entity = "todo.my_list"
	if err := config.Write(path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Edit it and set `entity` to your todo entity id.")
}

func handleAdd(args []string) {
	configPath := config.DefaultConfigPath()
	if len(args) > 1 && args[0] == "--config" {
		configPath = args[1]
		args = args[2:]
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: hatodo add <item>")
		fmt.Fprintln(os.Stderr, "Example: hatodo add \"Fix the gate !2 due:tomorrow\"")
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	item := parseQuickAdd(cfg.Mode, strings.Join(args, " "))
	if item.summary == "" {
		fmt.Fprintln(os.Stderr, "Error: item name cannot be empty")
		os.Exit(1)
	}

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = application.Host.AddItem(ctx, cfg.Entity, model.AddItemParams{
		Summary:     item.summary,
		Description: item.meta.Encode(),
		DueDate:     item.dueDate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding item: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created: %s\n", item.summary)
	if item.dueDate != "" {
		fmt.Printf("Due: %s\n", model.FormatDueDate(item.dueDate, time.Now()))
	}
	if cfg.Mode == config.ModeTasks && item.meta.Priority != sanitize.DefaultPriority {
		fmt.Printf("Priority: %s\n", item.meta.Priority)
	}
	if item.meta.Quantity != "" {
		fmt.Printf("Quantity: %s\n", item.meta.Quantity)
	}
}

type quickAddItem struct {
	summary string
	meta    model.Metadata
	dueDate string
}

func parseQuickAdd(cardMode, text string) quickAddItem {
	item := quickAddItem{}
	if cardMode == config.ModeTasks {
		item.meta = model.Metadata{
			Priority: sanitize.DefaultPriority,
			Icon:     model.DefaultIcon,
		}
	}

	var titleParts []string
	for _, word := range strings.Fields(text) {
		switch {
		// Priority (!1 .. !10, tasks mode)
		case cardMode == config.ModeTasks && strings.HasPrefix(word, "!"):
			n, err := strconv.Atoi(strings.TrimPrefix(word, "!"))
			if err != nil {
				titleParts = append(titleParts, word)
				continue
			}
			item.meta.Priority = strconv.Itoa(sanitize.ClampPriority(n))

		// Quantity (x2, x10, shopping mode)
		case cardMode == config.ModeShopping && isQuantityToken(word):
			item.meta.Quantity = strings.TrimPrefix(word, "x")

		// Due date (due:tomorrow, due:friday, due:2026-01-15)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := parseNaturalDate(dateStr); parsed != "" {
				item.dueDate = parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	item.summary = sanitize.Text(strings.Join(titleParts, " "))
	return item
}

func isQuantityToken(word string) bool {
	if !strings.HasPrefix(word, "x") || len(word) < 2 {
		return false
	}
	_, err := strconv.Atoi(word[1:])
	return err == nil
}

// parseNaturalDate resolves a shorthand date to "2006-01-02", or "" when
// the input is not recognized.
func parseNaturalDate(s string) string {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(s) {
	case "today":
		return today.Format("2006-01-02")
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1).Format("2006-01-02")
	case "monday", "mon":
		return nextWeekday(today, time.Monday)
	case "tuesday", "tue":
		return nextWeekday(today, time.Tuesday)
	case "wednesday", "wed":
		return nextWeekday(today, time.Wednesday)
	case "thursday", "thu":
		return nextWeekday(today, time.Thursday)
	case "friday", "fri":
		return nextWeekday(today, time.Friday)
	case "saturday", "sat":
		return nextWeekday(today, time.Saturday)
	case "sunday", "sun":
		return nextWeekday(today, time.Sunday)
	case "nextweek":
		return today.AddDate(0, 0, 7).Format("2006-01-02")
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	return ""
}

func nextWeekday(today time.Time, day time.Weekday) string {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil).Format("2006-01-02")
}

func runTUI(configPath, entity string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if entity != "" {
		cfg.Entity = entity
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(
		card.New(cfg, application.Host),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
