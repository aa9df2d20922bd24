package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/chady-robot/chady/pkg/robot"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct {
	Server string `long:"server" description:"Server URL, skips the prompt"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Chady Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━"))
	fmt.Println()

	cfg := robot.DefaultConfig()
	if robot.ConfigExists(opts.Config) {
		existing, err := robot.LoadConfigFrom(opts.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ignoring existing config: %v\n", err)
		} else {
			cfg = existing
		}
	}

	server := c.Server
	if server == "" {
		server = askServer(cfg.Server)
	}
	if server == "" {
		return errors.New("setup cancelled")
	}

	client, err := robot.NewClient(server)
	if err != nil {
		return err
	}

	fmt.Printf("Contacting %s...\n", client.BaseURL())
	if err := probe(client); err != nil {
		fmt.Println(dimStyle.Render(fmt.Sprintf("Robot did not answer (%v); saving anyway.", err)))
	} else {
		fmt.Println(successStyle.Render("Robot is reachable."))
	}

	cfg.Server = client.BaseURL()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Open the console with: " + headerStyle.Render("chady console"))
	return nil
}

func askServer(current string) string {
	server := current
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Robot server URL").
				Description("The controller service, e.g. " + robot.DefaultServer).
				Value(&server).
				Validate(func(s string) error {
					_, err := robot.NewClient(s)
					return err
				}),
		),
	)

	if err := form.Run(); err != nil {
		fmt.Println()
		return ""
	}
	return server
}

func probe(client *robot.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.Motion(ctx)
	return err
}
