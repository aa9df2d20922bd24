package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/chady-robot/chady/pkg/command"
	"github.com/chady-robot/chady/pkg/robot"
	"github.com/chady-robot/chady/pkg/telemetry"
)

func newDispatcher(a *app) *command.Dispatcher {
	return command.NewDispatcher(a.client, command.Config{
		Timeout: a.cfg.RequestTimeout,
		Rate:    a.cfg.CommandRate,
		Logger:  a.logger,
	})
}

type SendCommand struct {
	Args struct {
		Command string `positional-arg-name:"COMMAND" description:"forward, backward, left, right, stop, switch_to_auto or switch_to_manual"`
	} `positional-args:"yes" required:"yes"`
}

func (c *SendCommand) Execute(args []string) error {
	cmd, err := robot.ParseCommand(c.Args.Command)
	if err != nil {
		return err
	}
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	return newDispatcher(a).DoCommand(context.Background(), cmd)
}

type ColorCommand struct {
	Args struct {
		Color string `positional-arg-name:"COLOR" description:"red, yellow, blue, green or purple"`
	} `positional-args:"yes" required:"yes"`
}

func (c *ColorCommand) Execute(args []string) error {
	color, err := robot.ParseColor(c.Args.Color)
	if err != nil {
		return err
	}
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	return newDispatcher(a).DoColor(context.Background(), color)
}

type BatteryCommand struct {
	Args struct {
		Action string `positional-arg-name:"ACTION" description:"reset_to_full or reset_based_on_voltage"`
	} `positional-args:"yes" required:"yes"`
}

func (c *BatteryCommand) Execute(args []string) error {
	action, err := robot.ParseBatteryAction(c.Args.Action)
	if err != nil {
		return err
	}
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	return newDispatcher(a).DoResetBattery(context.Background(), action)
}

type StatusCommand struct{}

func (c *StatusCommand) Execute(args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	poller := telemetry.New(a.client, telemetry.Config{
		HistorySize:    1,
		RequestTimeout: a.cfg.RequestTimeout,
		Logger:         a.logger,
	})
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()
	motionErr := poller.PollMotion(ctx)
	powerErr := poller.PollPower(ctx)
	if motionErr != nil && powerErr != nil {
		return fmt.Errorf("robot unreachable at %s: %w", a.client.BaseURL(), motionErr)
	}

	fmt.Println(renderStatus(poller.Snapshot(), time.Now()))
	return nil
}

func renderStatus(snap telemetry.Snapshot, now time.Time) string {
	na := dimStyle.Render("n/a")
	pitch, velocity, motionAge := na, na, na
	if latest := len(snap.Pitch); latest > 0 {
		pitch = fmt.Sprintf("%.2f", snap.Pitch[latest-1].Value)
		velocity = fmt.Sprintf("%.2f", snap.Velocity[latest-1].Value)
		motionAge = humanize.RelTime(snap.LastMotion, now, "ago", "from now")
	}
	charge, motor, logic, powerAge := na, na, na, na
	if snap.HasBattery {
		charge = snap.Battery.ChargeDetail()
		motor = snap.Battery.MotorPowerLabel()
		logic = snap.Battery.LogicPowerLabel()
		powerAge = humanize.RelTime(snap.LastPower, now, "ago", "from now")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Reading", "Value", "Updated").
		Rows(
			[]string{"pitch", pitch, motionAge},
			[]string{"velocity", velocity, motionAge},
			[]string{"charge", charge, powerAge},
			[]string{"motor power", motor, powerAge},
			[]string{"logic power", logic, powerAge},
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}

type UsersCommand struct{}

func (c *UsersCommand) Execute(args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()

	users, err := a.client.Users(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No registered operators.")
		return nil
	}
	for _, u := range users {
		fmt.Println(u.Username)
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d operator(s)", len(users))))
	return nil
}
