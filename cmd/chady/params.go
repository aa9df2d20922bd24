package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/chady-robot/chady/pkg/params"
	"github.com/chady-robot/chady/pkg/robot"
)

type ParamsCommand struct {
	Get   ParamsGetCommand   `command:"get" description:"Print all parameters"`
	Set   ParamsSetCommand   `command:"set" description:"Set one parameter"`
	Push  ParamsPushCommand  `command:"push" description:"Push parameter values from a YAML file"`
	Clear ParamsClearCommand `command:"clear" description:"Set every parameter to zero"`
}

func openStore() (*app, *params.Store, error) {
	a, err := newApp(nil)
	if err != nil {
		return nil, nil, err
	}
	return a, params.NewStore(a.client, a.logger), nil
}

func (a *app) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
}

type ParamsGetCommand struct {
	Save string `long:"save" description:"Also write the values to a YAML file"`
}

func (c *ParamsGetCommand) Execute(args []string) error {
	a, store, err := openStore()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.requestContext()
	defer cancel()
	if err := store.FetchAll(ctx); err != nil {
		return err
	}
	values := store.Values()
	fmt.Println(renderParamTable(values, nil))
	if c.Save != "" {
		if err := params.SaveFile(c.Save, values); err != nil {
			return err
		}
		fmt.Println(dimStyle.Render("Saved to " + c.Save))
	}
	return nil
}

type ParamsSetCommand struct {
	Args struct {
		Name  string `positional-arg-name:"NAME"`
		Value string `positional-arg-name:"VALUE"`
	} `positional-args:"yes" required:"yes"`
}

func (c *ParamsSetCommand) Execute(args []string) error {
	name, err := robot.ParseParameterName(c.Args.Name)
	if err != nil {
		return err
	}
	a, store, err := openStore()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.requestContext()
	defer cancel()
	if err := store.SetOne(ctx, name, c.Args.Value); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", name, robot.FormatValue(robot.ParseValue(c.Args.Value)))
	return nil
}

type ParamsPushCommand struct {
	Args struct {
		File string `positional-arg-name:"FILE" description:"YAML file mapping parameter names to values"`
	} `positional-args:"yes" required:"yes"`
}

func (c *ParamsPushCommand) Execute(args []string) error {
	values, err := params.LoadFile(c.Args.File)
	if err != nil {
		return err
	}
	a, store, err := openStore()
	if err != nil {
		return err
	}
	defer a.Close()

	// Start from the controller's values so keys missing from the file
	// are pushed unchanged.
	ctx, cancel := a.requestContext()
	defer cancel()
	if err := store.FetchAll(ctx); err != nil {
		return err
	}
	for name, v := range values {
		store.Edit(name, v)
	}

	result := store.SetAll(ctx)
	fmt.Println(renderParamTable(store.Values(), result.Failed()))
	fmt.Println(result.Summary())
	return result.Err()
}

type ParamsClearCommand struct{}

func (c *ParamsClearCommand) Execute(args []string) error {
	a, store, err := openStore()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.requestContext()
	defer cancel()
	result := store.ClearAll(ctx)
	fmt.Println(result.Summary())
	return result.Err()
}

func renderParamTable(values robot.ParameterSet, failed []params.PushResult) string {
	bad := make(map[robot.ParameterName]bool, len(failed))
	for _, r := range failed {
		bad[r.Name] = true
	}

	names := values.Names()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{string(name), robot.FormatValue(values[name])})
	}

	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableNameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableFailedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Parameter", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row >= 0 && row < len(names) && bad[names[row]]:
				return tableFailedStyle
			case col == 0:
				return tableNameStyle
			default:
				return tableCellStyle
			}
		})
	return t.Render()
}
