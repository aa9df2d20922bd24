package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/chady-robot/chady/pkg/robot"
)

type Options struct {
	Config  string `short:"c" long:"config" default:"chady.yaml" description:"Configuration file"`
	Verbose bool   `short:"v" long:"verbose" description:"Log debug messages"`

	Console ConsoleCommand `command:"console" alias:"ui" description:"Open the operator console"`
	Setup   SetupCommand   `command:"setup" description:"Configure the robot server address"`
	Send    SendCommand    `command:"send" description:"Send one drive command"`
	Color   ColorCommand   `command:"color" description:"Set the indicator color"`
	Battery BatteryCommand `command:"battery" description:"Reset the battery estimator"`
	Params  ParamsCommand  `command:"params" description:"Read and write controller parameters"`
	Status  StatusCommand  `command:"status" description:"Print motion and battery telemetry once"`
	Users   UsersCommand   `command:"users" description:"List registered operators"`
	Record  RecordCommand  `command:"record" description:"Record telemetry to an HTML chart"`
}

var opts = Options{Config: robot.DefaultConfigFile}
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "chady - operator console for the self-balancing robot"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
