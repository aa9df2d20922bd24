// Package chady is an operator console for a remotely driven self-balancing
// robot.
//
// The robot's controller service exposes telemetry, tuning parameters and
// drive commands over HTTP/JSON. The console polls the telemetry, keeps a
// local copy of the parameters, and turns key presses into commands.
//
// # Installation
//
//	go install github.com/chady-robot/chady/cmd/chady@latest
//
// # Usage
//
// First, point the console at the controller service:
//
//	chady setup
//
// Then open the console:
//
//	chady console
//
// One-shot subcommands (send, color, battery, params, status, users,
// record) cover scripting and quick checks.
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/chady: CLI with the console and one-shot commands
//   - pkg/robot: Service client, wire types and configuration
//   - pkg/session: Login, registration and notifications
//   - pkg/telemetry: Motion and battery polling with rolling history
//   - pkg/params: Local parameter cache and fan-out pushes
//   - pkg/command: Drive command dispatch and key bindings
//   - pkg/logging: slog setup and the console log handler
package chady
