package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	chartopts "github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/chady-robot/chady/pkg/robot"
	"github.com/chady-robot/chady/pkg/telemetry"
)

type RecordCommand struct {
	Duration time.Duration `long:"duration" default:"30s" description:"How long to record"`
	Out      string        `long:"out" default:"telemetry.html" description:"HTML file to write"`
}

func (c *RecordCommand) Execute(args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	// Keep every sample of the recording.
	size := int(c.Duration/a.cfg.PollInterval) + 1
	poller := telemetry.New(a.client, telemetry.Config{
		Interval:       a.cfg.PollInterval,
		HistorySize:    size,
		RequestTimeout: a.cfg.RequestTimeout,
		Logger:         a.logger,
	})

	fmt.Printf("Recording telemetry from %s for %s...\n", a.client.BaseURL(), c.Duration)
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration)
	defer cancel()
	poller.Start(ctx)

	snap := poller.Snapshot()
	if len(snap.Pitch) == 0 {
		return fmt.Errorf("no telemetry received from %s", a.client.BaseURL())
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	defer f.Close()

	title := fmt.Sprintf("Telemetry %s", snap.Pitch[0].Time.Format("2006-01-02 15:04:05"))
	if err := renderRecording(f, title, snap, a.cfg.Charts); err != nil {
		return fmt.Errorf("render %s: %w", c.Out, err)
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("%d samples written to %s", len(snap.Pitch), c.Out)))
	return nil
}

// renderRecording writes the pitch and velocity histories and the last
// battery reading as one HTML page.
func renderRecording(w io.Writer, title string, snap telemetry.Snapshot, ranges robot.ChartConfig) error {
	page := components.NewPage()
	page.SetLayout(components.PageCenterLayout)
	page.PageTitle = title
	page.AddCharts(
		lineChart("Pitch", "deg", snap.Pitch, ranges.Pitch),
		lineChart("Velocity", "", snap.Velocity, ranges.Velocity),
	)
	if snap.HasBattery {
		page.AddCharts(chargeGauge(snap.Battery))
	}
	return page.Render(w)
}

func lineChart(name, unit string, samples []telemetry.Sample, yRange robot.Range) *charts.Line {
	data := make([]chartopts.LineData, 0, len(samples))
	for _, s := range samples {
		data = append(data, chartopts.LineData{Value: s.Value, Name: s.Label})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(chartopts.Initialization{Theme: types.ThemeInfographic}),
		charts.WithTitleOpts(chartopts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("%d sample(s)", len(samples)),
		}),
		charts.WithYAxisOpts(chartopts.YAxis{
			Name: unit,
			Type: "value",
			Show: true,
			Min:  yRange.Min,
			Max:  yRange.Max,
		}),
		charts.WithXAxisOpts(chartopts.XAxis{
			Name:      "Time",
			Show:      true,
			AxisLabel: &chartopts.AxisLabel{Show: true},
		}),
		charts.WithTooltipOpts(chartopts.Tooltip{
			Show:        true,
			Trigger:     "axis",
			AxisPointer: &chartopts.AxisPointer{Type: "cross", Snap: true},
		}),
	)
	line.SetXAxis(telemetry.Labels(samples)).
		AddSeries(name, data, charts.WithLineChartOpts(chartopts.LineChart{ConnectNulls: true})).
		SetSeriesOptions(charts.WithLabelOpts(chartopts.Label{Show: false}))
	return line
}

func chargeGauge(b robot.Battery) *charts.Gauge {
	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(
		charts.WithInitializationOpts(chartopts.Initialization{Theme: types.ThemeInfographic}),
		charts.WithTitleOpts(chartopts.Title{
			Title:    "Charge",
			Subtitle: fmt.Sprintf("motor %s, logic %s", b.MotorPowerLabel(), b.LogicPowerLabel()),
		}),
	)
	gauge.AddSeries("Charge", []chartopts.GaugeData{{Name: b.ChargeRounded(), Value: b.ChargeSoc}})
	return gauge
}
