// Command termview-demo shows the toolkit end to end: layout
// expressions, focus cycling, mouse hit testing, and driver selection
// through config or the TERMVIEW_DRIVER environment variable.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lixenwraith/termview/geom"
	"github.com/lixenwraith/termview/layout"
	"github.com/lixenwraith/termview/terminal"
	"github.com/lixenwraith/termview/view"
)

func main() {
	configPath := flag.String("config", "termview.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := terminal.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termview-demo: %v\n", err)
		os.Exit(1)
	}

	driver, err := terminal.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termview-demo: %v\n", err)
		os.Exit(1)
	}

	if err := run(driver); err != nil {
		fmt.Fprintf(os.Stderr, "termview-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(driver terminal.Driver) error {
	app := view.NewApplication(driver)
	top := view.NewToplevel("demo")

	title := view.New("title")
	title.SetPosition(layout.At(0), layout.At(0))
	title.SetSize(layout.Fill(0), layout.Sized(1))
	title.Drawer = func(region geom.Rect, p *view.Painter) {
		p.DrawString(1, 0, "termview demo - Tab cycles focus, q quits")
	}
	top.AddSubview(title)

	clicks := 0
	box := view.New("box")
	box.SetCanFocus(true)
	box.SetPosition(layout.At(2), layout.At(2))
	half, _ := layout.PercentDim(50)
	box.SetSize(half, layout.Sized(5))
	box.Drawer = func(region geom.Rect, p *view.Painter) {
		if box.HasFocus() {
			p.SetAttribute(app.Colors().Base.Focus)
			p.FillRegion(geom.Rect{Size: box.Frame().Size}, ' ')
		}
		p.DrawBorder(geom.Rect{Size: box.Frame().Size})
		p.DrawString(2, 2, fmt.Sprintf("clicks: %d", clicks))
	}
	box.MouseHandler = func(ev terminal.Event) bool {
		if ev.MouseAction == terminal.MouseActionPress {
			clicks++
			box.SetNeedsDisplay(geom.Rect{})
			return true
		}
		return false
	}
	top.AddSubview(box)

	side := view.New("side")
	side.SetCanFocus(true)
	side.SetPosition(layout.Add(layout.Right(box), layout.At(2)), layout.Top(box))
	side.SetSize(layout.Sized(14), layout.Sized(5))
	side.Drawer = func(region geom.Rect, p *view.Painter) {
		if side.HasFocus() {
			p.SetAttribute(app.Colors().Base.Focus)
			p.FillRegion(geom.Rect{Size: side.Frame().Size}, ' ')
		}
		p.DrawBorder(geom.Rect{Size: side.Frame().Size})
		p.DrawString(2, 2, "anchored")
	}
	top.AddSubview(side)

	status := view.New("status")
	status.SetPosition(layout.At(0), layout.AnchorEnd(1))
	status.SetSize(layout.Fill(0), layout.Sized(1))
	status.Drawer = func(region geom.Rect, p *view.Painter) {
		cols, rows := driver.Size()
		p.DrawString(1, 0, fmt.Sprintf("%dx%d", cols, rows))
	}
	top.AddSubview(status)

	top.ColdKeyHandler = func(ev terminal.Event) bool {
		switch {
		case ev.Key == terminal.KeyRune && ev.Rune == 'q':
			top.Stop()
			return true
		case ev.Key == terminal.KeyCtrlC:
			top.Stop()
			return true
		case ev.Key == terminal.KeyCtrlZ:
			return app.Suspend()
		}
		return false
	}

	return app.Run(top)
}
