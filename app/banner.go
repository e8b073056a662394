// Copyright 2025 The Tight Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"github.com/AlejandroPF/tight/router/route"
)

// colorWriter downsamples ANSI colors to what w supports.
// Outside development every escape sequence is stripped.
func (a *App) colorWriter(w io.Writer) *colorprofile.Writer {
	cpw := colorprofile.NewWriter(w, os.Environ())
	if !a.settings.Development {
		cpw.Profile = colorprofile.NoTTY
	}
	return cpw
}

// printStartupBanner prints the service name, address and the route table.
func (a *App) printStartupBanner(addr, protocol string) {
	w := a.colorWriter(a.output)

	gradient := []string{"10", "11"}
	if a.settings.Development {
		gradient = []string{"12", "14", "10", "11"}
	}

	var art strings.Builder
	for _, line := range figure.NewFigure(a.settings.Log.Service, "", false).Slicify() {
		if strings.TrimSpace(line) == "" {
			art.WriteString("\n")
			continue
		}
		for i, char := range line {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradient[i%len(gradient)])).Bold(true)
			art.WriteString(style.Render(string(char)))
		}
		art.WriteString("\n")
	}

	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Width(14).
		PaddingLeft(2).
		Align(lipgloss.Left)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	disabledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	providerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	displayAddr := addr
	if strings.HasPrefix(addr, ":") || strings.HasPrefix(addr, "[::]:") {
		displayAddr = "0.0.0.0" + addr[strings.LastIndex(addr, ":"):]
	}
	displayAddr = "http://" + displayAddr

	line := func(label, value string) string {
		return labelStyle.Render(label) + "  " + value + "\n"
	}

	env := "production"
	if a.settings.Development {
		env = "development"
	}
	mode := "router"
	if a.settings.MVC.Enabled {
		mode = "mvc (" + a.settings.MVC.ViewDir + ")"
	}

	var out strings.Builder
	out.WriteString(categoryStyle.Render("Service") + "\n")
	out.WriteString(line("Version:", valueStyle.Foreground(lipgloss.Color("14")).Render(a.serviceVersion)))
	out.WriteString(line("Environment:", valueStyle.Foreground(lipgloss.Color("11")).Render(env)))
	out.WriteString(line("Address:", valueStyle.Foreground(lipgloss.Color("10")).Render(displayAddr)+"  "+providerStyle.Render("["+protocol+"]")))
	out.WriteString(line("Base path:", valueStyle.Render(a.router.BasePath())))
	out.WriteString(line("Dispatch:", valueStyle.Render(mode)))

	out.WriteString("\n" + categoryStyle.Render("Observability") + "\n")
	if a.recorder != nil {
		target := string(a.recorder.Provider())
		if a.scrapeHandler != nil {
			target = displayAddr + a.settings.Metrics.Path
		}
		out.WriteString(line("Metrics:", valueStyle.Foreground(lipgloss.Color("13")).Render(target)+"  "+
			providerStyle.Render(fmt.Sprintf("[%s]", a.recorder.Provider()))))
	} else {
		out.WriteString(line("Metrics:", disabledStyle.Render("Disabled")))
	}
	if a.tracer != nil {
		out.WriteString(line("Tracing:", valueStyle.Foreground(lipgloss.Color("12")).Render("Enabled")+"  "+
			providerStyle.Render(fmt.Sprintf("[%s]", a.tracer.Provider()))))
	} else {
		out.WriteString(line("Tracing:", disabledStyle.Render("Disabled")))
	}
	if n := a.loader.Len(); n > 0 {
		names := make([]string, 0, n)
		for _, m := range a.loader.Modules() {
			names = append(names, m.Name())
		}
		out.WriteString(line("Modules:", valueStyle.Render(strings.Join(names, ", "))))
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprint(w, art.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprint(w, out.String())

	if a.settings.Development && len(a.router.Routes()) > 0 {
		_, _ = fmt.Fprintln(w)
		a.renderRoutesTable(w, 80)
	}
	_, _ = fmt.Fprintln(w)
}

// renderRoutesTable writes the registered routes as a table at least width
// columns wide, capped at the terminal width when w is a terminal.
func (a *App) renderRoutesTable(w io.Writer, width int) {
	routes := a.router.Routes()
	if len(routes) == 0 {
		return
	}

	methodStyles := map[string]lipgloss.Style{
		route.MethodGet:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		route.MethodPost:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		route.MethodUpdate: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		route.MethodDelete: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
	useColors := a.settings.Development

	rows := make([][]string, 0, len(routes))
	maxMethods, maxTemplate, maxChain := len("Methods"), len("Template"), len("Middleware")
	for _, rt := range routes {
		methods := rt.Methods()
		plain := strings.ToUpper(strings.Join(methods, ","))
		styled := plain
		if useColors {
			parts := make([]string, len(methods))
			for i, m := range methods {
				parts[i] = strings.ToUpper(m)
				if style, ok := methodStyles[m]; ok {
					parts[i] = style.Render(parts[i])
				}
			}
			styled = strings.Join(parts, ",")
		}
		chain := fmt.Sprint(len(rt.Middleware()))

		maxMethods = max(maxMethods, len(plain))
		maxTemplate = max(maxTemplate, len(rt.Template()))
		maxChain = max(maxChain, len(chain))
		rows = append(rows, []string{styled, rt.Template(), chain})
	}

	// borders, separators and one cell of padding on each side
	minWidth := 2 + 2 + 6 + maxMethods + maxTemplate + maxChain
	tableWidth := max(minWidth, width)
	if file, ok := w.(*os.File); ok {
		if termWidth, _, err := term.GetSize(int(file.Fd())); err == nil && termWidth > 0 {
			tableWidth = min(tableWidth, termWidth)
		}
	}
	tableWidth = max(60, tableWidth)

	borderStyle := lipgloss.NewStyle()
	if useColors {
		borderStyle = borderStyle.Foreground(lipgloss.Color("240"))
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Align(lipgloss.Left).Padding(0, 1)
			if row == table.HeaderRow && useColors {
				style = style.Bold(true).Foreground(lipgloss.Color("230"))
			}
			return style
		}).
		Headers("Methods", "Template", "Middleware").
		Rows(rows...).
		Width(tableWidth)

	_, _ = fmt.Fprintln(w, t.Render())
}

// PrintRoutes writes the route table to w.
func (a *App) PrintRoutes(w io.Writer) {
	if len(a.router.Routes()) == 0 {
		_, _ = fmt.Fprintln(w, "No routes registered")
		return
	}
	a.renderRoutesTable(a.colorWriter(w), 120)
}
