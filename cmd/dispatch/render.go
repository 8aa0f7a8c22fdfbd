// Copyright 2025 The Rivaas Authors
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

package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"rivaas.dev/dispatch/collection"
)

var methodColors = map[string]lipgloss.Color{
	http.MethodGet:     "10",
	http.MethodHead:    "14",
	http.MethodPost:    "12",
	http.MethodPut:     "11",
	http.MethodPatch:   "13",
	http.MethodDelete:  "9",
	http.MethodOptions: "7",
}

// newTable returns a table styled for w. Colors are dropped when w is not
// a terminal.
func newTable(w io.Writer, headers ...string) (*table.Table, *lipgloss.Renderer) {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...)
	return t, r
}

func renderRoutes(w io.Writer, routes *collection.Collection) {
	all := routes.All()
	if len(all) == 0 {
		_, _ = fmt.Fprintln(w, "No routes.")
		return
	}

	t, r := newTable(w, "Name", "Methods", "Pattern", "Handler", "Secure")
	for _, rt := range all {
		methods := rt.Methods()
		for i, m := range methods {
			if c, ok := methodColors[m]; ok {
				methods[i] = r.NewStyle().Foreground(c).Bold(true).Render(m)
			}
		}
		secure := ""
		if rt.IsSecure() {
			secure = "yes"
		}
		t.Row(rt.Name(), strings.Join(methods, ","), rt.Pattern(), rt.Target().Handler, secure)
	}
	_, _ = fmt.Fprintln(w, t.Render())
}

func renderCommands(w io.Writer, commands *collection.Commands) {
	all := commands.All()
	if len(all) == 0 {
		_, _ = fmt.Fprintln(w, "No commands.")
		return
	}

	t, _ := newTable(w, "Name", "Usage", "Handler", "Description")
	for _, cmd := range all {
		t.Row(cmd.Name(), cmd.Usage(), cmd.Target().Handler, cmd.Description())
	}
	_, _ = fmt.Fprintln(w, t.Render())
}
