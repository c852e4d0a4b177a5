package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/stage"
)

// symbols labels picked actors in order of first appearance. Actors past
// the last symbol share '#'.
const symbols = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const backgroundSymbol = '.'

// pickMap is a cols x rows sampling of a stage: each cell holds the actor
// picked at the cell center.
type pickMap struct {
	cols, rows int
	cells      []*stage.Actor
	legend     []*stage.Actor
	symbol     map[*stage.Actor]byte
}

// samplePickMap picks at the center of every cell of a cols x rows grid
// laid over the stage.
func samplePickMap(s *stage.Stage, mode stage.PickMode, cols, rows int) (*pickMap, error) {
	w, h := s.Size()
	m := &pickMap{
		cols:   cols,
		rows:   rows,
		cells:  make([]*stage.Actor, 0, cols*rows),
		symbol: make(map[*stage.Actor]byte),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := (float64(c) + 0.5) * float64(w) / float64(cols)
			y := (float64(r) + 0.5) * float64(h) / float64(rows)
			a, err := s.PickAt(x, y, mode)
			if err != nil {
				return nil, fmt.Errorf("pick (%.1f, %.1f): %w", x, y, err)
			}
			m.cells = append(m.cells, a)
			if a != nil {
				if _, seen := m.symbol[a]; !seen {
					m.symbol[a] = symbolFor(len(m.legend))
					m.legend = append(m.legend, a)
				}
			}
		}
	}
	return m, nil
}

func symbolFor(i int) byte {
	if i < len(symbols) {
		return symbols[i]
	}
	return '#'
}

// At returns the actor picked in cell (c, r).
func (m *pickMap) At(c, r int) *stage.Actor {
	return m.cells[r*m.cols+c]
}

// Plain renders the map as unstyled text, one line per row.
func (m *pickMap) Plain() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			b.WriteByte(m.symbolAt(c, r))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *pickMap) symbolAt(c, r int) byte {
	a := m.At(c, r)
	if a == nil {
		return backgroundSymbol
	}
	return m.symbol[a]
}

// Render draws the map with each actor's cells in its own color, followed
// by a legend.
func (m *pickMap) Render() string {
	styles := make(map[*stage.Actor]lipgloss.Style, len(m.legend))
	for _, a := range m.legend {
		bg := hexColor(a.Color())
		styles[a] = lipgloss.NewStyle().
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color(contrastColor(a.Color())))
	}
	bgStyle := lipgloss.NewStyle().Faint(true)

	lines := make([]string, 0, m.rows)
	for r := 0; r < m.rows; r++ {
		var b strings.Builder
		for c := 0; c < m.cols; c++ {
			a := m.At(c, r)
			sym := string(m.symbolAt(c, r))
			if a == nil {
				b.WriteString(bgStyle.Render(sym))
				continue
			}
			b.WriteString(styles[a].Render(sym))
		}
		lines = append(lines, b.String())
	}

	legend := make([]string, 0, len(m.legend)+1)
	legend = append(legend, lipgloss.NewStyle().Bold(true).Render("legend"))
	for _, a := range m.legend {
		legend = append(legend, fmt.Sprintf("%s %s", styles[a].Render(string(m.symbol[a])), a.Name))
	}
	legend = append(legend, fmt.Sprintf("%s %s", bgStyle.Render(string(backgroundSymbol)), "(nothing)"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
		lipgloss.NewStyle().PaddingLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, legend...)),
	)
}

func hexColor(c stage.Color) string {
	p := c.Premultiplied(255)
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}

// contrastColor picks black or white text for legibility on c.
func contrastColor(c stage.Color) string {
	if 0.299*c.R+0.587*c.G+0.114*c.B > 0.5 {
		return "#000000"
	}
	return "#ffffff"
}
