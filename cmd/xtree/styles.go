package main

import (
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	dim   lipgloss.Style
}

func newStyles() *styles {
	return &styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true),
		ok: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true),
		fail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
	}
}

func (s *styles) status(ok bool) string {
	if ok {
		return s.ok.Render("ok")
	}
	return s.fail.Render("FAIL")
}

func (s *styles) boolean(v bool) string {
	if v {
		return s.ok.Render("true")
	}
	return s.fail.Render("false")
}
