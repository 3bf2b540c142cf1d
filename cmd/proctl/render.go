package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/insan3d/proctl/internal/procli"
	"github.com/insan3d/proctl/internal/reconcile"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	svcNameStyle = lipgloss.NewStyle().Width(18)
)

func renderStatus(status *procli.Status) string {
	var b strings.Builder

	attachment := badStyle.Render("detached")
	if status.Attached {
		attachment = goodStyle.Render("attached")
	}
	b.WriteString(headerStyle.Render("Ubuntu Pro") + ": " + attachment + "\n")

	for _, svc := range status.Services {
		b.WriteString("  " + svcNameStyle.Render(svc.Name) + renderServiceState(svc.State) + "\n")
	}

	return b.String()
}

func renderServiceState(state procli.ServiceState) string {
	switch state {
	case procli.ServiceEnabled:
		return goodStyle.Render(string(state))
	case procli.ServiceDisabled:
		return mutedStyle.Render(string(state))
	case procli.ServiceNotApplicable:
		return mutedStyle.Render(string(state))
	default:
		return warnStyle.Render(string(state))
	}
}

func renderResult(name string, result *reconcile.Result, dryRun bool) string {
	var b strings.Builder

	summary := mutedStyle.Render("no changes")
	if result.Changed {
		summary = changedStyle.Render("changed")
		if dryRun {
			summary = changedStyle.Render("would change")
		}
	}

	attachment := "detached"
	if result.Attached {
		attachment = "attached"
	}

	b.WriteString(fmt.Sprintf("%s: %s (%s)\n", headerStyle.Render(name), summary, attachment))

	services := make([]string, 0, len(result.Services))
	for svc := range result.Services {
		services = append(services, svc)
	}
	sort.Strings(services)

	for _, svc := range services {
		outcome := result.Services[svc]
		b.WriteString("  " + svcNameStyle.Render(svc) + renderOutcome(outcome) + "\n")
	}

	return b.String()
}

func renderOutcome(outcome reconcile.Outcome) string {
	switch outcome.Status {
	case reconcile.OutcomeChanged:
		return changedStyle.Render(string(outcome.Status))
	case reconcile.OutcomeWouldChange:
		return changedStyle.Render(string(outcome.Status) + ": " + outcome.Reason)
	case reconcile.OutcomeFailed:
		return badStyle.Render(string(outcome.Status) + ": " + outcome.Reason)
	default:
		return mutedStyle.Render(string(outcome.Status))
	}
}
