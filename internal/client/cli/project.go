package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zentesthq/zentest/internal/models"
)

func (a *App) listProjects(ctx context.Context) {
	projects := a.store.Projects()
	if len(projects) == 0 {
		fmt.Println("No projects visible. Use 'newproject' to create one.")
		return
	}
	active := a.store.ActiveProjectID()
	for _, p := range projects {
		marker := " "
		if p.ID == active {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s (%s)\n", marker, p.Initial, p.Name, p.ID)
	}
}

func (a *App) useProject(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: use <project-id>")
		return
	}
	id := args[0]
	found := false
	for _, p := range a.store.Projects() {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		fmt.Println("Unknown project:", id)
		return
	}
	a.manager.SetActiveProject(ctx, id)
	a.selected = make(map[string]bool)
}

// initialFor derives the two-letter avatar shown next to the project name.
func initialFor(name string) string {
	fields := strings.Fields(name)
	switch {
	case len(fields) >= 2:
		return strings.ToUpper(fields[0][:1] + fields[1][:1])
	case len(name) >= 2:
		return strings.ToUpper(name[:2])
	case len(name) == 1:
		return strings.ToUpper(name)
	default:
		return "??"
	}
}

func (a *App) newProject(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Project name", os.Stdout)
	if err != nil || name == "" {
		return
	}
	colorHex, err := getSimpleText(a.reader, "Color (hex, empty for default)", os.Stdout)
	if err != nil {
		return
	}
	if colorHex == "" {
		colorHex = "#3b82f6"
	}

	id, err := a.backend.SaveProject(ctx, models.Project{
		Name:    name,
		Color:   colorHex,
		Initial: initialFor(name),
	}, true, a.identity())
	if err != nil {
		a.log.Error(ctx, "creating project", "error", err)
		return
	}
	fmt.Println("Created project", id)
}

func (a *App) renameProject(ctx context.Context) {
	p, ok := a.store.ActiveProject()
	if !ok {
		fmt.Println("No active project.")
		return
	}
	name, err := getSimpleText(a.reader, fmt.Sprintf("New name for %q", p.Name), os.Stdout)
	if err != nil || name == "" {
		return
	}
	p.Name = name
	p.Initial = initialFor(name)
	if _, err := a.backend.SaveProject(ctx, p, false, a.identity()); err != nil {
		a.log.Error(ctx, "renaming project", "error", err)
	}
}

func (a *App) joinProject(ctx context.Context) {
	id, err := getSimpleText(a.reader, "Enter the project id you were invited to", os.Stdout)
	if err != nil || id == "" {
		return
	}
	if err := a.backend.JoinProject(ctx, id, a.identity()); err != nil {
		errorText.Printf("Join unsuccessful: %s\n", err)
		return
	}
	fmt.Println("Joined. The project appears once the catalog refreshes.")
}

func (a *App) leaveProject(ctx context.Context) {
	p, ok := a.store.ActiveProject()
	if !ok {
		fmt.Println("No active project.")
		return
	}
	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Leave %q? (yes/no)", p.Name), os.Stdout)
	if err != nil || confirm != "yes" {
		return
	}
	if err := a.backend.LeaveProject(ctx, p.ID, a.identity()); err != nil {
		a.log.Error(ctx, "leaving project", "error", err)
	}
}

func (a *App) deleteProject(ctx context.Context) {
	p, ok := a.store.ActiveProject()
	if !ok {
		fmt.Println("No active project.")
		return
	}
	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Delete project %q? (yes/no)", p.Name), os.Stdout)
	if err != nil || confirm != "yes" {
		return
	}
	if err := a.backend.DeleteProject(ctx, p.ID); err != nil {
		a.log.Error(ctx, "deleting project", "error", err)
	}
}
