package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) listModules(ctx context.Context) {
	modules := a.store.Modules()
	if len(modules) == 0 {
		fmt.Println("No modules yet.")
		return
	}
	for _, m := range modules {
		fmt.Printf("%s  %s\n", m.ID, m.Name)
	}
}

func (a *App) addModule(ctx context.Context) {
	if a.store.ActiveProjectID() == "" {
		fmt.Println("No active project.")
		return
	}
	name, err := getSimpleText(a.reader, "Module name", os.Stdout)
	if err != nil || name == "" {
		return
	}
	if err := a.backend.AddModule(ctx, a.store.ActiveProjectID(), name); err != nil {
		a.log.Error(ctx, "adding module", "error", err)
	}
}

func (a *App) renameModule(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: renamemodule <module-id>")
		return
	}
	name, err := getSimpleText(a.reader, "New module name", os.Stdout)
	if err != nil || name == "" {
		return
	}
	// Existing cases keep the old name; the module field on a case is a
	// plain string, not a reference.
	if err := a.backend.RenameModule(ctx, args[0], name); err != nil {
		a.log.Error(ctx, "renaming module", "error", err)
	}
}

func (a *App) deleteModule(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: delmodule <module-id>")
		return
	}
	if err := a.backend.DeleteModule(ctx, args[0]); err != nil {
		a.log.Error(ctx, "deleting module", "error", err)
	}
}
