package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zentesthq/zentest/internal/client/identity"
)

func (a *App) getStatus() string {
	st, id := a.resolver.Current()
	s := ""
	switch st {
	case identity.StateGuest:
		s = "guest"
	case identity.StateAuthenticated:
		s = id.AuditName()
	default:
		return ""
	}
	if p, ok := a.store.ActiveProject(); ok {
		s = s + " " + p.Name
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to ZenTest CLI (type 'help' for commands)")
	if !a.resolver.Configured() {
		fmt.Println("Running without a server. Type 'guest' to open the demo workspace.")
	}
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("zt %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if !a.isSignedIn() {
			switch cmd {
			case "help":
				fmt.Println("Available commands: register, login, guest, exit")
			case "register":
				a.Register(ctx)
			case "login":
				a.Login(ctx)
			case "guest":
				a.Guest(ctx)
			case "exit", "quit":
				fmt.Println("Bye!")
				return
			default:
				fmt.Println("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "help":
			fmt.Println("Projects:  projects, use <id>, newproject, renameproject, join, leave, delproject")
			fmt.Println("Modules:   modules, addmodule, renamemodule <id>, delmodule <id>")
			fmt.Println("Cases:     (l)ist, show <id>, add, script <id>, delete <id>, status <id> <status>")
			fmt.Println("API:       api, showapi <id>, addapi, delapi <id>")
			fmt.Println("Runs:      run <id>, select <id>|all|none, bulk, delselected")
			fmt.Println("Views:     search <text>, filter <status>, export [functional|api], genscript <file>")
			fmt.Println("Session:   logout, exit")

		case "projects":
			a.listProjects(ctx)
		case "use":
			a.useProject(ctx, args)
		case "newproject":
			a.newProject(ctx)
		case "renameproject":
			a.renameProject(ctx)
		case "join":
			a.joinProject(ctx)
		case "leave":
			a.leaveProject(ctx)
		case "delproject":
			a.deleteProject(ctx)

		case "modules":
			a.listModules(ctx)
		case "addmodule":
			a.addModule(ctx)
		case "renamemodule":
			a.renameModule(ctx, args)
		case "delmodule":
			a.deleteModule(ctx, args)

		case "l", "list":
			a.listCases(ctx)
		case "show":
			a.showCase(ctx, args)
		case "add":
			a.addCase(ctx)
		case "script":
			a.editScript(ctx, args)
		case "delete":
			a.deleteCase(ctx, args)
		case "status":
			a.setStatus(ctx, args)

		case "api":
			a.listAPICases(ctx)
		case "showapi":
			a.showAPICase(ctx, args)
		case "addapi":
			a.addAPICase(ctx)
		case "delapi":
			a.deleteAPICase(ctx, args)

		case "run":
			a.runCase(ctx, args)
		case "select":
			a.toggleSelect(ctx, args)
		case "bulk":
			a.runBulk(ctx)
		case "delselected":
			a.deleteSelected(ctx)

		case "search":
			a.setSearch(args)
		case "filter":
			a.setFilter(args)
		case "export":
			a.exportCSV(ctx, args)
		case "genscript":
			a.genScript(ctx, args)

		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
