package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = fmt.Sprintf("(%s %s)", a.session.DisplayName(), a.session.Role())
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to Resonance CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("rsn %s> ", a.getStatus())
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

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: courses, entries <courseId>, add <courseId>, record <entryId> <file>, submit <entryId>, delete <entryId>, feedback <entryId>, review <courseId>, sync, status, logout, exit")
			} else {
				fmt.Println("Available commands: login, devcode, exit")
			}

		case "login":
			a.login(ctx)
		case "devcode":
			a.devCode(ctx)
		case "logout":
			a.logout(ctx)
		case "courses":
			a.courses(ctx)
		case "entries":
			if len(args) == 0 {
				fmt.Println("Usage: entries <courseId>")
				continue
			}
			a.entries(ctx, args[0])
		case "add":
			if len(args) == 0 {
				fmt.Println("Usage: add <courseId>")
				continue
			}
			a.addEntry(ctx, args[0])
		case "record":
			if len(args) < 2 {
				fmt.Println("Usage: record <entryId> <file>")
				continue
			}
			a.record(ctx, args[0], args[1])
		case "submit":
			if len(args) == 0 {
				fmt.Println("Usage: submit <entryId>")
				continue
			}
			a.submit(ctx, args[0])
		case "delete":
			if len(args) == 0 {
				fmt.Println("Usage: delete <entryId>")
				continue
			}
			a.deleteEntry(ctx, args[0])
		case "feedback":
			if len(args) == 0 {
				fmt.Println("Usage: feedback <entryId>")
				continue
			}
			a.feedback(ctx, args[0])
		case "review":
			if len(args) == 0 {
				fmt.Println("Usage: review <courseId>")
				continue
			}
			a.review(ctx, args[0])
		case "sync":
			a.sync(ctx)
		case "status":
			a.status(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
