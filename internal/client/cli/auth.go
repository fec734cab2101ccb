package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/resonance-app/resonance/internal/common"
)

func (a *App) login(ctx context.Context) {
	code, err := GetSimpleText(a.reader, "Enter auth code", os.Stdout)
	if err != nil {
		log.Println("input error:", err)
		return
	}

	user, err := a.authService.Login(ctx, code)
	if err != nil {
		log.Println("login failed:", err)
		return
	}

	fmt.Printf("Logged in as %s (%s)\n", user.DisplayName, user.GlobalRole)

	if _, err := a.journal.PullCourses(ctx); err != nil {
		log.Println("could not fetch courses:", err)
	}
	a.requestSync()
}

// devCode asks the server to mint a development auth code. Only works
// against a server running in dev auth mode.
func (a *App) devCode(ctx context.Context) {
	role, err := GetSimpleText(a.reader, "Role (student/teacher)", os.Stdout)
	if err != nil {
		log.Println("input error:", err)
		return
	}
	if role == "" {
		role = common.RoleStudent
	}

	code, err := a.authService.IssueDevCode(ctx, role)
	if err != nil {
		log.Println("could not issue code:", err)
		return
	}
	fmt.Println("Auth code:", code)
}

func (a *App) logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		log.Println("logout failed:", err)
		return
	}
	fmt.Println("Logged out")
}
