package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/resonance-app/resonance/internal/client/models"
	"github.com/resonance-app/resonance/internal/common"
)

func (a *App) feedback(ctx context.Context, entryID string) {
	list, err := a.journal.PullFeedback(ctx, entryID)
	if err != nil {
		log.Println("could not fetch feedback:", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("No feedback yet.")
		return
	}
	for _, fb := range list {
		fmt.Printf("%s  %s  %s\n", fb.CreatedAt.Format("2006-01-02 15:04"), fb.TeacherName, fb.Status)
		fmt.Println(" ", fb.CommentsText)
		for _, m := range fb.Markers {
			fmt.Printf("  @%.0fs %s\n", m.TimeSeconds, m.Text)
		}
	}
}

func (a *App) review(ctx context.Context, courseID string) {
	if a.session.Role() != common.RoleTeacher {
		fmt.Println("Only teachers can review submissions.")
		return
	}

	queue, err := a.journal.ReviewQueue(ctx, courseID)
	if err != nil {
		log.Println("could not fetch review queue:", err)
		return
	}
	if len(queue) == 0 {
		fmt.Println("Nothing waiting for review.")
		return
	}

	for _, item := range queue {
		fmt.Printf("%s  %s  %s  (%d recordings)\n",
			item.ID, item.StudentName, item.GoalText, len(item.Artifacts))
	}

	entryID, err := GetSimpleText(a.reader, "Entry id to respond to (empty to skip)", os.Stdout)
	if err != nil || entryID == "" {
		return
	}
	a.postFeedback(ctx, entryID)
}

func (a *App) postFeedback(ctx context.Context, entryID string) {
	status, err := GetSimpleText(a.reader, "Status (ok/needs_revision/next_goal)", os.Stdout)
	if err != nil {
		log.Println("input error:", err)
		return
	}
	switch status {
	case models.FeedbackStatusOK, models.FeedbackStatusNeedsRevision, models.FeedbackStatusNextGoal:
	default:
		log.Println("invalid status:", status)
		return
	}

	comments, err := GetMultiline(a.reader, "Comments", os.Stdout)
	if err != nil || comments == "" {
		log.Println("comments are required")
		return
	}

	var markers []*models.Marker
	for {
		line, err := GetSimpleText(a.reader, "Marker as '<seconds> <text>' (empty to finish)", os.Stdout)
		if err != nil || line == "" {
			break
		}
		parts := strings.SplitN(line, " ", 2)
		secs, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || len(parts) < 2 {
			log.Println("invalid marker:", line)
			continue
		}
		markers = append(markers, &models.Marker{TimeSeconds: secs, Text: strings.TrimSpace(parts[1])})
	}

	fb, err := a.journal.PostFeedback(ctx, models.FeedbackTargetEntry, entryID, status, comments, markers)
	if err != nil {
		log.Println("could not post feedback:", err)
		return
	}

	fmt.Println("Feedback queued", fb.ID)
	a.requestSync()
}
