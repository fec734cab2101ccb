package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/resonance-app/resonance/internal/client/models"
	"github.com/resonance-app/resonance/internal/filex"
)

func (a *App) courses(ctx context.Context) {
	list, err := a.journal.ListCourses(ctx)
	if err != nil {
		log.Println("could not list courses:", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("No courses cached; log in while online to fetch them.")
		return
	}
	for _, c := range list {
		fmt.Printf("%s  %s (%s)\n", c.ID, c.Title, c.RoleInCourse)
	}
}

func (a *App) entries(ctx context.Context, courseID string) {
	if err := a.journal.PullEntries(ctx, courseID); err != nil {
		log.Println("offline, showing local entries:", err)
	}

	list, err := a.journal.ListEntries(ctx, courseID)
	if err != nil {
		log.Println("could not list entries:", err)
		return
	}
	for _, e := range list {
		sync := ""
		if !e.Synced {
			sync = " [not synced]"
		}
		fmt.Printf("%s  %s  %s  %s%s\n",
			e.ID, e.PracticeDate.Format("2006-01-02"), e.Status, e.GoalText, sync)
	}
}

func (a *App) addEntry(ctx context.Context, courseID string) {
	goal, err := GetSimpleText(a.reader, "Practice goal", os.Stdout)
	if err != nil || goal == "" {
		log.Println("a goal is required")
		return
	}

	dateText, err := GetSimpleText(a.reader, "Practice date (YYYY-MM-DD, empty for today)", os.Stdout)
	if err != nil {
		log.Println("input error:", err)
		return
	}
	practiceDate := time.Now().UTC()
	if dateText != "" {
		practiceDate, err = time.Parse("2006-01-02", dateText)
		if err != nil {
			log.Println("invalid date:", err)
			return
		}
	}

	tagsText, err := GetSimpleText(a.reader, "Tags (comma separated, empty for none)", os.Stdout)
	if err != nil {
		log.Println("input error:", err)
		return
	}
	var tags []string
	for _, t := range strings.Split(tagsText, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	notesText, err := GetMultiline(a.reader, "Notes", os.Stdout)
	if err != nil {
		log.Println("input error:", err)
		return
	}
	var notes *string
	if notesText != "" {
		notes = &notesText
	}

	entry, err := a.journal.CreateEntry(ctx, courseID, practiceDate, goal, nil, tags, notes)
	if err != nil {
		log.Println("could not create entry:", err)
		return
	}

	fmt.Println("Created entry", entry.ID)
	a.requestSync()
}

func (a *App) record(ctx context.Context, entryID, path string) {
	if !filex.Exists(path) {
		log.Println("file not found:", path)
		return
	}

	artifactType := models.ArtifactTypeAudio
	if strings.HasSuffix(strings.ToLower(path), ".mp4") {
		artifactType = models.ArtifactTypeVideo
	}

	durText, err := GetSimpleText(a.reader, "Duration in seconds", os.Stdout)
	if err != nil {
		log.Println("input error:", err)
		return
	}
	duration, err := strconv.Atoi(durText)
	if err != nil || duration < 0 {
		log.Println("invalid duration")
		return
	}

	artifact, err := a.journal.AddArtifact(ctx, entryID, artifactType, path, duration)
	if err != nil {
		log.Println("could not add recording:", err)
		return
	}

	fmt.Println("Queued recording", artifact.ID, "for upload")
	a.requestSync()
}

func (a *App) submit(ctx context.Context, entryID string) {
	if err := a.journal.SubmitEntry(ctx, entryID); err != nil {
		log.Println("could not submit:", err)
		return
	}
	fmt.Println("Submission queued; it becomes final once synced.")
	a.requestSync()
}

func (a *App) deleteEntry(ctx context.Context, entryID string) {
	if err := a.journal.DeleteEntry(ctx, entryID); err != nil {
		log.Println("could not delete:", err)
		return
	}
	fmt.Println("Entry deleted locally; server removal queued.")
	a.requestSync()
}
