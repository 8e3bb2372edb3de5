// Package client holds interactive helpers for the ReelPlan shell.
package client

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/reelplan/reelplan/internal/models"
)

// PromptForTask interactively collects a calendar task draft from
// stdin. The draft carries no ID yet; validation happens on create.
func PromptForTask() models.CalendarTask {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Enter date (YYYY-MM-DD): ")
	scanner.Scan()
	date := strings.TrimSpace(scanner.Text())

	fmt.Print("Enter hour (HH:MM): ")
	scanner.Scan()
	hour := strings.TrimSpace(scanner.Text())

	fmt.Print("Enter type (publish/record/idea): ")
	scanner.Scan()
	typeStr := strings.TrimSpace(scanner.Text())

	fmt.Print("Enter title: ")
	scanner.Scan()
	title := strings.TrimSpace(scanner.Text())

	return models.CalendarTask{
		Date:      date,
		Hour:      hour,
		Type:      models.TaskType(typeStr),
		Title:     title,
		CreatedBy: models.OriginUser,
	}
}
