package surface

import (
	"net/http"

	"execassist-backend/pkg/config"
)

// Surface names, used in error and metric labels.
const (
	SurfaceMail     = "mail"
	SurfaceCalendar = "calendar"
	SurfaceDocs     = "docs"
	SurfaceSheets   = "sheets"
	SurfaceDrive    = "drive"
	SurfaceTasks    = "tasks"
)

// Set bundles the six gateways. All share one HTTP client so every
// outbound call carries the same bounded timeout.
type Set struct {
	Mail     *Gateway
	Calendar *Gateway
	Docs     *Gateway
	Sheets   *Gateway
	Drive    *Gateway
	Tasks    *Gateway
}

func NewSet(cfg *config.Config, tokens TokenProvider) *Set {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	return &Set{
		Mail:     NewGateway(SurfaceMail, cfg.MailBaseURL, []string{"GET", "POST", "PATCH", "DELETE"}, client, tokens),
		Calendar: NewGateway(SurfaceCalendar, cfg.CalendarBaseURL, []string{"GET", "POST", "PATCH", "DELETE"}, client, tokens),
		Docs:     NewGateway(SurfaceDocs, cfg.DocsBaseURL, []string{"GET", "POST"}, client, tokens),
		Sheets:   NewGateway(SurfaceSheets, cfg.SheetsBaseURL, []string{"GET", "POST", "PUT"}, client, tokens),
		Drive:    NewGateway(SurfaceDrive, cfg.DriveBaseURL, []string{"GET"}, client, tokens),
		Tasks:    NewGateway(SurfaceTasks, cfg.TasksBaseURL, []string{"GET", "POST", "PATCH", "DELETE"}, client, tokens),
	}
}
