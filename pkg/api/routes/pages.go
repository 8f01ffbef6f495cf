package routes

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/crowding/pkg/crowding"
	"github.com/travigo/crowding/pkg/ctdf"
	"golang.org/x/exp/slices"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"deref": func(value *float64) float64 { return *value },
}).ParseFS(templateFiles, "templates/*.html"))

type indexPage struct {
	Title    string
	Lines    []lineOption
	Stations []string
}

type lineOption struct {
	ID   string
	Name string
}

type crowdingPage struct {
	Title     string
	Result    *ctdf.CrowdingResult
	Direction string
	Error     string
}

func PagesRouter(router fiber.Router, service *crowding.Service) {
	router.Get("/", indexPageHandler(service))
	router.Get("/crowding", crowdingPageHandler(service))
}

func indexPageHandler(service *crowding.Service) fiber.Handler {
	page := indexPage{Title: "Tube carriage crowding"}

	for _, line := range service.Catalog().Lines() {
		page.Lines = append(page.Lines, lineOption{ID: line.ID, Name: line.Name})

		for _, station := range line.Stations {
			if !slices.Contains(page.Stations, station.ShortName()) {
				page.Stations = append(page.Stations, station.ShortName())
			}
		}
	}
	slices.Sort(page.Stations)

	return func(c *fiber.Ctx) error {
		return render(c, "index.html", page)
	}
}

func crowdingPageHandler(service *crowding.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := crowdingPage{Title: "Tube carriage crowding"}

		selection, err := service.ResolveSelection(c.Query("line"), c.Query("station"), c.Query("direction"))
		if err == nil {
			page.Result, err = service.GetCrowding(c.UserContext(), selection)
		}

		if err != nil {
			status, _ := statusForError(err)
			c.Status(status)

			page.Error = err.Error()
			return render(c, "crowding.html", page)
		}

		line, _ := service.Catalog().Lookup(selection.LineID)
		page.Title = fmt.Sprintf("%s line at %s", page.Result.LineName, page.Result.StationName)
		page.Direction = fmt.Sprintf("%s (%s)", selection.Direction, line.CompassCode(selection.Direction))

		return render(c, "crowding.html", page)
	}
}

func render(c *fiber.Ctx, name string, data any) error {
	var body bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(body.Bytes())
}
