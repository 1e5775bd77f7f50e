package views

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

// FS holds the html templates fiber renders outside the templ pages.
//
//go:embed *.html
var FS embed.FS

// NewEngine returns the template engine over the embedded html templates.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(FS), ".html")
}

func pageTitle(title string) string {
	if title == "" {
		return ""
	}
	return " | " + title
}

func noticeType(msg fiber.Map) string {
	if t, ok := msg["type"].(string); ok && t != "" {
		return t
	}
	return "info"
}

func noticeMessage(msg fiber.Map) string {
	if msg == nil || msg["message"] == nil {
		return ""
	}
	return fmt.Sprint(msg["message"])
}
