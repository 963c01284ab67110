package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/russross/blackfriday/v2"
)

// DocsHandler serves the Markdown docs under docs/ as themed HTML
type DocsHandler struct{}

// NewDocsHandler creates a new docs handler
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// Only these documents are reachable over HTTP
var allowedDocs = map[string]string{
	"API": "api.md",
}

// ServeMarkdownAsHTML handles GET /doc/:doc
func (h *DocsHandler) ServeMarkdownAsHTML(c *gin.Context) {
	docName := c.Param("doc")
	if docName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document name required"})
		return
	}

	fileName, exists := allowedDocs[docName]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	content, err := os.ReadFile(filepath.Join("docs", fileName))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	extensions := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	htmlContent := blackfriday.Run(content, blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, wrapWithTheme(string(htmlContent), strings.ReplaceAll(docName, "_", " ")))
}

// wrapWithTheme wraps rendered documentation in a minimal page shell
func wrapWithTheme(content, title string) string {
	return `<!DOCTYPE html>
<html lang="pl">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + title + ` - Grill Ekstraklasa</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #222;
            background: #f8f9fa;
            max-width: 900px;
            margin: 0 auto;
            padding: 2rem;
        }
        pre, code {
            background: #eef0f2;
            border-radius: 4px;
            padding: 2px 4px;
        }
        pre { padding: 1rem; overflow-x: auto; }
        h1, h2, h3 { margin-top: 1.5rem; }
        table { border-collapse: collapse; }
        th, td { border: 1px solid #ccc; padding: 6px 10px; }
    </style>
</head>
<body>
` + content + `
</body>
</html>`
}
