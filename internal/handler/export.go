package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"

	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type ExportHandler struct {
	store store.WordStore
}

func NewExportHandler(st store.WordStore) *ExportHandler {
	return &ExportHandler{store: st}
}

// Export writes every stored word as a flashcard deck.
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	switch format {
	case "json", "csv", "md", "markdown":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use json, csv, or md"})
		return
	}

	records, err := h.store.List(c.Request.Context())
	if err != nil {
		log.Printf("Error listing words: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load words"})
		return
	}

	switch format {
	case "json":
		h.exportJSON(c, records)
	case "csv":
		h.exportCSV(c, records)
	default:
		h.exportMarkdown(c, records)
	}
}

func (h *ExportHandler) exportJSON(c *gin.Context, records []store.Record) {
	if records == nil {
		records = []store.Record{}
	}
	c.Header("Content-Disposition", "attachment; filename=wordbook.json")
	c.JSON(http.StatusOK, records)
}

func (h *ExportHandler) exportCSV(c *gin.Context, records []store.Record) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	// Header
	writer.Write([]string{"Word", "Definition", "Translation", "Created", "Updated"})

	for _, r := range records {
		writer.Write([]string{
			r.Word,
			r.Definition,
			r.Translation,
			r.CreatedDate.Format(dateLayout),
			r.UpdatedDate.Format(dateLayout),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=wordbook.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *ExportHandler) exportMarkdown(c *gin.Context, records []store.Record) {
	var buf bytes.Buffer

	buf.WriteString("# Wordbook\n\n")
	buf.WriteString(fmt.Sprintf("**Words:** %d\n\n", len(records)))

	for i, r := range records {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, r.Word))
		buf.WriteString(fmt.Sprintf("**Added:** %s\n\n", r.CreatedDate.Format(dateLayout)))
		buf.WriteString(r.Definition)
		buf.WriteString("\n\n")

		if r.Translation != "" {
			buf.WriteString("**번역:**\n\n")
			buf.WriteString(r.Translation)
			buf.WriteString("\n\n")
		}

		buf.WriteString("---\n\n")
	}

	c.Header("Content-Disposition", "attachment; filename=wordbook.md")
	c.Data(http.StatusOK, "text/markdown", buf.Bytes())
}
