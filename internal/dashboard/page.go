// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dashboard

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/models"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Section is one question with its charts.
type Section struct {
	Question Question
	Charts   []Chart
}

// PageData feeds templates/page.html.
type PageData struct {
	Title        string
	Intro        string
	IntroBullets []string
	Decisions    []string
	Preview      *models.PreviewTable
	PreviewError string
	Questions    []Question
	Sections     []Section
	Rendered     time.Time
}

// Page assembles the dashboard page. A failing preview query does not fail
// the page; charts load separately through their SVG routes.
func (s *Service) Page(ctx context.Context) *PageData {
	data := &PageData{
		Title:        pageTitle,
		Intro:        pageIntro,
		IntroBullets: pageIntroBullets,
		Decisions:    decisionBullets,
		Questions:    Questions,
		Rendered:     time.Now().UTC(),
	}
	preview, err := s.Preview(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Preview query failed")
		data.PreviewError = "The data preview is unavailable."
	} else {
		data.Preview = preview
	}
	for _, q := range Questions {
		data.Sections = append(data.Sections, Section{Question: q, Charts: chartsFor(q.Number)})
	}
	return data
}

// RenderPage executes the page template.
func RenderPage(data *PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
