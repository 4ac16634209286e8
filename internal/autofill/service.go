// Package autofill wires the classifier, page parser, form filler and page
// fetcher together for the ptfill CLI and the ptfilld HTTP service.
package autofill

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pt-autofill/internal/classifier"
	"pt-autofill/internal/fetch"
	"pt-autofill/internal/form"
	"pt-autofill/internal/models"
	"pt-autofill/internal/parser"
	"pt-autofill/pkg/logger"
)

type Service struct {
	cl     *classifier.Classifier
	par    *parser.Parser
	filler *form.Filler
	client *fetch.HTTPClient
	log    *logger.Logger
}

func New(profile form.Profile, client *fetch.HTTPClient, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	cl := classifier.New()
	return &Service{
		cl:     cl,
		par:    parser.New(),
		filler: form.NewFiller(cl, profile, log),
		client: client,
		log:    log,
	}
}

func (s *Service) Classify(metadata, title string) models.Classification {
	return s.cl.Classify(metadata, title)
}

// ClassifyBatch classifies payloads with at most concurrency workers. Results
// keep the input order; invalid payloads carry an error instead of a class.
func (s *Service) ClassifyBatch(ctx context.Context, items []models.Payload, concurrency int) []models.ClassifyResult {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]models.ClassifyResult, len(items))

	sem := make(chan struct{}, concurrency)
	done := make(chan int, len(items))

	for i, p := range items {
		sem <- struct{}{} // acquire
		go func() {
			defer func() { <-sem; done <- i }()
			if err := ctx.Err(); err != nil {
				results[i] = models.ClassifyResult{Title: p.Title, Error: err.Error()}
				return
			}
			if err := p.Validate(); err != nil {
				results[i] = models.ClassifyResult{Title: p.Title, Error: err.Error()}
				return
			}
			c := s.cl.Classify(p.MediaInfo, p.Title)
			results[i] = models.ClassifyResult{Title: p.Title, Class: &c}
		}()
	}
	for range items {
		<-done
	}
	return results
}

// LoadPage reads an upload page from an http(s) URL or a local file.
func (s *Service) LoadPage(ctx context.Context, src string) (*goquery.Document, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if s.client == nil {
			return nil, fmt.Errorf("fetch %s: no http client configured", src)
		}
		body, finalURL, ct, elapsed, err := s.client.Fetch(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src, err)
		}
		defer body.Close()
		s.log.Debugf("fetched %s in %s", finalURL, elapsed)
		return s.ParsePage(body, ct)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.ParsePage(f, "")
}

func (s *Service) ParsePage(r io.Reader, contentType string) (*goquery.Document, error) {
	doc, err := s.par.Load(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

func (s *Service) Inspect(doc *goquery.Document) models.UploadPage {
	return s.par.Extract(doc)
}

// Fill applies one of the fill modes to doc in place. The payload is only
// needed for the json mode.
func (s *Service) Fill(doc *goquery.Document, mode string, p *models.Payload) (models.FillResult, *form.HTMLForm, error) {
	f := form.NewHTMLForm(doc)
	switch mode {
	case "", form.ModeJSON:
		if p == nil {
			return models.FillResult{}, nil, models.ErrInvalidPayload
		}
		res, err := s.filler.FillJSON(f, *p)
		if err != nil {
			return models.FillResult{}, nil, err
		}
		s.logResult(res)
		return res, f, nil
	case form.ModeTitle:
		res := s.filler.FillTitle(f)
		s.logResult(res)
		return res, f, nil
	default:
		return models.FillResult{}, nil, fmt.Errorf("unknown fill mode %q", mode)
	}
}

func (s *Service) logResult(res models.FillResult) {
	n := 0
	for _, a := range res.Assignments {
		if a.Applied {
			n++
		}
	}
	s.log.Infof("%s fill: %d of %d fields applied", res.Mode, n, len(res.Assignments))
	if len(res.Missing) > 0 {
		s.log.Warnf("%s fill: not applied: %s", res.Mode, strings.Join(res.Missing, ", "))
	}
}
