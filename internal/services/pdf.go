package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"
)

const pdfMaxRetries = 3

// PDFService converts rendered DOCX bytes to PDF through Gotenberg. It
// implements generate.Converter.
type PDFService struct {
	client  *gotenberg.Client
	timeout time.Duration
	log     zerolog.Logger
}

func NewPDFService(gotenbergURL string, timeout time.Duration, log zerolog.Logger) (*PDFService, error) {
	httpClient := &http.Client{
		Timeout: timeout,
	}

	client, err := gotenberg.NewClient(gotenbergURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg client: %w", err)
	}

	return &PDFService{
		client:  client,
		timeout: timeout,
		log:     log,
	}, nil
}

// Convert runs a LibreOffice conversion with retries. Each attempt rebuilds
// the request document since the reader is consumed on send.
func (s *PDFService) Convert(ctx context.Context, filename string, data []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= pdfMaxRetries; attempt++ {
		result, err := s.convertOnce(ctx, filename, data)
		if err == nil {
			return result, nil
		}
		lastErr = err
		s.log.Warn().Err(err).Int("attempt", attempt).Str("filename", filename).
			Msg("pdf conversion attempt failed")

		if attempt < pdfMaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	return nil, fmt.Errorf("failed to convert document after %d attempts: %w", pdfMaxRetries, lastErr)
}

func (s *PDFService) convertOnce(ctx context.Context, filename string, data []byte) ([]byte, error) {
	convertCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := document.FromReader(filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create document from reader: %w", err)
	}

	req := gotenberg.NewLibreOfficeRequest(doc)
	resp, err := s.client.Send(convertCtx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted document: %w", err)
	}
	return result, nil
}
