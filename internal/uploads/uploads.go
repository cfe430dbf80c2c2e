// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploads sends file attachments to the backend ahead of a chat
// message. Files are validated locally (size, count, mime type) before any
// bytes leave the machine.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/jeranaias/widgetchat/internal/api"
	"github.com/jeranaias/widgetchat/internal/model"
)

// =============================================================================
// LIMITS
// =============================================================================

const (
	// MaxFileSize is the per-file ceiling.
	MaxFileSize = 5 * 1024 * 1024

	// MaxFiles is the most attachments one message may carry.
	MaxFiles = 5
)

// allowedDocumentTypes lists non-image mime types accepted as attachments.
// Any image/* type is accepted without being listed.
var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"text/plain": true,
	"text/csv":   true,
}

// File is one attachment candidate supplied by the caller.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Validate checks one file against the local rules.
func (f *File) Validate() error {
	if len(f.Data) > MaxFileSize {
		return fmt.Errorf("file %q exceeds the %dMB limit", f.Name, MaxFileSize/(1024*1024))
	}
	if !strings.HasPrefix(f.MimeType, "image/") && !allowedDocumentTypes[f.MimeType] {
		return fmt.Errorf("file type %q is not supported", f.MimeType)
	}
	return nil
}

// =============================================================================
// UPLOADS CLIENT
// =============================================================================

// Client wraps the transport for the upload endpoints.
type Client struct {
	api *api.Client
}

// NewClient creates an uploads client over the shared transport.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// singleResponse is the backend's single-upload shape.
type singleResponse struct {
	OK         bool              `json:"ok"`
	Attachment *model.Attachment `json:"attachment"`
}

// multiResponse is the backend's multi-upload shape.
type multiResponse struct {
	OK          bool                `json:"ok"`
	Attachments []*model.Attachment `json:"attachments"`
}

// Upload sends one file and returns its stored attachment record.
func (c *Client) Upload(ctx context.Context, file *File) (*model.Attachment, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := encodeForm("file", []*File{file})
	if err != nil {
		return nil, err
	}

	var out singleResponse
	if err := c.api.DoMultipart(ctx, "/uploads", body, contentType, &out); err != nil {
		return nil, err
	}
	if !out.OK || out.Attachment == nil {
		return nil, fmt.Errorf("upload of %q was rejected", file.Name)
	}
	return out.Attachment, nil
}

// UploadMultiple sends up to MaxFiles files in one request.
func (c *Client) UploadMultiple(ctx context.Context, files []*File) ([]*model.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > MaxFiles {
		return nil, fmt.Errorf("too many files: %d (max %d)", len(files), MaxFiles)
	}
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	body, contentType, err := encodeForm("files", files)
	if err != nil {
		return nil, err
	}

	var out multiResponse
	if err := c.api.DoMultipart(ctx, "/uploads/multiple", body, contentType, &out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("upload of %d files was rejected", len(files))
	}
	return out.Attachments, nil
}

// encodeForm builds the multipart body. The returned content type carries
// the boundary; the transport attaches it verbatim instead of its JSON
// default.
func encodeForm(fieldName string, files []*File) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := writer.CreateFormFile(fieldName, f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
