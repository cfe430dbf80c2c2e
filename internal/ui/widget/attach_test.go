// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/widgetchat/internal/api"
	"github.com/jeranaias/widgetchat/internal/config"
	"github.com/jeranaias/widgetchat/internal/i18n"
	"github.com/jeranaias/widgetchat/internal/model"
	"github.com/jeranaias/widgetchat/internal/store"
	"github.com/jeranaias/widgetchat/internal/uploads"
)

func TestAttachCmd_UploadsFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploads" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else if header.Filename != "notes.txt" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Write([]byte(`{"ok":true,"attachment":{"url":"https://cdn/notes","key":"k1","filename":"notes.txt","mimeType":"text/plain","sizeBytes":5}}`))
	}))
	defer server.Close()

	m := Model{deps: Deps{Uploads: uploads.NewClient(api.NewClient(server.URL))}}

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	msg, ok := m.attachCmd(path)().(attachDoneMsg)
	if !ok {
		t.Fatal("expected attachDoneMsg")
	}
	if msg.Err != nil {
		t.Fatalf("attach failed: %v", msg.Err)
	}
	if msg.Attachment.Filename != "notes.txt" || msg.Attachment.URL == "" {
		t.Errorf("attachment = %+v", msg.Attachment)
	}
}

func TestAttachCmd_MissingFile(t *testing.T) {
	m := Model{deps: Deps{}}

	msg := m.attachCmd(filepath.Join(t.TempDir(), "absent.txt"))().(attachDoneMsg)
	if msg.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAttachCmd_RejectedTypeNeverUploads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server for a disallowed file type")
	}))
	defer server.Close()

	m := Model{deps: Deps{Uploads: uploads.NewClient(api.NewClient(server.URL))}}

	path := filepath.Join(t.TempDir(), "tool.exe")
	if err := os.WriteFile(path, []byte{0x4d, 0x5a}, 0644); err != nil {
		t.Fatal(err)
	}

	msg := m.attachCmd(path)().(attachDoneMsg)
	if msg.Err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSubmit_CarriesPendingAttachments(t *testing.T) {
	cfg := config.Default()
	cfg.Usage.Enabled = false

	deps := Deps{
		Config:     cfg,
		Translator: i18n.New("en"),
		Store:      store.NewStore(t.TempDir()),
	}
	m := New(deps)
	m.pending = []model.Attachment{{Filename: "notes.txt", URL: "https://cdn/notes"}}
	m.input.SetValue("see attached")

	next, cmd, handled := m.submit()
	if !handled || cmd == nil {
		t.Fatal("submit did not start a send")
	}

	nm := next.(Model)
	if len(nm.pending) != 0 {
		t.Error("staged attachments not cleared after submit")
	}

	msgs := deps.Store.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if len(msgs[0].Attachments) != 1 || msgs[0].Attachments[0].Filename != "notes.txt" {
		t.Errorf("user message attachments = %+v", msgs[0].Attachments)
	}
}
