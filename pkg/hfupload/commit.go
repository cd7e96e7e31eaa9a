// Package hfupload implements the hub's NDJSON commit wire format
// (spec §6): one JSON object per line, POSTed as application/x-ndjson
// to the commit endpoint. It is a thin, separate subsystem sharing only
// pkg/hfhttp with pkg/dataset.
package hfupload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

// Operation is one line of an NDJSON commit payload.
type Operation interface {
	commitLine() (key string, value interface{})
}

// HeaderOperation is always the first line of a commit (spec §6).
type HeaderOperation struct {
	Summary     string
	Description string
}

func (h HeaderOperation) commitLine() (string, interface{}) {
	return "header", map[string]string{"summary": h.Summary, "description": h.Description}
}

// FileOperation uploads or replaces a regular file's content, base64
// encoded (spec §6), grounded on huggingface_api.go's Commit.
type FileOperation struct {
	Path    string
	Content []byte
}

func (f FileOperation) commitLine() (string, interface{}) {
	return "file", map[string]string{
		"content":  base64.StdEncoding.EncodeToString(f.Content),
		"path":     f.Path,
		"encoding": "base64",
	}
}

// DeletedFileOperation removes a file in this commit.
type DeletedFileOperation struct {
	Path string
}

func (d DeletedFileOperation) commitLine() (string, interface{}) {
	return "deletedFile", map[string]string{"path": d.Path}
}

// LFSFileOperation references a large file already uploaded to LFS
// storage by its sha256 object id.
type LFSFileOperation struct {
	Path string
	Oid  string
	Size int64
}

func (l LFSFileOperation) commitLine() (string, interface{}) {
	return "lfsFile", map[string]interface{}{
		"path": l.Path,
		"algo": "sha256",
		"oid":  l.Oid,
		"size": l.Size,
	}
}

// CommitOptions controls one Commit call.
type CommitOptions struct {
	Endpoint    string
	Revision    string
	AuthToken   string
	Summary     string
	Description string
}

func (o CommitOptions) resolveEndpoint() string {
	if o.Endpoint != "" {
		return o.Endpoint
	}
	return "https://huggingface.co"
}

func (o CommitOptions) resolveRevision() string {
	if o.Revision != "" {
		return o.Revision
	}
	return "main"
}

// Commit builds one NDJSON line per operation, prefixed by a header
// line, and POSTs it to <endpoint>/api/datasets/<repo>/commit/<revision>
// (spec §6).
func Commit(ctx context.Context, client hfhttp.Client, repoID string, opts CommitOptions, operations ...Operation) error {
	var buf bytes.Buffer

	header := HeaderOperation{Summary: opts.Summary, Description: opts.Description}
	if err := writeLine(&buf, header); err != nil {
		return fmt.Errorf("hfupload: encoding header line: %w", err)
	}
	for _, op := range operations {
		if err := writeLine(&buf, op); err != nil {
			return fmt.Errorf("hfupload: encoding operation line: %w", err)
		}
	}

	url := fmt.Sprintf("%s/api/datasets/%s/commit/%s", opts.resolveEndpoint(), repoID, opts.resolveRevision())

	headers := http.Header{}
	headers.Set("Content-Type", "application/x-ndjson")
	if opts.AuthToken != "" {
		headers.Set("Authorization", "Bearer "+opts.AuthToken)
	}

	resp, err := client.Do(ctx, &hfhttp.Request{
		Method:          http.MethodPost,
		URL:             url,
		Headers:         headers,
		Body:            buf.Bytes(),
		FollowRedirects: true,
	})
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hfupload: commit failed with status %d", resp.StatusCode)
	}
	return nil
}

func writeLine(buf *bytes.Buffer, op Operation) error {
	key, value := op.commitLine()
	encoded, err := json.Marshal(map[string]interface{}{"key": key, "value": value})
	if err != nil {
		return err
	}
	buf.Write(encoded)
	buf.WriteByte('\n')
	return nil
}
