package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// DefaultPath is the plan creator route on the upstream host.
const DefaultPath = "/study_plan_creator"

const maxReplyBytes = 4 << 20

type HTTPOption func(*HTTPTransport)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) { t.client = c }
}

func WithPath(p string) HTTPOption {
	return func(t *HTTPTransport) {
		if p != "" {
			t.path = p
		}
	}
}

// HTTPTransport posts the request as multipart form data. It never retries
// and applies no timeout beyond the caller's context.
type HTTPTransport struct {
	client *http.Client
	base   *url.URL
	path   string
}

func NewHTTPTransport(baseURL string, opts ...HTTPOption) (*HTTPTransport, error) {
	if baseURL == "" {
		return nil, errors.New("upstream base url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("upstream url must be http(s): %q", baseURL)
	}
	t := &HTTPTransport{client: http.DefaultClient, base: u, path: DefaultPath}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Endpoint is the absolute URL requests are sent to.
func (t *HTTPTransport) Endpoint() string {
	u := *t.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(t.path, "/")
	return u.String()
}

func encodeForm(req Request) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := req.fields()
	if req.IsPublic {
		fields = append(fields, field{FieldIsPublic, "on"})
	}
	if req.Model != "" {
		fields = append(fields, field{FieldModel, req.Model})
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &body, mw.FormDataContentType(), nil
}

type wireReply struct {
	Response *string `json:"response"`
	Error    string  `json:"error"`
	PlanID   int64   `json:"plan_id"`
}

func (t *HTTPTransport) Send(ctx context.Context, req Request) (*Reply, error) {
	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint(), body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", contentType)

	res, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxReplyBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		se := &StatusError{Code: res.StatusCode, Message: msgGeneric}
		var wr wireReply
		if json.Unmarshal(raw, &wr) == nil && wr.Error != "" {
			se.Message = wr.Error
		}
		return nil, se
	}

	var wr wireReply
	if err := json.Unmarshal(raw, &wr); err != nil {
		return nil, &PayloadError{Reason: "decode json", Err: err}
	}
	if wr.Error != "" {
		return nil, &StatusError{Code: res.StatusCode, Message: wr.Error}
	}
	if wr.Response == nil {
		return nil, &PayloadError{Reason: `missing "response" field`}
	}
	return &Reply{Response: *wr.Response, PlanID: wr.PlanID}, nil
}
