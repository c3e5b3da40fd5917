package supa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Row is a single record as returned by the REST API. Numeric values are
// json.Number so integer ids survive the round trip.
type Row map[string]any

// Querier is the read side of the remote store.
type Querier interface {
	Select(ctx context.Context, table, columns string, opts ...Option) ([]Row, error)
	SelectSingle(ctx context.Context, table, columns string, opts ...Option) (Row, error)
}

// Mutator is the write side of the remote store.
type Mutator interface {
	Insert(ctx context.Context, table string, payload any) ([]Row, error)
	Update(ctx context.Context, table string, patch any, opts ...Option) error
	Delete(ctx context.Context, table string, opts ...Option) error
}

// Store is the full remote-store handle injected into the components. A nil
// Store means the service runs in local mode.
type Store interface {
	Querier
	Mutator
}

// Option adds a filter or modifier to a single request.
type Option func(q url.Values)

// Eq filters rows where column equals value.
func Eq(column string, value any) Option {
	return func(q url.Values) { q.Set(column, "eq."+fmt.Sprint(value)) }
}

// Ilike filters rows where column matches the pattern case-insensitively.
func Ilike(column, pattern string) Option {
	return func(q url.Values) { q.Set(column, "ilike."+pattern) }
}

// Order sorts the result by column.
func Order(column string, desc bool) Option {
	dir := ".asc"
	if desc {
		dir = ".desc"
	}
	return func(q url.Values) { q.Set("order", column+dir) }
}

// Client talks to a PostgREST endpoint (the Supabase REST API). Every error
// it returns is an *Error carrying a Kind.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *Client) restURL(table string, opts []Option) string {
	q := url.Values{}
	for _, opt := range opts {
		opt(q)
	}
	u := c.baseURL + "/rest/v1/" + table
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (c *Client) do(ctx context.Context, method, rawURL string, body any, header http.Header) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindOther, Message: err.Error()}
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return nil, &Error{Kind: KindOther, Message: err.Error()}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransport(err)
	}
	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = resp.Status
		}
		return nil, &Error{Kind: ClassifyText(msg), Status: resp.StatusCode, Message: msg}
	}
	return data, nil
}

func decodeRows(data []byte) ([]Row, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []Row
	if err := dec.Decode(&rows); err != nil {
		return nil, &Error{Kind: KindOther, Message: "decoding response: " + err.Error()}
	}
	return rows, nil
}

func (c *Client) Select(ctx context.Context, table, columns string, opts ...Option) ([]Row, error) {
	opts = append([]Option{func(q url.Values) { q.Set("select", columns) }}, opts...)
	data, err := c.do(ctx, http.MethodGet, c.restURL(table, opts), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows(data)
}

func (c *Client) SelectSingle(ctx context.Context, table, columns string, opts ...Option) (Row, error) {
	opts = append([]Option{func(q url.Values) { q.Set("select", columns) }}, opts...)
	h := http.Header{}
	h.Set("Accept", "application/vnd.pgrst.object+json")
	data, err := c.do(ctx, http.MethodGet, c.restURL(table, opts), nil, h)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var row Row
	if err := dec.Decode(&row); err != nil {
		return nil, &Error{Kind: KindOther, Message: "decoding response: " + err.Error()}
	}
	return row, nil
}

func (c *Client) Insert(ctx context.Context, table string, payload any) ([]Row, error) {
	h := http.Header{}
	h.Set("Prefer", "return=representation")
	data, err := c.do(ctx, http.MethodPost, c.restURL(table, nil), payload, h)
	if err != nil {
		return nil, err
	}
	return decodeRows(data)
}

func (c *Client) Update(ctx context.Context, table string, patch any, opts ...Option) error {
	_, err := c.do(ctx, http.MethodPatch, c.restURL(table, opts), patch, nil)
	return err
}

func (c *Client) Delete(ctx context.Context, table string, opts ...Option) error {
	_, err := c.do(ctx, http.MethodDelete, c.restURL(table, opts), nil, nil)
	return err
}

// DecodeRows re-marshals generic rows into a typed slice or struct. The REST
// API always hands back maps; model types keep their json tags authoritative.
func DecodeRows(rows any, out any) error {
	buf, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}
