package notes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const collectionPath = "notes"

// List fetches the notes collection, filtered by title when opts.Search is set.
//
// The whole collection comes back in one response; mockapi.io's page/limit
// parameters are not sent.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]Note, error) {
	path := collectionPath
	if opts.Search != "" {
		path += "?title=" + encodeURIComponent(opts.Search)
	}

	var notes []Note
	if err := c.Send(ctx, Request{Method: http.MethodGet, Path: path}, &notes); err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// Create posts a new note and returns the server's representation of it,
// including the assigned id.
func (c *Client) Create(ctx context.Context, note Note) (Note, error) {
	var created Note
	if err := c.Send(ctx, Request{Method: http.MethodPost, Path: collectionPath, Data: note}, &created); err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	return created, nil
}

// Update replaces the note with the given id and returns the updated note.
func (c *Client) Update(ctx context.Context, id string, note Note) (Note, error) {
	var updated Note
	if err := c.Send(ctx, Request{Method: http.MethodPut, Path: notePath(id), Data: note}, &updated); err != nil {
		return nil, fmt.Errorf("updating note %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes the note with the given id. The result is whatever the API
// echoes back, or an empty Note for an empty body.
func (c *Client) Delete(ctx context.Context, id string) (Note, error) {
	var deleted Note
	if err := c.Send(ctx, Request{Method: http.MethodDelete, Path: notePath(id)}, &deleted); err != nil {
		return nil, fmt.Errorf("deleting note %s: %w", id, err)
	}
	return deleted, nil
}

func notePath(id string) string {
	return collectionPath + "/" + url.PathEscape(id)
}

// uriComponentUnescaper restores the characters encodeURIComponent leaves
// alone but url.QueryEscape escapes.
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s the way JavaScript's encodeURIComponent does:
// everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded.
func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}
