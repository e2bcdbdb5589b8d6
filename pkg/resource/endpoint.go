package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Endpoint binds a Client to one named collection and gives it a typed CRUD
// surface.
type Endpoint[T any] struct {
	client     *Client
	collection string
}

// NewEndpoint creates a typed endpoint for a collection, e.g.
// NewEndpoint[domain.InventoryItem](client, "inventory").
func NewEndpoint[T any](client *Client, collection string) *Endpoint[T] {
	return &Endpoint[T]{client: client, collection: collection}
}

// List fetches every resource in the collection. Stores answer either with a
// bare array or with a `{"<collection>": [...]}` envelope; both shapes are
// normalized here and never leak past this boundary.
func (e *Endpoint[T]) List(ctx context.Context) ([]T, error) {
	var raw json.RawMessage
	if err := e.client.Do(ctx, http.MethodGet, "/"+e.collection, nil, &raw); err != nil {
		return nil, err
	}
	return decodeCollection[T](raw, e.collection)
}

// Get fetches a single resource by id. Returns ErrNotFound if absent.
func (e *Endpoint[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := e.client.Do(ctx, http.MethodGet, "/"+e.collection+"/"+id, nil, &out)
	return out, err
}

// Create persists a new resource and returns it with its server-assigned id.
func (e *Endpoint[T]) Create(ctx context.Context, body T) (T, error) {
	var out T
	err := e.client.Do(ctx, http.MethodPost, "/"+e.collection, body, &out)
	return out, err
}

// Update replaces the resource with the given id.
func (e *Endpoint[T]) Update(ctx context.Context, id string, body T) (T, error) {
	var out T
	err := e.client.Do(ctx, http.MethodPut, "/"+e.collection+"/"+id, body, &out)
	return out, err
}

// Delete removes the resource with the given id.
func (e *Endpoint[T]) Delete(ctx context.Context, id string) error {
	return e.client.Do(ctx, http.MethodDelete, "/"+e.collection+"/"+id, nil, nil)
}

func decodeCollection[T any](raw json.RawMessage, collection string) ([]T, error) {
	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response shape for collection %q: %w", collection, err)
	}
	inner, ok := envelope[collection]
	if !ok {
		return nil, fmt.Errorf("response envelope is missing collection %q", collection)
	}
	if err := json.Unmarshal(inner, &list); err != nil {
		return nil, fmt.Errorf("failed to decode collection %q: %w", collection, err)
	}
	return list, nil
}
