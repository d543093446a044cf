package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
)

// Endpoint performs the list/create/update/remove/reorder calls for one
// entity type.
type Endpoint[T any] struct {
	client *Client
	res    Resource
}

// NewEndpoint binds an entity type to its resource routes.
func NewEndpoint[T any](c *Client, res Resource) *Endpoint[T] {
	return &Endpoint[T]{client: c, res: res}
}

// Resource returns the routes the endpoint uses.
func (e *Endpoint[T]) Resource() Resource {
	return e.res
}

type listBody[T any] struct {
	List       []T     `json:"list"`
	TotalCount FlexInt `json:"totalCount"`
}

// listEnvelope accepts {data:{list,totalCount}} and a bare {list,totalCount}.
type listEnvelope[T any] struct {
	Data       *listBody[T] `json:"data"`
	List       []T          `json:"list"`
	TotalCount FlexInt      `json:"totalCount"`
}

// List fetches one page. A 404 is an empty result, not an error.
func (e *Endpoint[T]) List(ctx context.Context, p ListParams) (Page[T], error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(p.Offset))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Text != "" {
		q.Set("text", p.Text)
	}
	if p.Scope != "" && e.res.ScopeParam != "" {
		q.Set(e.res.ScopeParam, p.Scope)
	}
	if e.res.TypeParam != "" {
		for _, t := range p.Types {
			q.Add(e.res.TypeParam, t)
		}
	}
	if p.Role != "" {
		q.Set("role", p.Role)
	}

	data, err := e.client.send(ctx, request{
		Method:   http.MethodGet,
		Path:     e.res.ListPath,
		Query:    q,
		Fallback: e.res.LoadFailure(),
	})
	if err != nil {
		if KindOf(err) == KindNotFound {
			return Page[T]{Items: []T{}}, nil
		}
		return Page[T]{}, err
	}

	var env listEnvelope[T]
	if err := decode(data, &env); err != nil {
		return Page[T]{}, err
	}
	body := listBody[T]{List: env.List, TotalCount: env.TotalCount}
	if env.Data != nil {
		body = *env.Data
	}
	if body.List == nil {
		body.List = []T{}
	}
	return Page[T]{Items: body.List, TotalCount: int(body.TotalCount)}, nil
}

// Create posts a new entity. The returned value is the entity echoed by the
// backend, or the zero value when the backend echoes nothing.
func (e *Endpoint[T]) Create(ctx context.Context, payload map[string]any) (T, error) {
	data, err := e.client.send(ctx, request{
		Method:   http.MethodPost,
		Path:     e.res.CreatePath,
		Body:     payload,
		Fallback: e.res.failure("create"),
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEntity[T](data), nil
}

// Update sends the payload with the id carried in the body under the
// resource's id field.
func (e *Endpoint[T]) Update(ctx context.Context, id string, payload map[string]any) (T, error) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body[e.res.IDField] = FlexID(id)

	data, err := e.client.send(ctx, request{
		Method:   http.MethodPut,
		Path:     e.res.UpdatePath,
		Body:     body,
		Fallback: e.res.failure("update"),
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEntity[T](data), nil
}

// Remove deletes the entity with the given id.
func (e *Endpoint[T]) Remove(ctx context.Context, id string) error {
	if !e.res.Deletable() {
		return validationError(e.res.Label + " cannot be deleted")
	}
	if id == "" {
		return validationError("Missing " + e.res.Singular + " id")
	}
	_, err := e.client.send(ctx, request{
		Method:   http.MethodDelete,
		Path:     e.res.DeletePrefix + url.PathEscape(id),
		Fallback: e.res.failure("delete"),
	})
	return err
}

// Reorder submits a complete sortOrder assignment in one call.
func (e *Endpoint[T]) Reorder(ctx context.Context, items []ReorderItem) error {
	if !e.res.Reorderable() {
		return validationError(e.res.Label + " cannot be reordered")
	}
	_, err := e.client.send(ctx, request{
		Method: http.MethodPut,
		Path:   "/topic/reorder",
		Body: map[string]any{
			"items": items,
			"type":  e.res.ReorderType,
		},
		Fallback: "Failed to update order",
	})
	return err
}

// decodeEntity reads {data: entity}. Mutation responses vary between
// backends, so anything else yields the zero value.
func decodeEntity[T any](data []byte) T {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	var out T
	if json.Unmarshal(data, &env) != nil || len(env.Data) == 0 || env.Data[0] != '{' {
		return out
	}
	_ = json.Unmarshal(env.Data, &out)
	return out
}
