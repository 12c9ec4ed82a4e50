package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	tsclient "github.com/divetribe/divedirectory/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements the operator suggestion index using Typesense.
// The relational store stays authoritative for search; this index only serves
// typeahead suggestions.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.OperatorSearchIndex = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the operators collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(tsclient.OperatorsCollection).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: tsclient.OperatorsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "slug", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "address", Type: "string"},
			{Name: "active", Type: "bool"},
			{Name: "location", Type: "geopoint", Optional: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts an operator document
func (a *TypesenseAdapter) Index(ctx context.Context, operator *entities.Operator) error {
	document := map[string]interface{}{
		"id":         operator.ID,
		"slug":       operator.Slug,
		"name":       operator.Name,
		"address":    operator.Address,
		"active":     operator.Active,
		"created_at": operator.CreatedAt.Unix(),
	}
	if operator.Description != nil {
		document["description"] = *operator.Description
	}
	if operator.Location != nil {
		document["location"] = []float64{operator.Location.Latitude, operator.Location.Longitude}
	}

	_, err := a.client.Client().Collection(tsclient.OperatorsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index operator: %w", err)
	}

	return nil
}

// Delete removes an operator from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.OperatorsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete operator from index: %w", err)
	}
	return nil
}

// Suggest returns name-prefix matches for typeahead. Only active operators
// are suggested.
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]*entities.Operator, error) {
	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name"),
		Prefix:   pointer.String("true"),
		FilterBy: pointer.String("active:=true"),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.OperatorsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search operators: %w", err)
	}

	operators := []*entities.Operator{}
	if result.Hits == nil {
		return operators, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		operator := &entities.Operator{
			ID:     doc["id"].(string),
			Slug:   doc["slug"].(string),
			Name:   doc["name"].(string),
			Active: doc["active"].(bool),
		}
		if val, ok := doc["address"].(string); ok {
			operator.Address = val
		}
		if val, ok := doc["description"].(string); ok && val != "" {
			operator.Description = &val
		}
		if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
			lat, latOK := loc[0].(float64)
			lon, lonOK := loc[1].(float64)
			if latOK && lonOK {
				operator.Location = &entities.Location{Latitude: lat, Longitude: lon}
			}
		}

		operators = append(operators, operator)
	}

	return operators, nil
}
