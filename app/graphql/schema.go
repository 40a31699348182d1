// Package graphql exposes a read-only query surface over the catalog:
//
//	{ potions { name price categories } }
//	{ potion(id: "...") { name effect ratings { strength flavor } } }
//
// Mutations stay on the REST routes where the auth policy lives.
package graphql

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/nberchet/apothecary/app/models"
	"github.com/nberchet/apothecary/app/repositories"
	"github.com/nberchet/apothecary/pkg/response"
)

var ratingsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Ratings",
	Fields: graphql.Fields{
		"strength": &graphql.Field{Type: graphql.Float},
		"flavor":   &graphql.Field{Type: graphql.Float},
	},
})

var potionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Potion",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if potion, ok := p.Source.(models.Potion); ok {
					return potion.ID.Hex(), nil
				}
				if potion, ok := p.Source.(*models.Potion); ok {
					return potion.ID.Hex(), nil
				}
				return nil, nil
			},
		},
		"name":        &graphql.Field{Type: graphql.String},
		"effect":      &graphql.Field{Type: graphql.String},
		"ingredients": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"price":       &graphql.Field{Type: graphql.Float},
		"vendorId": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if potion, ok := p.Source.(models.Potion); ok {
					return potion.VendorID, nil
				}
				if potion, ok := p.Source.(*models.Potion); ok {
					return potion.VendorID, nil
				}
				return nil, nil
			},
		},
		"categories": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"ratings":    &graphql.Field{Type: ratingsType},
	},
})

// NewSchema builds the read-only schema over the given repository.
func NewSchema(repo *repositories.PotionRepository) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"potions": &graphql.Field{
				Type: graphql.NewList(potionType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return repo.All(p.Context)
				},
			},
			"potion": &graphql.Field{
				Type: potionType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					potion, err := repo.ByID(p.Context, id)
					if errors.Is(err, repositories.ErrNotFound) {
						return nil, nil
					}
					return potion, err
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves POST /graphql.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Err(w, http.StatusBadRequest, "Requête invalide")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})

		response.JSON(w, http.StatusOK, result)
	}
}
