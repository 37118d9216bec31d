package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/usecases"
)

type sessionKeyType struct{}

var sessionKey sessionKeyType

func sessionFromContext(ctx context.Context) domain.Session {
	if s, ok := ctx.Value(sessionKey).(domain.Session); ok {
		return s
	}
	return domain.Session{}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	tagType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tag",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"background_color": &graphql.Field{Type: graphql.String},
			"name_color":       &graphql.Field{Type: graphql.String},
			"is_official":      &graphql.Field{Type: graphql.Boolean},
			"creator_id":       &graphql.Field{Type: graphql.String},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"name":            &graphql.Field{Type: graphql.String},
			"description":     &graphql.Field{Type: graphql.String},
			"address":         &graphql.Field{Type: graphql.String},
			"gps_coordinates": &graphql.Field{Type: geoPointType},
			"owner_id":        &graphql.Field{Type: graphql.String},
			"tag_ids":         &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"name":            &graphql.Field{Type: graphql.String},
			"description":     &graphql.Field{Type: graphql.String},
			"address":         &graphql.Field{Type: graphql.String},
			"gps_coordinates": &graphql.Field{Type: geoPointType},
			"tag_ids":         &graphql.Field{Type: graphql.NewList(graphql.String)},
			"tags":            &graphql.Field{Type: graphql.NewList(tagType)},
			"is_iteration":    &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"markers": &graphql.Field{
				Type:        graphql.NewList(markerType),
				Description: "Composed, filtered marker set for a map",
				Args: graphql.FieldConfigArgument{
					"map_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"tags":   &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := usecases.MarkerQuery{
						Name: p.Args["name"].(string),
					}
					if raw, ok := p.Args["tags"].([]interface{}); ok {
						for _, t := range raw {
							if id, ok := t.(string); ok && id != "" {
								q.Tags = append(q.Tags, id)
							}
						}
					}
					return deps.Maps.ComposeMarkers(p.Context, sessionFromContext(p.Context), p.Args["map_id"].(string), q)
				},
			},
			"places": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "All registered places",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.LoadAll(p.Context, sessionFromContext(p.Context))
				},
			},
			"placesNearby": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Places near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.FindNearby(p.Context,
						p.Args["lat"].(float64), p.Args["lon"].(float64),
						p.Args["radius"].(float64), p.Args["limit"].(int))
				},
			},
			"tags": &graphql.Field{
				Type:        graphql.NewList(tagType),
				Description: "Official tags plus the caller's own",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Tags.LoadForUser(p.Context, sessionFromContext(p.Context))
				},
			},
			"tagSuggestions": &graphql.Field{
				Type:        graphql.NewList(tagType),
				Description: "Catalog ranked by affinity with the selected tags",
				Args: graphql.FieldConfigArgument{
					"selected": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					session := sessionFromContext(p.Context)
					pool, err := deps.Tags.LoadForUser(p.Context, session)
					if err != nil {
						return nil, err
					}
					var ids []string
					if raw, ok := p.Args["selected"].([]interface{}); ok {
						for _, t := range raw {
							if id, ok := t.(string); ok && id != "" {
								ids = append(ids, id)
							}
						}
					}
					selected, err := deps.Tags.GetByIDs(p.Context, ids)
					if err != nil {
						return nil, err
					}
					return deps.Tags.SuggestByAffinity(selected, pool, p.Args["limit"].(int)), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		ctx := context.WithValue(c.Context(), sessionKey, sessionFrom(c))

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})

		return c.JSON(result)
	}
}
